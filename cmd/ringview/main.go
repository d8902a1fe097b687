// ringview - Terminal 3D Ring Viewer
// Render a catalog ring in your terminal, snapshot it, or export it for AR.
//
// Controls (view):
//
//	Mouse drag  - Orbit the camera
//	Scroll      - Zoom in/out
//	Hover band  - Pause the ring's spin
//	Space       - Toggle auto-rotation
//	R           - Reset view
//	X           - Toggle wireframe mode
//	A           - Open the ring in the AR viewer (with --ar)
//	?           - Toggle HUD overlay
//	+/-         - Adjust zoom
//	Esc         - Quit
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/taigrr/ringview/pkg/config"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	finish     string
	fps        int
	autoRotate bool
	logLevel   string
	logFile    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "ringview",
		Short:         "Terminal 3D ring viewer",
		Long:          "ringview renders a catalog ring with studio lighting in the terminal,\nas a PNG snapshot, or as a GLB asset for AR viewers.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaults := config.DefaultConfig()
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVarP(&opts.finish, "finish", "f", defaults.Finish, "metal finish, e.g. \"18K Rose Gold\"")
	flags.IntVar(&opts.fps, "fps", defaults.FPS, "target frames per second")
	flags.BoolVar(&opts.autoRotate, "auto-rotate", defaults.AutoRotate, "start with the camera circling the ring")
	flags.StringVar(&opts.logLevel, "log-level", defaults.Log.Level, "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")

	root.AddCommand(
		newViewCmd(opts),
		newSnapshotCmd(opts),
		newExportCmd(opts),
		newInspectCmd(opts),
	)
	return root
}

// load reads the config file, if any, then applies the flags the user set.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.DefaultConfig()
	if o.configPath != "" {
		var err error
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return cfg, err
		}
	}
	o.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// apply overrides cfg with explicitly set flags. It also runs on every
// config reload so flags keep precedence over the file.
func (o *rootOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("finish") {
		cfg.Finish = o.finish
	}
	if flags.Changed("fps") {
		cfg.FPS = o.fps
	}
	if flags.Changed("auto-rotate") {
		cfg.AutoRotate = o.autoRotate
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = o.logFile
	}
}
