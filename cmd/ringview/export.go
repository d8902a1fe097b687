package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taigrr/ringview/pkg/models"
	"github.com/taigrr/ringview/pkg/scene"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ring as a GLB asset for AR viewers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			if err := exportRing(cfg.Finish, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s ring to %s\n", cfg.Finish, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "ring.glb", "GLB file to write")
	return cmd
}

// exportRing writes the ring for finish to path as a single merged mesh.
func exportRing(finish, path string) error {
	model, err := models.Tessellate(scene.BuildRing(finish))
	if err != nil {
		return err
	}
	defer model.Release()

	merged := model.Merge("ring")
	defer merged.Release()
	if err := models.ExportGLB(merged, path); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
