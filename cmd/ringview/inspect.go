package main

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/tree"
	"github.com/spf13/cobra"
	"github.com/taigrr/ringview/pkg/material"
	"github.com/taigrr/ringview/pkg/math3d"
	"github.com/taigrr/ringview/pkg/scene"
)

var (
	groupStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D4AF37"))
	leafStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E4E2"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newInspectCmd(root *rootOptions) *cobra.Command {
	var (
		showIDs bool
		node    string
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the ring scene graph and light rig",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			a := scene.BuildRing(cfg.Finish)
			out := cmd.OutOrStdout()
			if node != "" {
				n := a.Root.Find(node)
				if n == nil {
					return fmt.Errorf("no node named %q", node)
				}
				fmt.Fprintln(out, nodeTree(n, showIDs))
				return nil
			}
			fmt.Fprintln(out, sceneTree(a, showIDs))
			fmt.Fprintln(out)
			fmt.Fprintln(out, lightTree(scene.StudioRig()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&showIDs, "ids", false, "include node ids")
	cmd.Flags().StringVar(&node, "node", "", "print only the named node, e.g. gem or prong/2")
	return cmd
}

// sceneTree renders the assembly hierarchy under a finish title.
func sceneTree(a *scene.Assembly, showIDs bool) string {
	title := fmt.Sprintf("%s %s", groupStyle.Render(a.Finish), dimStyle.Render(material.Hex(a.Color)))
	return title + "\n" + nodeTree(a.Root, showIDs).String()
}

func nodeTree(n *scene.Node, showIDs bool) *tree.Tree {
	t := tree.Root(nodeLabel(n, showIDs)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(dimStyle)
	for _, c := range n.Children {
		if c.IsLeaf() {
			t.Child(nodeLabel(c, showIDs))
			continue
		}
		t.Child(nodeTree(c, showIDs))
	}
	return t
}

func nodeLabel(n *scene.Node, showIDs bool) string {
	var label string
	if n.IsLeaf() {
		label = fmt.Sprintf("%s %s", leafStyle.Render(n.Name), dimStyle.Render(fmt.Sprintf("%s at %s", n.Kind, vec(n.Local.Position))))
		if n.Material != nil {
			label += dimStyle.Render(" " + n.Material.Name)
		}
	} else {
		label = fmt.Sprintf("%s %s", groupStyle.Render(n.Name), dimStyle.Render(fmt.Sprintf("(%d)", len(n.Children))))
	}
	if showIDs {
		label += dimStyle.Render(" " + n.ID.String())
	}
	return label
}

// lightTree renders the light rig.
func lightTree(lights []scene.Light) *tree.Tree {
	title := fmt.Sprintf("%s %s", groupStyle.Render("lights"),
		dimStyle.Render(fmt.Sprintf("(%d, %d casting shadows)", len(lights), len(scene.ShadowCasters(lights)))))
	t := tree.Root(title).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(dimStyle)
	for _, l := range lights {
		desc := fmt.Sprintf("%s intensity %.1f", l.Kind, l.Intensity)
		if l.Position != nil {
			desc += " at " + vec(*l.Position)
		}
		if l.CastsShadow {
			desc += " shadow"
		}
		t.Child(leafStyle.Render(l.Name) + " " + dimStyle.Render(desc))
	}
	return t
}

func vec(v math3d.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}
