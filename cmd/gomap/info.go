package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gomap/cmd"
	"github.com/philipparndt/gomap/internal/config"
	"github.com/philipparndt/gomap/internal/mapimage"
	"github.com/philipparndt/gomap/pkg/geometry"
	"github.com/philipparndt/gomap/pkg/viewport"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [image]",
		Short: "Display general information about a map image",
		Long:  "Show the map's format, dimensions and file size, and the view the viewer opens it with.",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := cmd.LoadConfig()
			if err != nil {
				return err
			}
			return runInfo(c.OutOrStdout(), args[0], cfg)
		},
	}
}

func runInfo(w io.Writer, path string, cfg *config.Config) error {
	info, err := mapimage.ReadInfo(path)
	if err != nil {
		return err
	}

	v := cfg.Viewer
	container := geometry.NewSize(float64(cfg.Window.Width), float64(cfg.Window.Height))
	initial := viewport.New(v.InitialScale, viewport.Limits{MinScale: v.MinScale, MaxScale: v.MaxScale}).
		CenterOn(container, info.Size())

	fmt.Fprintln(w, "Map Information")
	fmt.Fprintln(w, "===============")
	fmt.Fprintf(w, "File: %s\n", info.Path)
	fmt.Fprintf(w, "Format: %s\n", info.Format)
	fmt.Fprintf(w, "Size: %d bytes\n\n", info.FileBytes)

	fmt.Fprintln(w, "Dimensions:")
	fmt.Fprintf(w, "  Width: %d px\n", info.Width)
	fmt.Fprintf(w, "  Height: %d px\n", info.Height)
	diagonal := geometry.NewVec2(float64(info.Width), float64(info.Height)).Length()
	fmt.Fprintf(w, "  Diagonal: %.1f %s\n\n", diagonal*cfg.Measurement.UnitsPerPixel, cfg.Measurement.Unit)

	fmt.Fprintf(w, "Initial view (%.0f×%.0f window):\n", container.Width, container.Height)
	fmt.Fprintf(w, "  %s\n", initial)
	return nil
}
