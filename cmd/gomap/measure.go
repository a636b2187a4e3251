package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gomap/cmd"
	"github.com/philipparndt/gomap/internal/mapimage"
	"github.com/philipparndt/gomap/internal/measurement"
	"github.com/philipparndt/gomap/pkg/geometry"
)

type measureOptions struct {
	x1, y1, x2, y2 float64
	image          string
}

func newMeasureCommand() *cobra.Command {
	opts := &measureOptions{}
	c := &cobra.Command{
		Use:   "measure",
		Short: "Measure distance and azimuth between two map points",
		Long: `Measure the straight-line distance and the azimuth from point A to point B,
given in image pixel coordinates. With --image the points are checked against
the map's dimensions the same way a click in the viewer is.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := cmd.LoadConfig()
			if err != nil {
				return err
			}
			m := cfg.Measurement
			f := measurement.NewFormatter(m.Locale, m.Unit, m.UnitsPerPixel)
			return runMeasure(c.OutOrStdout(), opts, f)
		},
	}

	c.Flags().Float64Var(&opts.x1, "x1", 0.0, "X coordinate of point A")
	c.Flags().Float64Var(&opts.y1, "y1", 0.0, "Y coordinate of point A")
	c.Flags().Float64Var(&opts.x2, "x2", 0.0, "X coordinate of point B")
	c.Flags().Float64Var(&opts.y2, "y2", 0.0, "Y coordinate of point B")
	c.Flags().StringVar(&opts.image, "image", "", "map image the points must lie on")

	c.MarkFlagsRequiredTogether("x1", "y1", "x2", "y2")
	return c
}

func runMeasure(w io.Writer, opts *measureOptions, f *measurement.Formatter) error {
	a := geometry.NewVec2(opts.x1, opts.y1)
	b := geometry.NewVec2(opts.x2, opts.y2)

	var result measurement.Result
	if opts.image != "" {
		info, err := mapimage.ReadInfo(opts.image)
		if err != nil {
			return err
		}
		session := measurement.NewSession(info.Size(), nil)
		for _, p := range []geometry.Vec2{a, b} {
			if !session.PlacePoint(p) {
				return fmt.Errorf("point (%g, %g) lies outside the %d×%d map", p.X, p.Y, info.Width, info.Height)
			}
		}
		result = session.Result()
	} else {
		result = measurement.Compute(a, b)
	}

	fmt.Fprintln(w, "Point-to-Point Measurement")
	fmt.Fprintln(w, "==========================")
	fmt.Fprintf(w, "\n%s: (%g, %g)\n", measurement.RoleFirst.Label(), a.X, a.Y)
	fmt.Fprintf(w, "%s: (%g, %g)\n", measurement.RoleSecond.Label(), b.X, b.Y)
	fmt.Fprintf(w, "\nDistance: %s\n", f.Distance(result))
	fmt.Fprintf(w, "Azimuth:  %s\n", f.Azimuth(result))
	return nil
}
