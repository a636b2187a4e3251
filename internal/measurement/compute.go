package measurement

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/philipparndt/gomap/pkg/geometry"
)

// AzimuthFactor converts degrees into the scaled azimuth unit shown next to them
const AzimuthFactor = 5.0

// Compute measures the A→B vector. The azimuth rotates the math angle by 90°
// so that 0 points to the top of the image and values grow clockwise.
func Compute(a, b geometry.Vec2) Result {
	d := r2.Sub(r2.Vec{X: b.X, Y: b.Y}, r2.Vec{X: a.X, Y: a.Y})

	azimuth := math.Mod(math.Atan2(d.Y, d.X)*180/math.Pi+90, 360)
	if azimuth < 0 {
		azimuth += 360
	}
	if azimuth >= 360 {
		azimuth -= 360
	}

	return Result{
		Valid:         true,
		Distance:      r2.Norm(d),
		Azimuth:       azimuth,
		AzimuthScaled: azimuth * AzimuthFactor,
	}
}

// computePoints returns the measurement for a point set, invalid unless it
// holds exactly two points
func computePoints(points []Point) Result {
	if len(points) != 2 {
		return Result{}
	}
	return Compute(points[0].Position, points[1].Position)
}
