// Package elbow estimates the elbow (knee) position of a scree-plot
// curve, used to pick the number of significant components from an
// explained-variance ratio.
//
// Method: draw the chord between the first and the maxPoints-th point of
// the log-transformed curve; the elbow is the intermediate point with
// the largest perpendicular distance to that chord (the "kneedle"
// construction of Satopää et al., 2011). With a classic elbow curve the
// chord closes a triangle and the furthest point is the corner.
package elbow

import (
	"fmt"
	"math"

	"github.com/veletar/mva"
)

// DefaultMaxPoints bounds how much of the curve participates in the
// chord construction; tails of long scree plots carry no elbow
// information and would flatten the chord.
const DefaultMaxPoints = 20

// curveFloor clips curve values from below before the log transform so
// that zero entries do not produce -Inf.
const curveFloor = 1e-30

// ErrCurveTooShort is returned when the curve has fewer than two points.
var ErrCurveTooShort = fmt.Errorf("elbow: curve must contain at least two points: %w", mva.ErrDimension)

// ErrBadMaxPoints is returned for a non-positive maxPoints.
var ErrBadMaxPoints = fmt.Errorf("elbow: max points must be positive: %w", mva.ErrConfiguration)

// Estimate returns the index of the elbow of curve, considering at most
// maxPoints leading samples (clamped to len(curve)-1). On ties the
// first occurrence wins. The significant-component count downstream is
// the returned index plus one.
func Estimate(curve []float64, maxPoints int) (int, error) {
	if len(curve) < 2 {
		return 0, ErrCurveTooShort
	}
	if maxPoints <= 0 {
		return 0, ErrBadMaxPoints
	}
	if maxPoints > len(curve)-1 {
		maxPoints = len(curve) - 1
	}

	logAt := func(i int) float64 {
		return math.Log(math.Max(curve[i], curveFloor))
	}

	x1, x2 := 0.0, float64(maxPoints)
	y1, y2 := logAt(0), logAt(maxPoints)
	denom := math.Sqrt((x2-x1)*(x2-x1) + (y2-y1)*(y2-y1))

	best, bestDist := 0, math.Inf(-1)
	for i := 0; i < maxPoints; i++ {
		xi, yi := float64(i), logAt(i)
		numer := math.Abs((x2-x1)*(y1-yi) - (x1-xi)*(y2-y1))
		dist := numer / denom
		if math.IsNaN(dist) || math.IsInf(dist, 0) {
			dist = 0
		}
		if dist > bestDist {
			best, bestDist = i, dist
		}
	}
	return best, nil
}
