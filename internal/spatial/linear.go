package spatial

import (
	"math"

	"github.com/ironsheep/voronoi-tools/internal/geom"
)

// Linear is an exhaustive-scan Locator.
type Linear struct {
	points []geom.Point
}

// NewLinear copies points into a new Linear locator.
func NewLinear(points []geom.Point) (*Linear, error) {
	if err := validate(points); err != nil {
		return nil, err
	}
	pts := make([]geom.Point, len(points))
	copy(pts, points)
	return &Linear{points: pts}, nil
}

// Nearest scans every point.
func (l *Linear) Nearest(q geom.Point) int {
	best, bestDist := -1, math.Inf(1)
	for i, p := range l.points {
		if d := sqDist(p, q); closer(d, i, bestDist, best) {
			best, bestDist = i, d
		}
	}
	return best
}

// Len returns the number of points.
func (l *Linear) Len() int {
	return len(l.points)
}
