package spatial

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/voronoi-tools/internal/geom"
)

var (
	// ErrNoSites is returned when a locator is built from zero points.
	ErrNoSites = errors.New("spatial: no sites to index")

	// ErrNonFinite is returned when a point has a NaN or infinite coordinate.
	ErrNonFinite = errors.New("spatial: non-finite coordinate")
)

// Locator finds the nearest indexed point to a query.
type Locator interface {
	// Nearest returns the original position of the nearest point.
	Nearest(q geom.Point) int

	// Len returns the number of indexed points.
	Len() int
}

// Kind names a Locator implementation.
type Kind string

const (
	KDTree     Kind = "kdtree"
	LinearScan Kind = "linear"
)

// ParseKind resolves a locator name. The empty string selects KDTree.
func ParseKind(name string) (Kind, error) {
	switch k := Kind(strings.ToLower(name)); k {
	case "":
		return KDTree, nil
	case KDTree, LinearScan:
		return k, nil
	default:
		return "", fmt.Errorf("unknown index kind %q (want %q or %q)", name, KDTree, LinearScan)
	}
}

// New builds a Locator of the given kind.
func New(kind Kind, points []geom.Point) (Locator, error) {
	switch kind {
	case KDTree, "":
		return Build(points)
	case LinearScan:
		return NewLinear(points)
	default:
		return nil, fmt.Errorf("unknown index kind %q", kind)
	}
}

func validate(points []geom.Point) error {
	if len(points) == 0 {
		return ErrNoSites
	}
	for i, p := range points {
		if !p.IsFinite() {
			return fmt.Errorf("%w: point %d is %v", ErrNonFinite, i, p)
		}
	}
	return nil
}

// sqDist is the squared Euclidean distance. It orders candidates only and
// never leaves the package.
func sqDist(a, b geom.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// closer reports whether candidate (d, id) beats the current best.
func closer(d float64, id int, bestDist float64, bestID int) bool {
	if bestID < 0 {
		return true
	}
	return d < bestDist || (d == bestDist && id < bestID)
}
