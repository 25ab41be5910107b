package spatial

import (
	"math"
	"sort"

	"github.com/ironsheep/voronoi-tools/internal/geom"
)

// leafSize is the largest point count stored in a single leaf bucket.
const leafSize = 8

// Index is an immutable 2-D k-d tree.
//
// Nodes live in a flat slice and refer to each other by position. Points are
// stored in tree order next to their original positions, so a leaf is a
// contiguous run that is scanned linearly.
type Index struct {
	points []geom.Point
	ids    []int
	nodes  []node
}

type node struct {
	split float64
	axis  uint8
	leaf  bool

	// Leaf: half-open range into points/ids.
	lo, hi int32

	// Interior: children. Points in left have coordinate <= split on axis,
	// points in right have coordinate >= split.
	left, right int32
}

type entry struct {
	p  geom.Point
	id int
}

// Build constructs an Index over points. The slice is not retained.
//
// Build fails with ErrNoSites for an empty slice and ErrNonFinite if any
// coordinate is NaN or infinite.
func Build(points []geom.Point) (*Index, error) {
	if err := validate(points); err != nil {
		return nil, err
	}

	entries := make([]entry, len(points))
	for i, p := range points {
		entries[i] = entry{p: p, id: i}
	}

	b := builder{
		entries: entries,
		nodes:   make([]node, 0, 2*len(points)/leafSize+1),
	}
	b.build(0, len(entries))

	idx := &Index{
		points: make([]geom.Point, len(entries)),
		ids:    make([]int, len(entries)),
		nodes:  b.nodes,
	}
	for i, e := range entries {
		idx.points[i] = e.p
		idx.ids[i] = e.id
	}
	return idx, nil
}

type builder struct {
	entries []entry
	nodes   []node
}

func (b *builder) build(lo, hi int) int32 {
	id := int32(len(b.nodes))
	b.nodes = append(b.nodes, node{})

	if hi-lo <= leafSize {
		b.nodes[id] = node{leaf: true, lo: int32(lo), hi: int32(hi)}
		return id
	}

	axis := longestAxis(b.entries[lo:hi])
	sortByAxis(b.entries[lo:hi], axis)

	mid := lo + (hi-lo)/2
	split := coord(b.entries[mid].p, axis)
	left := b.build(lo, mid)
	right := b.build(mid, hi)

	b.nodes[id] = node{split: split, axis: axis, left: left, right: right}
	return id
}

// longestAxis returns 0 (X) or 1 (Y), whichever has the wider extent.
func longestAxis(entries []entry) uint8 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, e := range entries {
		minX = min(minX, e.p.X)
		maxX = max(maxX, e.p.X)
		minY = min(minY, e.p.Y)
		maxY = max(maxY, e.p.Y)
	}
	if maxY-minY > maxX-minX {
		return 1
	}
	return 0
}

// sortByAxis orders by coordinate, then by original position so the layout is
// fully determined by the input.
func sortByAxis(entries []entry, axis uint8) {
	sort.Slice(entries, func(i, j int) bool {
		ci, cj := coord(entries[i].p, axis), coord(entries[j].p, axis)
		if ci != cj {
			return ci < cj
		}
		return entries[i].id < entries[j].id
	})
}

func coord(p geom.Point, axis uint8) float64 {
	if axis == 0 {
		return p.X
	}
	return p.Y
}

// Len returns the number of indexed points.
func (idx *Index) Len() int {
	return len(idx.points)
}

// Nearest returns the original position of the point nearest to q, with ties
// going to the lowest position.
func (idx *Index) Nearest(q geom.Point) int {
	s := search{q: q, best: -1, bestDist: math.Inf(1)}
	idx.searchNode(0, &s)
	return s.best
}

type search struct {
	q        geom.Point
	best     int
	bestDist float64
}

func (idx *Index) searchNode(n int32, s *search) {
	nd := &idx.nodes[n]
	if nd.leaf {
		for i := nd.lo; i < nd.hi; i++ {
			d := sqDist(idx.points[i], s.q)
			if id := idx.ids[i]; closer(d, id, s.bestDist, s.best) {
				s.best, s.bestDist = id, d
			}
		}
		return
	}

	diff := coord(s.q, nd.axis) - nd.split
	near, far := nd.left, nd.right
	if diff >= 0 {
		near, far = far, near
	}

	idx.searchNode(near, s)
	// Equal distances must still be visited: the far side may hold a tie
	// with a lower position.
	if diff*diff <= s.bestDist {
		idx.searchNode(far, s)
	}
}

// treeStats summarizes the tree shape.
type treeStats struct {
	nodes    int
	leaves   int
	maxDepth int
	maxLeaf  int
}

func (idx *Index) stats() treeStats {
	var st treeStats
	var walk func(n int32, depth int)
	walk = func(n int32, depth int) {
		nd := idx.nodes[n]
		st.nodes++
		st.maxDepth = max(st.maxDepth, depth)
		if nd.leaf {
			st.leaves++
			st.maxLeaf = max(st.maxLeaf, int(nd.hi-nd.lo))
			return
		}
		walk(nd.left, depth+1)
		walk(nd.right, depth+1)
	}
	walk(0, 0)
	return st
}
