package spatial

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/voronoi-tools/internal/geom"
)

// bruteForce is the reference answer: minimal squared distance, lowest index.
func bruteForce(points []geom.Point, q geom.Point) int {
	best, bestDist := -1, math.Inf(1)
	for i, p := range points {
		d := (p.X-q.X)*(p.X-q.X) + (p.Y-q.Y)*(p.Y-q.Y)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func randomPoints(rng *rand.Rand, n int, span float64, lattice bool) []geom.Point {
	pts := make([]geom.Point, n)
	for i := range pts {
		if lattice {
			// Small integer lattice: many duplicates and exact ties.
			pts[i] = geom.Pt(float64(rng.IntN(int(span))), float64(rng.IntN(int(span))))
		} else {
			pts[i] = geom.Pt(rng.Float64()*span, rng.Float64()*span)
		}
	}
	return pts
}

func TestBuild_Empty(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, ErrNoSites)

	_, err = Build([]geom.Point{})
	assert.ErrorIs(t, err, ErrNoSites)

	_, err = NewLinear(nil)
	assert.ErrorIs(t, err, ErrNoSites)
}

func TestBuild_NonFinite(t *testing.T) {
	for _, p := range []geom.Point{geom.Pt(math.NaN(), 0), geom.Pt(0, math.Inf(1))} {
		_, err := Build([]geom.Point{geom.Pt(1, 1), p})
		assert.ErrorIs(t, err, ErrNonFinite)
	}
}

func TestIndex_SinglePoint(t *testing.T) {
	idx, err := Build([]geom.Point{geom.Pt(3, 4)})
	require.NoError(t, err)
	for _, q := range []geom.Point{geom.Pt(0, 0), geom.Pt(3, 4), geom.Pt(-100, 1e6)} {
		assert.Equal(t, 0, idx.Nearest(q))
	}
	assert.Equal(t, 1, idx.Len())
}

func TestIndex_TieBreakLowestIndex(t *testing.T) {
	tests := []struct {
		name   string
		points []geom.Point
		query  geom.Point
		want   int
	}{
		{"horizontal midpoint", []geom.Point{geom.Pt(0, 0), geom.Pt(2, 0)}, geom.Pt(1, 0), 0},
		{"reversed order", []geom.Point{geom.Pt(2, 0), geom.Pt(0, 0)}, geom.Pt(1, 0), 0},
		{"diagonal", []geom.Point{geom.Pt(0, 0), geom.Pt(3, 3)}, geom.Pt(1, 2), 0},
		{"four corners", []geom.Point{geom.Pt(2, 2), geom.Pt(0, 2), geom.Pt(2, 0), geom.Pt(0, 0)}, geom.Pt(1, 1), 0},
		{"duplicates", []geom.Point{geom.Pt(9, 9), geom.Pt(5, 5), geom.Pt(5, 5), geom.Pt(5, 5)}, geom.Pt(5, 5), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := Build(tt.points)
			require.NoError(t, err)
			assert.Equal(t, tt.want, idx.Nearest(tt.query))

			lin, err := NewLinear(tt.points)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lin.Nearest(tt.query))
		})
	}
}

func TestIndex_TieAcrossSplit(t *testing.T) {
	// Many identical points force ties to straddle interior splits; the lowest
	// position must still win.
	pts := make([]geom.Point, 100)
	for i := range pts {
		pts[i] = geom.Pt(7, 7)
	}
	pts[0] = geom.Pt(100, 100)
	idx, err := Build(pts)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Nearest(geom.Pt(7, 7)))
	assert.Equal(t, 1, idx.Nearest(geom.Pt(0, 0)))
	assert.Equal(t, 0, idx.Nearest(geom.Pt(99, 99)))
}

func TestIndex_MatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	const configs = 10000

	for c := 0; c < configs; c++ {
		n := 1 + rng.IntN(64)
		lattice := c%2 == 0
		pts := randomPoints(rng, n, 12, lattice)

		idx, err := Build(pts)
		require.NoError(t, err)
		lin, err := NewLinear(pts)
		require.NoError(t, err)

		for k := 0; k < 4; k++ {
			var q geom.Point
			if lattice {
				q = geom.Pt(float64(rng.IntN(14)-1), float64(rng.IntN(14)-1))
			} else {
				q = geom.Pt(rng.Float64()*14-1, rng.Float64()*14-1)
			}
			want := bruteForce(pts, q)
			if got := idx.Nearest(q); got != want {
				t.Fatalf("config %d (n=%d): Nearest(%v) = %d, want %d", c, n, q, got, want)
			}
			if got := lin.Nearest(q); got != want {
				t.Fatalf("config %d (n=%d): Linear.Nearest(%v) = %d, want %d", c, n, q, got, want)
			}
		}
	}
}

func TestIndex_MatchesLinearScanLarge(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for _, tc := range []struct {
		n       int
		span    float64
		lattice bool
	}{
		{5000, 1000, false},
		{5000, 40, true},
		{2000, 3, true},
	} {
		pts := randomPoints(rng, tc.n, tc.span, tc.lattice)
		idx, err := Build(pts)
		require.NoError(t, err)
		for k := 0; k < 2000; k++ {
			q := geom.Pt(math.Floor(rng.Float64()*tc.span), math.Floor(rng.Float64()*tc.span))
			require.Equal(t, bruteForce(pts, q), idx.Nearest(q), "n=%d query %v", tc.n, q)
		}
	}
}

func TestIndex_LeafThreshold(t *testing.T) {
	pts := make([]geom.Point, leafSize)
	for i := range pts {
		pts[i] = geom.Pt(float64(i), 0)
	}
	idx, err := Build(pts)
	require.NoError(t, err)
	st := idx.stats()
	assert.Equal(t, 1, st.nodes, "exactly leafSize points fit in one leaf")
	assert.Equal(t, 1, st.leaves)

	pts = append(pts, geom.Pt(float64(leafSize), 0))
	idx, err = Build(pts)
	require.NoError(t, err)
	st = idx.stats()
	assert.Greater(t, st.nodes, 1)
	assert.GreaterOrEqual(t, st.leaves, 2)
}

func TestIndex_Balanced(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	pts := randomPoints(rng, 10000, 500, false)
	idx, err := Build(pts)
	require.NoError(t, err)

	st := idx.stats()
	// Median splits halve the range at every level.
	wantDepth := int(math.Ceil(math.Log2(float64(len(pts)) / leafSize)))
	assert.LessOrEqual(t, st.maxDepth, wantDepth+1)
	assert.LessOrEqual(t, st.maxLeaf, leafSize)
}

func TestIndex_DoesNotRetainInput(t *testing.T) {
	pts := []geom.Point{geom.Pt(0, 0), geom.Pt(10, 10)}
	idx, err := Build(pts)
	require.NoError(t, err)
	lin, err := NewLinear(pts)
	require.NoError(t, err)

	pts[0] = geom.Pt(100, 100)
	assert.Equal(t, 0, idx.Nearest(geom.Pt(1, 1)))
	assert.Equal(t, 0, lin.Nearest(geom.Pt(1, 1)))
}

func TestIndex_ConcurrentQueries(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	pts := randomPoints(rng, 3000, 256, false)
	idx, err := Build(pts)
	require.NoError(t, err)

	queries := randomPoints(rng, 2000, 256, true)
	want := make([]int, len(queries))
	for i, q := range queries {
		want[i] = idx.Nearest(q)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, q := range queries {
				if got := idx.Nearest(q); got != want[i] {
					errs <- "concurrent query diverged"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KDTree, k)

	k, err = ParseKind("LINEAR")
	require.NoError(t, err)
	assert.Equal(t, LinearScan, k)

	_, err = ParseKind("quadtree")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	pts := []geom.Point{geom.Pt(0, 0), geom.Pt(5, 5)}

	loc, err := New(KDTree, pts)
	require.NoError(t, err)
	assert.IsType(t, &Index{}, loc)

	loc, err = New(LinearScan, pts)
	require.NoError(t, err)
	assert.IsType(t, &Linear{}, loc)
	assert.Equal(t, 2, loc.Len())

	_, err = New(Kind("bogus"), pts)
	assert.Error(t, err)

	_, err = New(KDTree, nil)
	assert.ErrorIs(t, err, ErrNoSites)
}

func BenchmarkBuild(b *testing.B) {
	pts := randomPoints(rand.New(rand.NewPCG(1, 1)), 100000, 1000, false)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Build(pts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNearest(b *testing.B) {
	rng := rand.New(rand.NewPCG(2, 2))
	pts := randomPoints(rng, 100000, 1000, false)
	idx, err := Build(pts)
	if err != nil {
		b.Fatal(err)
	}
	queries := randomPoints(rng, 4096, 1000, false)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.Nearest(queries[i%len(queries)])
	}
}
