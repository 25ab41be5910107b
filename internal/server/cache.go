package server

import (
	"context"
	"sync"

	"github.com/ironsheep/voronoi-tools/internal/diagram"
	"github.com/ironsheep/voronoi-tools/internal/raster"
	"github.com/ironsheep/voronoi-tools/internal/sitegen"
	"github.com/ironsheep/voronoi-tools/internal/spatial"
)

// DefaultCacheSize is the number of rendered diagrams a server keeps.
const DefaultCacheSize = 16

// DiagramCache keeps rendered diagrams keyed by the parameters that produced
// them, so successive tool calls on the same diagram render it once.
//
// DiagramCache is safe for concurrent use. When full, the oldest entry is
// evicted.
type DiagramCache struct {
	mu       sync.RWMutex
	max      int
	diagrams map[diagram.Params]*diagram.Diagram
	order    []diagram.Params
}

// NewDiagramCache creates an empty cache holding at most max diagrams. A
// non-positive max selects DefaultCacheSize.
func NewDiagramCache(max int) *DiagramCache {
	if max <= 0 {
		max = DefaultCacheSize
	}
	return &DiagramCache{
		max:      max,
		diagrams: make(map[diagram.Params]*diagram.Diagram),
	}
}

// Get returns the rendered diagram for p, building it on a miss.
//
// Cached diagrams are shared between callers and must not be modified.
func (c *DiagramCache) Get(ctx context.Context, p diagram.Params, opts raster.Options) (*diagram.Diagram, error) {
	p = normalize(p)

	c.mu.RLock()
	if d, ok := c.diagrams[p]; ok {
		c.mu.RUnlock()
		return d, nil
	}
	c.mu.RUnlock()

	d, err := diagram.Build(ctx, p, opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another caller may have built the same diagram meanwhile.
	if existing, ok := c.diagrams[p]; ok {
		return existing, nil
	}
	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.diagrams, oldest)
	}
	c.diagrams[p] = d
	c.order = append(c.order, p)
	return d, nil
}

// Len reports the number of cached diagrams.
func (c *DiagramCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.diagrams)
}

// Clear removes every cached diagram.
func (c *DiagramCache) Clear() {
	c.mu.Lock()
	c.diagrams = make(map[diagram.Params]*diagram.Diagram)
	c.order = nil
	c.mu.Unlock()
}

// normalize canonicalizes palette and index names so that equivalent
// parameter sets share one cache key. Unknown names are left for Build to
// reject.
func normalize(p diagram.Params) diagram.Params {
	if palette, err := sitegen.ParsePalette(string(p.Palette)); err == nil {
		p.Palette = palette
	}
	if kind, err := spatial.ParseKind(string(p.Index)); err == nil {
		p.Index = kind
	}
	return p
}
