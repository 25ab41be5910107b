package raster

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/voronoi-tools/internal/geom"
	"github.com/ironsheep/voronoi-tools/internal/spatial"
)

// DefaultRowsPerTask is the band height used when Options.RowsPerTask is 0.
const DefaultRowsPerTask = 8

// Options configures the worker pool. The zero value is ready to use.
type Options struct {
	// Workers is the pool size. Zero or negative selects runtime.NumCPU().
	Workers int

	// RowsPerTask is the number of consecutive rows in one unit of work.
	// Zero or negative selects DefaultRowsPerTask.
	RowsPerTask int
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.RowsPerTask <= 0 {
		o.RowsPerTask = DefaultRowsPerTask
	}
	return o
}

// Stats describes a finished render.
type Stats struct {
	Rows    int           `json:"rows"`
	Cells   int           `json:"cells"`
	Tasks   int           `json:"tasks"`
	Workers int           `json:"workers"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Renderer resolves grid cells against a shared, read-only site set and
// locator. A Renderer holds no mutable state and may run concurrent renders.
type Renderer struct {
	sites   geom.SiteSet
	locator spatial.Locator
	opts    Options
}

// NewRenderer binds a site set to the locator built from its points.
// The site set must not be modified while the Renderer is in use.
func NewRenderer(sites geom.SiteSet, locator spatial.Locator, opts Options) (*Renderer, error) {
	if locator == nil {
		return nil, fmt.Errorf("raster: nil locator")
	}
	if locator.Len() != len(sites) {
		return nil, fmt.Errorf("%w: locator has %d points, site set has %d",
			ErrSiteCountMismatch, locator.Len(), len(sites))
	}
	return &Renderer{sites: sites, locator: locator, opts: opts.withDefaults()}, nil
}

// Render resolves every cell of a width×height grid.
func (r *Renderer) Render(ctx context.Context, width, height int) (*Buffer, Stats, error) {
	return r.RenderRows(ctx, width, 0, height)
}

// RenderRows resolves rows [y0, y1) of a grid of the given width. Row y0 of
// the grid becomes row 0 of the returned buffer. Rendering disjoint ranges and
// joining them with Concat yields the same buffer as a single Render.
func (r *Renderer) RenderRows(ctx context.Context, width, y0, y1 int) (*Buffer, Stats, error) {
	if width < 0 || y0 < 0 || y1 < y0 {
		return nil, Stats{}, fmt.Errorf("%w: width %d, rows [%d,%d)", ErrInvalidDimensions, width, y0, y1)
	}

	buf, err := NewBuffer(width, y1-y0)
	if err != nil {
		return nil, Stats{}, err
	}

	start := time.Now()
	bands := r.bands(y0, y1)
	workers := min(r.opts.Workers, max(len(bands), 1))

	tasks := make(chan band, len(bands))
	for _, b := range bands {
		tasks <- b
	}
	close(tasks)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for b := range tasks {
				for y := b.y0; y < b.y1; y++ {
					if err := ctx.Err(); err != nil {
						return err
					}
					if err := r.renderRow(y, buf.Row(y-y0)); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger().Error("render aborted", "width", width, "y0", y0, "y1", y1, "error", err)
		return nil, Stats{}, err
	}

	stats := Stats{
		Rows:    y1 - y0,
		Cells:   width * (y1 - y0),
		Tasks:   len(bands),
		Workers: workers,
		Elapsed: time.Since(start),
	}
	logger().Debug("render completed",
		"width", width,
		"rows", stats.Rows,
		"tasks", stats.Tasks,
		"workers", stats.Workers,
		"elapsed", stats.Elapsed,
	)
	return buf, stats, nil
}

// band is a half-open range of grid rows owned by one worker at a time.
type band struct {
	y0, y1 int
}

func (r *Renderer) bands(y0, y1 int) []band {
	step := r.opts.RowsPerTask
	out := make([]band, 0, (y1-y0+step-1)/step)
	for y := y0; y < y1; y += step {
		out = append(out, band{y0: y, y1: min(y+step, y1)})
	}
	return out
}

// renderRow resolves grid row y into dst, which must be exactly one row wide.
func (r *Renderer) renderRow(y int, dst []geom.Color) error {
	q := geom.Point{Y: float64(y)}
	for x := range dst {
		q.X = float64(x)
		i := r.locator.Nearest(q)
		if i < 0 || i >= len(r.sites) {
			return &SiteIndexError{X: x, Y: y, Index: i, Len: len(r.sites)}
		}
		dst[x] = r.sites[i].Color
	}
	return nil
}

// Rasterize renders a full width×height diagram with default options.
func Rasterize(width, height int, sites geom.SiteSet, locator spatial.Locator) (*Buffer, error) {
	r, err := NewRenderer(sites, locator, Options{})
	if err != nil {
		return nil, err
	}
	buf, _, err := r.Render(context.Background(), width, height)
	return buf, err
}

// RasterizeRows renders rows [y0, y1) with default options.
func RasterizeRows(width, y0, y1 int, sites geom.SiteSet, locator spatial.Locator) (*Buffer, error) {
	r, err := NewRenderer(sites, locator, Options{})
	if err != nil {
		return nil, err
	}
	buf, _, err := r.RenderRows(context.Background(), width, y0, y1)
	return buf, err
}
