// Package diagram wires site generation, index construction and rendering
// into a single Voronoi diagram build shared by the CLI and the MCP server.
package diagram

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/ironsheep/voronoi-tools/internal/geom"
	"github.com/ironsheep/voronoi-tools/internal/raster"
	"github.com/ironsheep/voronoi-tools/internal/sitegen"
	"github.com/ironsheep/voronoi-tools/internal/spatial"
)

// Defaults for every parameter.
const (
	DefaultWidth  = 800
	DefaultHeight = 800
	DefaultSites  = 50
	DefaultSeed   = 42

	// MaxCells caps width*height; 8192×8192 grids are the largest accepted.
	MaxCells = 8192 * 8192
	// MaxSites caps the number of generated sites.
	MaxSites = 1 << 24
)

// ErrNotRendered is returned when the pixel buffer is requested before Render.
var ErrNotRendered = errors.New("diagram: not rendered")

// Params fully determines a diagram.
type Params struct {
	Width   int             `json:"width"`
	Height  int             `json:"height"`
	Sites   int             `json:"sites"`
	Seed    uint64          `json:"seed"`
	Palette sitegen.Palette `json:"palette,omitempty"`
	Index   spatial.Kind    `json:"index,omitempty"`
}

// DefaultParams returns the parameters used when nothing is specified.
func DefaultParams() Params {
	return Params{
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Sites:   DefaultSites,
		Seed:    DefaultSeed,
		Palette: sitegen.Uniform,
		Index:   spatial.KDTree,
	}
}

// Validate rejects parameters no diagram can be built from. A site count of
// zero is accepted here and fails later at index construction.
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("dimensions must be positive, got %dx%d", p.Width, p.Height)
	}
	if p.Width > MaxCells/p.Height {
		return fmt.Errorf("grid %dx%d exceeds %d cells", p.Width, p.Height, MaxCells)
	}
	if p.Sites < 0 {
		return fmt.Errorf("site count must not be negative, got %d", p.Sites)
	}
	if p.Sites > MaxSites {
		return fmt.Errorf("site count %d exceeds %d", p.Sites, MaxSites)
	}
	if _, err := sitegen.ParsePalette(string(p.Palette)); err != nil {
		return err
	}
	if _, err := spatial.ParseKind(string(p.Index)); err != nil {
		return err
	}
	return nil
}

// Diagram is a built site set and locator plus, after Render, its pixels.
type Diagram struct {
	Params  Params
	Sites   geom.SiteSet
	Locator spatial.Locator

	Buffer *raster.Buffer
	Stats  raster.Stats

	imgOnce sync.Once
	img     *image.NRGBA
}

// Prepare generates the sites and builds the locator. It fails with
// spatial.ErrNoSites when p.Sites is zero.
func Prepare(p Params) (*Diagram, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	palette, _ := sitegen.ParsePalette(string(p.Palette))
	kind, _ := spatial.ParseKind(string(p.Index))
	p.Palette, p.Index = palette, kind

	sites, err := sitegen.GenerateWithPalette(p.Sites, p.Width, p.Height, p.Seed, palette)
	if err != nil {
		return nil, err
	}
	loc, err := spatial.New(kind, sites.Points())
	if err != nil {
		return nil, fmt.Errorf("failed to build %s index: %w", kind, err)
	}
	return &Diagram{Params: p, Sites: sites, Locator: loc}, nil
}

// Render rasterizes the full grid into d.Buffer. It must not run
// concurrently with Image or with another Render on the same Diagram.
func (d *Diagram) Render(ctx context.Context, opts raster.Options) error {
	r, err := raster.NewRenderer(d.Sites, d.Locator, opts)
	if err != nil {
		return err
	}
	buf, stats, err := r.Render(ctx, d.Params.Width, d.Params.Height)
	if err != nil {
		return err
	}
	d.Buffer, d.Stats = buf, stats
	d.imgOnce, d.img = sync.Once{}, nil
	return nil
}

// Build is Prepare followed by Render.
func Build(ctx context.Context, p Params, opts raster.Options) (*Diagram, error) {
	d, err := Prepare(p)
	if err != nil {
		return nil, err
	}
	if err := d.Render(ctx, opts); err != nil {
		return nil, err
	}
	return d, nil
}

// NearestSite returns the position and site owning point q.
func (d *Diagram) NearestSite(q geom.Point) (int, geom.Site) {
	i := d.Locator.Nearest(q)
	return i, d.Sites[i]
}

// ColorAt returns the rendered color of cell (x, y).
func (d *Diagram) ColorAt(x, y int) (geom.Color, error) {
	if d.Buffer == nil {
		return geom.Color{}, ErrNotRendered
	}
	if x < 0 || x >= d.Buffer.Width || y < 0 || y >= d.Buffer.Height {
		return geom.Color{}, fmt.Errorf("coordinates (%d,%d) outside diagram bounds %dx%d",
			x, y, d.Buffer.Width, d.Buffer.Height)
	}
	return d.Buffer.At(x, y), nil
}

// Image returns the rendered pixels as an image. The conversion happens once;
// later calls return the same image, which must not be modified.
func (d *Diagram) Image() (*image.NRGBA, error) {
	if d.Buffer == nil {
		return nil, ErrNotRendered
	}
	d.imgOnce.Do(func() { d.img = d.Buffer.Image() })
	return d.img, nil
}
