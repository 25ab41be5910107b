package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/ironsheep/voronoi-tools/internal/diagram"
	"github.com/ironsheep/voronoi-tools/internal/imaging"
	"github.com/ironsheep/voronoi-tools/internal/raster"
	"github.com/ironsheep/voronoi-tools/internal/sitegen"
	"github.com/ironsheep/voronoi-tools/internal/spatial"
)

const (
	defaultPrefix = "output_voronoi_"
	defaultFormat = "png"
)

// Config holds everything the command line controls.
type Config struct {
	Width       int
	Height      int
	Sites       int
	Seed        uint64
	Prefix      string
	Format      string
	Workers     int
	RowsPerTask int
	Palette     string
	Index       string
	Borders     bool
	Markers     bool
	Version     bool
}

// parseFlags parses args (without the program name). Long and short
// spellings of a flag share one variable.
func parseFlags(args []string, stderr io.Writer) (*Config, error) {
	c := &Config{}
	fs := flag.NewFlagSet("voronoi", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.IntVar(&c.Width, "width", diagram.DefaultWidth, "grid width in cells")
	fs.IntVar(&c.Height, "height", diagram.DefaultHeight, "grid height in cells")
	fs.IntVar(&c.Sites, "sites", diagram.DefaultSites, "number of sites to generate")
	fs.IntVar(&c.Sites, "c", diagram.DefaultSites, "shorthand for --sites")
	fs.Uint64Var(&c.Seed, "seed", diagram.DefaultSeed, "random seed")
	fs.Uint64Var(&c.Seed, "s", diagram.DefaultSeed, "shorthand for --seed")
	fs.StringVar(&c.Prefix, "prefix", defaultPrefix, "output filename prefix")
	fs.StringVar(&c.Prefix, "p", defaultPrefix, "shorthand for --prefix")
	fs.StringVar(&c.Format, "format", defaultFormat, "output image format (png, jpg, gif, bmp, tif)")
	fs.StringVar(&c.Format, "f", defaultFormat, "shorthand for --format")

	fs.IntVar(&c.Workers, "workers", 0, "rasterizer goroutines (0 = one per CPU)")
	fs.IntVar(&c.RowsPerTask, "rows-per-task", raster.DefaultRowsPerTask, "rows per rasterizer task")
	fs.StringVar(&c.Palette, "palette", string(sitegen.Uniform), "site colors: uniform, pastel or vivid")
	fs.StringVar(&c.Index, "index", string(spatial.KDTree), "nearest-site index: kdtree or linear")
	fs.BoolVar(&c.Borders, "borders", false, "draw cell boundaries")
	fs.BoolVar(&c.Markers, "markers", false, "draw site dots with index labels")
	fs.BoolVar(&c.Version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return c, nil
}

// Params returns the diagram the configuration describes.
func (c *Config) Params() diagram.Params {
	return diagram.Params{
		Width:   c.Width,
		Height:  c.Height,
		Sites:   c.Sites,
		Seed:    c.Seed,
		Palette: sitegen.Palette(c.Palette),
		Index:   spatial.Kind(c.Index),
	}
}

// RenderOptions returns the rasterizer settings.
func (c *Config) RenderOptions() raster.Options {
	return raster.Options{Workers: c.Workers, RowsPerTask: c.RowsPerTask}
}

// Overlay returns the decorations to draw before saving.
func (c *Config) Overlay() imaging.Overlay {
	return imaging.Overlay{Borders: c.Borders, Markers: c.Markers, Labels: c.Markers}
}

// OutputPath is {prefix}{seed}.{format}.
func (c *Config) OutputPath() string {
	return fmt.Sprintf("%s%d.%s", c.Prefix, c.Seed, c.Format)
}

// Validate rejects configurations that cannot produce a diagram. A site count
// of zero is accepted and fails when the index is built; an unknown format
// fails when the image is saved.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.RowsPerTask < 0 {
		return fmt.Errorf("rows-per-task must not be negative, got %d", c.RowsPerTask)
	}
	return nil
}
