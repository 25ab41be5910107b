// Command voronoi renders a seeded discrete Voronoi diagram to an image file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/ironsheep/voronoi-tools/internal/diagram"
	"github.com/ironsheep/voronoi-tools/internal/imaging"
	"github.com/ironsheep/voronoi-tools/internal/logging"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := logging.FromEnv(os.Stderr)
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, logger))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, logger *slog.Logger) int {
	cfg, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if cfg.Version {
		fmt.Fprintf(stdout, "voronoi %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return exitOK
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	fmt.Fprintln(stdout, "Voronoi Diagram Generator - Setup")
	fmt.Fprintf(stdout, "Dimensions: %dx%d\n", cfg.Width, cfg.Height)
	fmt.Fprintf(stdout, "Number of sites: %d\n", cfg.Sites)
	fmt.Fprintf(stdout, "Random seed: %d\n", cfg.Seed)
	fmt.Fprintf(stdout, "Output prefix: %s\n", cfg.Prefix)
	fmt.Fprintf(stdout, "Output format: %s\n", cfg.Format)

	d, err := diagram.Prepare(cfg.Params())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	logger.Debug("diagram prepared", "sites", len(d.Sites), "index", d.Params.Index, "palette", d.Params.Palette)

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "--- Running Optimized (Parallel) Version ---")
	if err := d.Render(ctx, cfg.RenderOptions()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	fmt.Fprintf(stdout, "Parallel pixel calculation took: %s\n", formatDuration(d.Stats.Elapsed))

	img, err := d.Image()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	out := cfg.OutputPath()
	if err := imaging.Save(out, cfg.Overlay().Apply(img, d.Sites)); err != nil {
		fmt.Fprintf(stderr, "Error saving image: %v\n", err)
		return exitError
	}
	fmt.Fprintf(stdout, "Successfully saved Voronoi diagram to %s\n", out)
	return exitOK
}

// formatDuration prints d with two decimals in the largest unit that keeps
// the value at or above one, e.g. 12.35ms.
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	case d >= time.Microsecond:
		return fmt.Sprintf("%.2fµs", float64(d)/float64(time.Microsecond))
	default:
		return fmt.Sprintf("%.2fns", float64(d))
	}
}
