// Package logging builds the stderr slog logger shared by the binaries and
// installs it into the library packages.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ironsheep/voronoi-tools/internal/raster"
)

// EnvLevel names the environment variable that selects the log level.
const EnvLevel = "VORONOI_LOG_LEVEL"

// ParseLevel maps debug, info, warn and error to a slog level. Anything else
// yields slog.LevelWarn.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// FromEnv returns a logger writing to w at the level named by
// VORONOI_LOG_LEVEL and installs it as the renderer's logger.
func FromEnv(w io.Writer) *slog.Logger {
	l := New(w, ParseLevel(os.Getenv(EnvLevel)))
	raster.SetLogger(l)
	return l
}
