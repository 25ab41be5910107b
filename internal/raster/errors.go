package raster

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions is returned for negative widths or heights, for
	// grids whose cell count overflows, and for row ranges that do not
	// satisfy 0 <= y0 <= y1.
	ErrInvalidDimensions = errors.New("raster: invalid dimensions")

	// ErrSiteCountMismatch is returned when the locator was built over a
	// different number of points than the site set holds.
	ErrSiteCountMismatch = errors.New("raster: locator and site set sizes differ")

	// ErrWidthMismatch is returned by Concat for buffers of different widths.
	ErrWidthMismatch = errors.New("raster: buffer widths differ")
)

// SiteIndexError reports a locator result outside the site set. It always
// indicates a broken locator, never bad input.
type SiteIndexError struct {
	X, Y  int // Cell being resolved
	Index int // Position returned by the locator
	Len   int // Number of sites
}

func (e *SiteIndexError) Error() string {
	return fmt.Sprintf("raster: locator returned site %d for cell (%d,%d), valid range is [0,%d)",
		e.Index, e.X, e.Y, e.Len)
}
