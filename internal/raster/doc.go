// Package raster turns a site set and a spatial locator into a discrete
// Voronoi diagram.
//
// Every grid cell (x, y) is resolved independently: the locator is queried at
// Point{float64(x), float64(y)} and the winning site's color is written to the
// cell. Rows are grouped into fixed-height bands and handed to a fixed-size
// pool of workers. A worker writes only to the rows of the band it holds, so
// the Buffer needs no locking; the pool is joined once before the buffer is
// returned.
//
// The result depends only on (width, height, sites, locator). Scheduling order,
// worker count and band height never change a single cell.
//
// # Errors
//
// A locator that returns a position outside the site set is a broken
// contract. Rendering stops with a *SiteIndexError rather than clamping. When
// a context is supplied, cancellation is observed between rows, never inside a
// row.
package raster
