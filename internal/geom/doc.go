// Package geom defines the value types shared by every stage of the Voronoi
// pipeline: points, colors, sites and ordered site sets.
//
// # Coordinate System
//
// Points live in the same space as raster cells: (0,0) is the top-left cell,
// X increases rightward and Y increases downward. A cell at integer grid
// coordinate (x, y) is queried as Point{X: float64(x), Y: float64(y)}.
//
// # Site Identity
//
// A site has no identity of its own. Its position in a SiteSet is the only
// key shared with a spatial index built from that set, so a SiteSet must not
// be reordered or mutated once an index has been built from it.
package geom
