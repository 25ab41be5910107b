package imaging

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/ironsheep/voronoi-tools/internal/geom"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBColor `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// Describe returns c in every representation of ColorResult.
//
// HSL values come from go-colorful and are truncated to whole degrees and
// percentages.
func Describe(c geom.Color) ColorResult {
	h, s, l := c.Colorful().Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return ColorResult{
		Hex: c.Hex(),
		RGB: RGBColor{R: c.R, G: c.G, B: c.B},
		HSL: HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: Non-nil if coordinates are outside the image bounds.
//
// Alpha is dropped; rendered diagrams are always opaque.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}
	res := Describe(geom.FromColor(img.At(x, y)))
	return &res, nil
}

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int `json:"x1"` // Left edge X coordinate (inclusive)
	Y1 int `json:"y1"` // Top edge Y coordinate (inclusive)
	X2 int `json:"x2"` // Right edge X coordinate (exclusive)
	Y2 int `json:"y2"` // Bottom edge Y coordinate (exclusive)
}

// Rect converts r to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// CellArea is one color and the share of the image it covers.
type CellArea struct {
	Hex        string   `json:"hex"`
	RGB        RGBColor `json:"rgb"`
	Pixels     int      `json:"pixels"`
	Percentage float64  `json:"percentage"` // 0-100
}

// CellAreasResult lists colors by covered area, largest first.
type CellAreasResult struct {
	Cells       []CellArea `json:"cells"`
	TotalPixels int        `json:"total_pixels"`
}

// LargestCells returns the count colors covering the most pixels of img, or
// of region when it is non-nil.
//
// Colors are counted exactly; in a Voronoi diagram each distinct color is one
// cell unless two sites happen to share a color. Ties in area are ordered by
// hex string so the result is stable.
func LargestCells(img image.Image, count int, region *Region) (*CellAreasResult, error) {
	bounds := img.Bounds()
	if region != nil {
		r := region.Rect()
		if !r.In(bounds) || r.Empty() {
			return nil, fmt.Errorf("region (%d,%d)-(%d,%d) invalid for image bounds %v",
				region.X1, region.Y1, region.X2, region.Y2, bounds)
		}
		bounds = r
	}

	counts := make(map[geom.Color]int)
	total := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			counts[geom.FromColor(img.At(x, y))]++
			total++
		}
	}

	cells := make([]CellArea, 0, len(counts))
	for c, n := range counts {
		cells = append(cells, CellArea{
			Hex:        c.Hex(),
			RGB:        RGBColor{R: c.R, G: c.G, B: c.B},
			Pixels:     n,
			Percentage: float64(n) / float64(total) * 100,
		})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Pixels != cells[j].Pixels {
			return cells[i].Pixels > cells[j].Pixels
		}
		return cells[i].Hex < cells[j].Hex
	})
	if count > 0 && len(cells) > count {
		cells = cells[:count]
	}

	return &CellAreasResult{Cells: cells, TotalPixels: total}, nil
}
