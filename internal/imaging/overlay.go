package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/voronoi-tools/internal/geom"
)

// DefaultBorderColor is used when Overlay.BorderColor is nil.
var DefaultBorderColor = color.NRGBA{0, 0, 0, 0xff}

// Overlay selects the decorations drawn over a rendered diagram.
type Overlay struct {
	Borders     bool        // Draw one-pixel cell boundaries
	BorderColor color.Color // Boundary color; nil selects DefaultBorderColor
	Markers     bool        // Draw a dot on every site
	Labels      bool        // Print site positions next to the dots (implies Markers)
}

// Empty reports whether o draws nothing.
func (o Overlay) Empty() bool {
	return !o.Borders && !o.Markers && !o.Labels
}

// Apply draws the selected decorations. Borders are drawn first so markers
// stay on top. When o is empty, img is returned as is.
func (o Overlay) Apply(img image.Image, sites geom.SiteSet) image.Image {
	if o.Empty() {
		return img
	}
	out := img
	if o.Borders {
		c := o.BorderColor
		if c == nil {
			c = DefaultBorderColor
		}
		out = CellBorders(out, c)
	}
	if o.Markers || o.Labels {
		out = DrawMarkers(out, sites, o.Labels)
	}
	return out
}

// ParseHexColor parses "#RRGGBB" or "RRGGBB". The empty string yields
// DefaultBorderColor.
func ParseHexColor(hex string) (color.Color, error) {
	if hex == "" {
		return DefaultBorderColor, nil
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return geom.FromColorful(c).NRGBA(), nil
}
