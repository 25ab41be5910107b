package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/voronoi-tools/internal/geom"
)

// markerRadius is the half-size of the square dot drawn on each site.
const markerRadius = 1

// DrawMarkers returns a copy of img with a dot on every site and, when labels
// is set, the site's position in the set printed next to it.
//
// Dots and labels are black on light cells and white on dark cells, judged by
// the CIE L* lightness of the cell color under the site.
func DrawMarkers(img image.Image, sites geom.SiteSet, labels bool) *image.NRGBA {
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)

	face := basicfont.Face7x13
	for i, s := range sites {
		cx, cy := int(math.Floor(s.Point.X)), int(math.Floor(s.Point.Y))
		ink := contrastColor(s.Color)

		dot := image.Rect(cx-markerRadius, cy-markerRadius, cx+markerRadius+1, cy+markerRadius+1)
		draw.Draw(dst, dot.Intersect(dst.Bounds()), image.NewUniform(ink), image.Point{}, draw.Src)

		if labels {
			d := &font.Drawer{
				Dst:  dst,
				Src:  image.NewUniform(ink),
				Face: face,
				Dot:  fixed.P(cx+markerRadius+2, cy+face.Ascent/2),
			}
			d.DrawString(strconv.Itoa(i))
		}
	}
	return dst
}

func contrastColor(c geom.Color) color.NRGBA {
	l, _, _ := c.Colorful().Lab()
	if l > 0.6 {
		return color.NRGBA{0, 0, 0, 0xff}
	}
	return color.NRGBA{0xff, 0xff, 0xff, 0xff}
}
