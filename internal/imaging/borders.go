package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/parallel"
)

// CellBorders returns a copy of img with every pixel on a cell boundary
// painted with c.
//
// A pixel is on a boundary when its right or bottom neighbor has a different
// color, so each boundary is exactly one pixel wide and sits on the
// top-left side of the edge.
func CellBorders(img image.Image, c color.Color) *image.NRGBA {
	bounds := img.Bounds()
	src := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(src, src.Bounds(), img, bounds.Min, draw.Src)

	dst := image.NewNRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)

	border := color.NRGBAModel.Convert(c).(color.NRGBA)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	// Rows read only src and write only their own row of dst.
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				here := src.NRGBAAt(x, y)
				if (x+1 < w && src.NRGBAAt(x+1, y) != here) || (y+1 < h && src.NRGBAAt(x, y+1) != here) {
					dst.SetNRGBA(x, y, border)
				}
			}
		}
	})
	return dst
}
