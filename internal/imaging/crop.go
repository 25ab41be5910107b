package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// maxScaledSide caps either side of a scaled image.
const maxScaledSide = 8192

// Crop extracts a rectangular region from an image and optionally rescales
// it. A scale of 0 or 1 leaves the size unchanged.
//
// Resampling uses nearest-neighbor so cell boundaries stay crisp.
func Crop(img image.Image, region Region, scale float64) (image.Image, error) {
	bounds := img.Bounds()
	r := region.Rect()

	if !r.In(bounds) {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			region.X1, region.Y1, region.X2, region.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if region.X1 >= region.X2 || region.Y1 >= region.Y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return Scale(imaging.Crop(img, r), scale)
}

// Scale resizes img by factor using nearest-neighbor resampling.
func Scale(img image.Image, factor float64) (image.Image, error) {
	if factor == 0 || factor == 1 {
		return img, nil
	}
	if factor < 0 {
		return nil, fmt.Errorf("scale must be positive, got %g", factor)
	}

	w := int(float64(img.Bounds().Dx()) * factor)
	h := int(float64(img.Bounds().Dy()) * factor)
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("scale %g shrinks %dx%d image to nothing", factor, img.Bounds().Dx(), img.Bounds().Dy())
	}
	if w > maxScaledSide || h > maxScaledSide {
		return nil, fmt.Errorf("scaled size %dx%d exceeds %d pixels per side", w, h, maxScaledSide)
	}
	return imaging.Resize(img, w, h, imaging.NearestNeighbor), nil
}
