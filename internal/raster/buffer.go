package raster

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/voronoi-tools/internal/geom"
)

// Buffer is a row-major grid of colors, one entry per cell.
type Buffer struct {
	Width  int
	Height int
	Pix    []geom.Color
}

// NewBuffer allocates a zeroed width×height buffer. It fails with
// ErrInvalidDimensions when either side is negative or the cell count does
// not fit in an int.
func NewBuffer(width, height int) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width > 0 && height > math.MaxInt/width {
		return nil, fmt.Errorf("%w: %dx%d cells overflow", ErrInvalidDimensions, width, height)
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]geom.Color, width*height),
	}, nil
}

// At returns the color of cell (x, y). It panics if the cell is out of range.
func (b *Buffer) At(x, y int) geom.Color {
	return b.Pix[b.offset(x, y)]
}

// Set writes the color of cell (x, y). It panics if the cell is out of range.
func (b *Buffer) Set(x, y int, c geom.Color) {
	b.Pix[b.offset(x, y)] = c
}

// Row returns the cells of row y. The slice aliases the buffer.
func (b *Buffer) Row(y int) []geom.Color {
	if y < 0 || y >= b.Height {
		panic(fmt.Sprintf("raster: row %d out of range [0,%d)", y, b.Height))
	}
	return b.Pix[y*b.Width : (y+1)*b.Width]
}

func (b *Buffer) offset(x, y int) int {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		panic(fmt.Sprintf("raster: cell (%d,%d) out of range %dx%d", x, y, b.Width, b.Height))
	}
	return y*b.Width + x
}

// Equal reports whether both buffers have the same size and cells.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.Width != o.Width || b.Height != o.Height || len(b.Pix) != len(o.Pix) {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// Image converts the buffer to an opaque NRGBA image, rows in parallel.
func (b *Buffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	parallel.Line(b.Height, func(start, end int) {
		for y := start; y < end; y++ {
			src := b.Pix[y*b.Width : (y+1)*b.Width]
			dst := img.Pix[y*img.Stride : y*img.Stride+4*b.Width]
			for x, c := range src {
				dst[4*x] = c.R
				dst[4*x+1] = c.G
				dst[4*x+2] = c.B
				dst[4*x+3] = 0xff
			}
		}
	})
	return img
}

// Concat stacks buffers of equal width top to bottom.
func Concat(parts ...*Buffer) (*Buffer, error) {
	if len(parts) == 0 {
		return NewBuffer(0, 0)
	}
	width, height := parts[0].Width, 0
	for i, p := range parts {
		if p.Width != width {
			return nil, fmt.Errorf("%w: part %d is %d wide, want %d", ErrWidthMismatch, i, p.Width, width)
		}
		height += p.Height
	}

	out, err := NewBuffer(width, height)
	if err != nil {
		return nil, err
	}
	off := 0
	for _, p := range parts {
		off += copy(out.Pix[off:], p.Pix)
	}
	return out, nil
}
