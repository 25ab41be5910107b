package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	// ErrUnsupportedFormat is returned for an unknown format name or extension.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrEmptyImage is returned when asked to encode a zero-area image.
	ErrEmptyImage = errors.New("image has zero width or height")
)

// SaveError reports a failure to persist an image.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save image %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// jpegQuality is used for every JPEG output.
const jpegQuality = 95

// ParseFormat resolves a format name or extension ("png", ".jpg", "TIFF").
func ParseFormat(name string) (imaging.Format, error) {
	ext := strings.ToLower(name)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	f, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return -1, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	return f, nil
}

// MimeType returns the media type of an encoded format.
func MimeType(f imaging.Format) string {
	switch f {
	case imaging.JPEG:
		return "image/jpeg"
	case imaging.PNG:
		return "image/png"
	case imaging.GIF:
		return "image/gif"
	case imaging.TIFF:
		return "image/tiff"
	case imaging.BMP:
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// Save writes img to path, choosing the format from the file extension.
//
// Returns a *SaveError for every failure, including unsupported extensions
// and zero-area images.
func Save(path string, img image.Image) error {
	if err := checkArea(img); err != nil {
		return &SaveError{Path: path, Err: err}
	}
	if _, err := ParseFormat(filepath.Ext(path)); err != nil {
		return &SaveError{Path: path, Err: err}
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(jpegQuality)); err != nil {
		return &SaveError{Path: path, Err: err}
	}
	return nil
}

// Encode writes img to w in the named format.
func Encode(w io.Writer, img image.Image, format string) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	if err := checkArea(img); err != nil {
		return err
	}
	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", f, err)
	}
	return nil
}

// EncodedImage is an image serialized for transport in a JSON payload.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeBase64 encodes img in the named format and wraps it as base64.
func EncodeBase64(img image.Image, format string) (*EncodedImage, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return nil, err
	}
	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    MimeType(f),
	}, nil
}

func checkArea(img image.Image) error {
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyImage, b.Dx(), b.Dy())
	}
	return nil
}
