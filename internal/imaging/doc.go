// Package imaging is the image boundary of the Voronoi tools: it encodes
// rendered diagrams to files or base64 payloads, samples cell colors, and
// draws optional overlays (cell borders, site markers).
//
// All operations work with standard Go image.Image values and use a
// coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward, matching the raster grid.
//
// # Formats
//
// The output format is chosen by file extension: png, jpg/jpeg, gif, tif/tiff
// and bmp. Encoding is delegated to github.com/disintegration/imaging, which
// pulls in golang.org/x/image for TIFF and BMP.
//
// # Error Handling
//
// Every failure at the persistence boundary is returned as a *SaveError
// wrapping the cause, so callers can tell it apart from rendering failures:
//   - Unknown extensions (wrapping ErrUnsupportedFormat)
//   - Empty images (wrapping ErrEmptyImage)
//   - File creation and encoding errors
//
// # Thread Safety
//
// Functions in this package are stateless. Overlays return new images and
// never modify their input.
package imaging
