// decode.go — source image decoding and normalization.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	// Raster formats accepted as template sources.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	dataURIPrefix = "data:"
	base64Marker  = ";base64,"
)

// Decoded is a normalized template raster ready for the rendering surface.
// Image is always NRGBA so the surface never branches on source encoding.
type Decoded struct {
	Width  int
	Height int
	MIME   string
	Image  *image.NRGBA
}

// DecodeDataURI parses and decodes a base64 data URI into a normalized
// raster. Malformed URIs return ErrInvalidInput, PDF returns
// ErrUnsupportedFormat, and a decodable image with a zero dimension
// returns ErrCorruptImage. All three are fatal to the render call.
func DecodeDataURI(src string) (*Decoded, error) {
	mime, payload, err := splitDataURI(src)
	if err != nil {
		return nil, err
	}

	if mime == "application/pdf" {
		return nil, fmt.Errorf("%w: documents are not rasterizable (%s)", ErrUnsupportedFormat, mime)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64 payload: %v", ErrInvalidInput, err)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: decode failed: %v", ErrInvalidInput, err)
	}

	b := img.Bounds()
	if err := checkDimensions(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}

	return &Decoded{
		Width:  b.Dx(),
		Height: b.Dy(),
		MIME:   "image/" + format,
		Image:  imaging.Clone(img),
	}, nil
}

// splitDataURI returns the declared MIME and the base64 payload of a
// "data:<mime>;base64,<payload>" string.
func splitDataURI(src string) (mime, payload string, err error) {
	if !strings.HasPrefix(src, dataURIPrefix) {
		return "", "", fmt.Errorf("%w: missing %q prefix", ErrInvalidInput, dataURIPrefix)
	}
	rest := src[len(dataURIPrefix):]

	idx := strings.Index(rest, base64Marker)
	if idx < 0 {
		return "", "", fmt.Errorf("%w: missing %q marker", ErrInvalidInput, base64Marker)
	}

	return strings.ToLower(strings.TrimSpace(rest[:idx])), rest[idx+len(base64Marker):], nil
}

// checkDimensions rejects rasters with no pixels in either axis.
func checkDimensions(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: decoded to %dx%d", ErrCorruptImage, w, h)
	}
	return nil
}
