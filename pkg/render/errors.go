// errors.go — error taxonomy for the render engine.
//
// Image-format and dimension problems are fatal to a render call. Font
// problems never are: they degrade to a fallback face inside the surface
// and never reach the caller as errors. Anything unexpected is wrapped
// exactly once into *RenderError at the compositor boundary so callers
// have one shape to branch on.
package render

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a malformed source image: missing "data:"
	// prefix, missing ";base64," marker, or undecodable payload. A caller
	// bug, surfaced immediately, never retried.
	ErrInvalidInput = errors.New("invalid source image input")

	// ErrUnsupportedFormat marks a declared MIME this engine will not
	// rasterize (application/pdf).
	ErrUnsupportedFormat = errors.New("unsupported source image format")

	// ErrCorruptImage marks a structurally decodable image with zero
	// pixels in either axis.
	ErrCorruptImage = errors.New("corrupt source image")
)

// RenderError is the single error shape the compositor returns for
// anything that is not one of the sentinel input errors above. Field and
// FontFamily carry the placeholder being processed when the failure
// happened, when known.
type RenderError struct {
	Stage      string // "decode", "draw", "encode"
	Field      string
	FontFamily string
	Err        error
}

func (e *RenderError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("render %s failed at field %q: %v", e.Stage, e.Field, e.Err)
	case e.FontFamily != "":
		return fmt.Sprintf("render %s failed for family %q: %v", e.Stage, e.FontFamily, e.Err)
	default:
		return fmt.Sprintf("render %s failed: %v", e.Stage, e.Err)
	}
}

func (e *RenderError) Unwrap() error { return e.Err }
