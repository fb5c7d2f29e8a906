// surface.go — the in-memory drawing canvas.
package render

import (
	"bytes"
	"log/slog"

	"github.com/fogleman/gg"

	"github.com/sarthakpriyadarshi/credrender/pkg/fontres"
)

// surface composites the background and field text onto a canvas sized
// exactly to the decoded source. 1:1 pixel mapping is an invariant:
// templates and renders always agree on physical size, so there is no
// scaling anywhere in this file.
type surface struct {
	dc       *gg.Context
	resolver *fontres.Resolver
	logger   *slog.Logger
}

func newSurface(src *Decoded, resolver *fontres.Resolver, logger *slog.Logger) *surface {
	dc := gg.NewContext(src.Width, src.Height)
	dc.DrawImage(src.Image, 0, 0)
	return &surface{dc: dc, resolver: resolver, logger: logger}
}

// drawField paints one placeholder's value. The caller has already decided
// the field is drawable (coordinates present, value present).
//
// The anchor point (x, y) is the center of the text vertically regardless
// of alignment; horizontally the alignment decides whether the text
// starts at, centers on, or ends at x. A value wider than the template
// intends simply overflows - no wrapping, no truncation.
func (s *surface) drawField(p Placeholder, value string) {
	p = p.effective()

	face := s.resolver.Face(p.FontFamily, fontres.DefaultWeight, p.FontSize)
	s.dc.SetFontFace(face)
	s.dc.SetColor(colorOrBlack(p.Color))
	s.dc.DrawStringAnchored(value, *p.X, *p.Y, anchorX(p.Align), 0.5)

	s.logger.Debug("field drawn",
		"field", p.FieldName, "family", p.FontFamily, "x", *p.X, "y", *p.Y)
}

// encodePNG flattens the canvas to PNG bytes. Output is PNG regardless of
// the source encoding.
func (s *surface) encodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// anchorX maps an alignment to a gg horizontal anchor fraction.
func anchorX(a Alignment) float64 {
	switch a {
	case AlignLeft:
		return 0
	case AlignRight:
		return 1
	default:
		return 0.5
	}
}
