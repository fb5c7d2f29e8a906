// Package render composites credential artifacts: a template image plus a
// set of named field placements in, a flattened raster out.
//
// The compositor is a pure bytes-in/bytes-out function. It keeps no state
// across calls besides the font cache owned by the injected fontres.Resolver,
// and it never writes to durable storage - persistence belongs to callers.
package render

// ── Field types ──

// FieldType classifies a placeholder. Only email-typed fields may omit
// coordinates; every other type must be positioned on the template.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
	FieldEmail  FieldType = "email"
	FieldID     FieldType = "id"
	FieldCustom FieldType = "custom"
)

// Alignment controls horizontal text anchoring around a placeholder's X.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// ── Placeholder ──

// Rendering defaults applied when a placeholder leaves a field unset.
//
// DefaultAlign is "center": the data-model layer historically declared
// "left" as the default, but every shipped template was rendered with a
// center baseline, so center is the preserved behavior.
const (
	DefaultFontSize   = 16.0
	DefaultFontFamily = "Arial"
	DefaultColor      = "#000000"
	DefaultAlign      = AlignCenter
)

// Placeholder is a named field position on a template. Placeholders are
// authored once per template and passed in unmodified for every render;
// the engine never mutates them.
//
// X and Y are center coordinates in source-image pixel space. They are
// pointers because a field (notably email) may exist semantically without
// being drawn on the artifact.
type Placeholder struct {
	FieldName  string    `json:"fieldName"`
	FieldType  FieldType `json:"fieldType"`
	X          *float64  `json:"x,omitempty"`
	Y          *float64  `json:"y,omitempty"`
	FontSize   float64   `json:"fontSize,omitempty"`
	FontFamily string    `json:"fontFamily,omitempty"`
	Color      string    `json:"color,omitempty"`
	Align      Alignment `json:"align,omitempty"`
}

// HasCoordinates reports whether the field is drawable at all.
func (p Placeholder) HasCoordinates() bool {
	return p.X != nil && p.Y != nil
}

// effective returns a copy with defaults filled in.
func (p Placeholder) effective() Placeholder {
	if p.FieldType == "" {
		p.FieldType = FieldText
	}
	if p.FontSize <= 0 {
		p.FontSize = DefaultFontSize
	}
	if p.FontFamily == "" {
		p.FontFamily = DefaultFontFamily
	}
	if p.Color == "" {
		p.Color = DefaultColor
	}
	if p.Align == "" {
		p.Align = DefaultAlign
	}
	return p
}

// ── Request / result ──

// RenderRequest is the engine's single unit of work.
//
// QROverrides exists for self-referential fields: a verification-URL field
// whose value embeds a record identifier that only exists after the caller's
// first persistence step. The caller creates the record, derives the value,
// renders with the override, then patches the record with the output - a
// two-phase protocol owned entirely by the caller.
type RenderRequest struct {
	// SourceImage is a base64 data URI ("data:image/png;base64,...").
	SourceImage string `json:"sourceImage"`

	// Placeholders are drawn in the order given; later entries paint over
	// earlier ones when they overlap.
	Placeholders []Placeholder `json:"placeholders"`

	// FieldValues maps fieldName to the text drawn for it. Keys are
	// case-sensitive. A placeholder with no value is skipped, not an error.
	FieldValues map[string]string `json:"fieldValues"`

	// QROverrides take precedence over FieldValues for the same field name.
	QROverrides map[string]string `json:"qrOverrides,omitempty"`
}

// valueFor returns the value to draw for a field, override first.
func (r RenderRequest) valueFor(name string) (string, bool) {
	if v, ok := r.QROverrides[name]; ok {
		return v, true
	}
	v, ok := r.FieldValues[name]
	return v, ok
}

// RenderResult is the flattened artifact. Immutable; the engine retains no
// reference to it after returning.
type RenderResult struct {
	// EncodedImage is a base64 data URI wrapping Bytes.
	EncodedImage string `json:"encodedImage"`

	// Bytes is the raw encoded raster, for consumers that hash or upload it.
	Bytes []byte `json:"-"`

	// MIMEType of Bytes. Always "image/png" regardless of input format.
	MIMEType string `json:"mimeType"`

	Width  int `json:"width"`
	Height int `json:"height"`
}
