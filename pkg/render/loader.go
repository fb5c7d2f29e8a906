// loader.go — template and values file loading for CLI use.
package render

import (
	"encoding/json"
	"fmt"
	"os"
)

// Template is the on-disk template document consumed by the CLI and the
// HTTP API. The image travels inline as a base64 data URI; placeholder
// authoring happens elsewhere and arrives here read-only.
type Template struct {
	Name         string        `json:"name,omitempty"`
	Type         string        `json:"type,omitempty"` // "certificate" or "badge"
	Image        string        `json:"image"`
	Placeholders []Placeholder `json:"placeholders"`
}

// Values is the on-disk per-render data document.
type Values struct {
	Values    map[string]string `json:"values"`
	Overrides map[string]string `json:"overrides,omitempty"`
}

// LoadTemplateFile reads and parses a template JSON file.
func LoadTemplateFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}

	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse template JSON: %w", err)
	}

	if err := ValidatePlaceholders(t.Placeholders); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadValuesFile reads and parses a values JSON file. A malformed file is
// reported as warnings with an empty value set, so a render can still
// proceed and produce the bare template.
func LoadValuesFile(path string) (*Values, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read values: %w", err)
	}

	var v Values
	if err := json.Unmarshal(data, &v); err != nil {
		warnings := []string{fmt.Sprintf("malformed values file: %v — rendering with no values", err)}
		return &Values{Values: make(map[string]string)}, warnings, nil
	}

	if v.Values == nil {
		v.Values = make(map[string]string)
	}
	return &v, nil, nil
}

// Request assembles a RenderRequest from a loaded template and values.
func (t *Template) Request(v *Values) RenderRequest {
	req := RenderRequest{
		SourceImage:  t.Image,
		Placeholders: t.Placeholders,
	}
	if v != nil {
		req.FieldValues = v.Values
		req.QROverrides = v.Overrides
	}
	return req
}
