// validate.go — placeholder invariants and non-fatal value checks.
package render

import "fmt"

// ValidatePlaceholders enforces the template invariants:
//   - field names are unique within the template
//   - every non-email field has both coordinates
//   - at least one email-typed field exists (recipient identity, drawn or not)
//
// Violations are caller bugs, reported as ErrInvalidInput.
func ValidatePlaceholders(placeholders []Placeholder) error {
	if len(placeholders) == 0 {
		return fmt.Errorf("%w: template has no placeholders", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(placeholders))
	hasEmail := false

	for _, p := range placeholders {
		if p.FieldName == "" {
			return fmt.Errorf("%w: placeholder with empty fieldName", ErrInvalidInput)
		}
		if _, dup := seen[p.FieldName]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidInput, p.FieldName)
		}
		seen[p.FieldName] = struct{}{}

		if p.FieldType == FieldEmail {
			hasEmail = true
			continue
		}
		if !p.HasCoordinates() {
			return fmt.Errorf("%w: field %q (%s) has no coordinates", ErrInvalidInput, p.FieldName, p.FieldType)
		}
	}

	if !hasEmail {
		return fmt.Errorf("%w: template has no email field", ErrInvalidInput)
	}
	return nil
}

// CheckFieldValues returns warnings for value keys that match no
// placeholder. Unknown keys are ignored at render time; the warnings exist
// so callers can surface authoring mistakes without failing the render.
func CheckFieldValues(placeholders []Placeholder, values map[string]string) []string {
	known := make(map[string]struct{}, len(placeholders))
	for _, p := range placeholders {
		known[p.FieldName] = struct{}{}
	}

	var warnings []string
	for name := range values {
		if _, ok := known[name]; !ok {
			warnings = append(warnings, fmt.Sprintf("value for unknown field %q ignored", name))
		}
	}
	return warnings
}
