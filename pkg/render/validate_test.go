package render

import (
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr(v float64) *float64 { return &v }

func TestValidatePlaceholders(t *testing.T) {
	tests := []struct {
		name         string
		placeholders []Placeholder
		wantErr      bool
	}{
		{
			name: "positioned text plus invisible email",
			placeholders: []Placeholder{
				{FieldName: "Name", FieldType: FieldText, X: ptr(300), Y: ptr(200)},
				{FieldName: "Email", FieldType: FieldEmail},
			},
		},
		{
			name: "email with coordinates is fine too",
			placeholders: []Placeholder{
				{FieldName: "Email", FieldType: FieldEmail, X: ptr(10), Y: ptr(10)},
			},
		},
		{
			name:         "empty template",
			placeholders: nil,
			wantErr:      true,
		},
		{
			name: "non-email field missing coordinates",
			placeholders: []Placeholder{
				{FieldName: "Name", FieldType: FieldText},
				{FieldName: "Email", FieldType: FieldEmail},
			},
			wantErr: true,
		},
		{
			name: "non-email field with only one coordinate",
			placeholders: []Placeholder{
				{FieldName: "Name", FieldType: FieldText, X: ptr(300)},
				{FieldName: "Email", FieldType: FieldEmail},
			},
			wantErr: true,
		},
		{
			name: "no email field",
			placeholders: []Placeholder{
				{FieldName: "Name", FieldType: FieldText, X: ptr(1), Y: ptr(1)},
			},
			wantErr: true,
		},
		{
			name: "duplicate field names",
			placeholders: []Placeholder{
				{FieldName: "Name", FieldType: FieldText, X: ptr(1), Y: ptr(1)},
				{FieldName: "Name", FieldType: FieldText, X: ptr(2), Y: ptr(2)},
				{FieldName: "Email", FieldType: FieldEmail},
			},
			wantErr: true,
		},
		{
			name: "empty field name",
			placeholders: []Placeholder{
				{FieldName: "", FieldType: FieldText, X: ptr(1), Y: ptr(1)},
				{FieldName: "Email", FieldType: FieldEmail},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlaceholders(tt.placeholders)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("error = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCheckFieldValues(t *testing.T) {
	placeholders := []Placeholder{
		{FieldName: "Name", FieldType: FieldText, X: ptr(1), Y: ptr(1)},
		{FieldName: "Email", FieldType: FieldEmail},
	}

	t.Run("matching keys yield no warnings", func(t *testing.T) {
		got := CheckFieldValues(placeholders, map[string]string{"Name": "Jane", "Email": "j@x.io"})
		if len(got) != 0 {
			t.Errorf("warnings = %v, want none", got)
		}
	})

	t.Run("unknown keys are reported not fatal", func(t *testing.T) {
		got := CheckFieldValues(placeholders, map[string]string{
			"Name":    "Jane",
			"name":    "case matters",
			"Unknown": "x",
		})
		sort.Strings(got)
		want := []string{
			`value for unknown field "Unknown" ignored`,
			`value for unknown field "name" ignored`,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("warnings mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestPlaceholderDefaults(t *testing.T) {
	got := Placeholder{FieldName: "Name"}.effective()

	want := Placeholder{
		FieldName:  "Name",
		FieldType:  FieldText,
		FontSize:   DefaultFontSize,
		FontFamily: DefaultFontFamily,
		Color:      DefaultColor,
		Align:      DefaultAlign,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("effective() mismatch (-want +got):\n%s", diff)
	}

	// The renderer default is center, whatever the data-model layer
	// historically declared.
	if got.Align != AlignCenter {
		t.Errorf("default align = %q, want center", got.Align)
	}
}
