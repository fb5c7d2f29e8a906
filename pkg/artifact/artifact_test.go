package artifact

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestDataURIRoundTrip(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01, 0x02}

	uri := EncodeDataURI("image/png", payload)
	if want := "data:image/png;base64,"; len(uri) <= len(want) || uri[:len(want)] != want {
		t.Fatalf("EncodeDataURI = %.40q, want %q prefix", uri, want)
	}

	mimeType, data, err := Split(uri)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if mimeType != "image/png" {
		t.Errorf("mime = %q, want image/png", mimeType)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("payload round trip mismatch: %v != %v", data, payload)
	}
}

func TestSplitRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing prefix", "image/png;base64,AAAA"},
		{"missing marker", "data:image/png,AAAA"},
		{"bad payload", "data:image/png;base64,!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Split(tt.in); err == nil {
				t.Errorf("Split(%q) succeeded, want error", tt.in)
			}
		})
	}
}

func TestExtensionForMIME(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/png", ".png"},
		{"IMAGE/PNG", ".png"},
		{"image/jpeg", ".jpg"},
		{"image/webp", ".webp"},
		{"application/x-nonsense", ".bin"},
	}
	for _, tt := range tests {
		if got := ExtensionForMIME(tt.mime); got != tt.want {
			t.Errorf("ExtensionForMIME(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}

func TestWriteFile(t *testing.T) {
	payload := []byte("artifact bytes")
	uri := EncodeDataURI("image/png", payload)
	path := filepath.Join(t.TempDir(), "out.png")

	if err := WriteFile(path, uri); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("file contents = %q, want %q", got, payload)
	}

	if err := WriteFile(filepath.Join(t.TempDir(), "bad.png"), "not a uri"); err == nil {
		t.Error("want error for malformed data URI")
	}
}
