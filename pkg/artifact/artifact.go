// Package artifact handles the packaging side of a rendered credential:
// wrapping raster bytes in a data URI, splitting one back apart for
// consumers that need raw bytes plus a file extension (content-addressed
// upload), and the optional write-to-path variant for callers that serve
// artifacts from a static directory.
//
// The render engine itself only ever returns bytes; everything here is a
// caller-side concern layered on top.
package artifact

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"strings"
)

// knownExtensions covers the formats credentials actually ship in, so the
// guess does not depend on the host's MIME database ordering.
var knownExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// EncodeDataURI wraps raw bytes as a base64 data URI.
func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Split breaks a data URI into its declared MIME type and raw bytes.
func Split(dataURI string) (mimeType string, data []byte, err error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return "", nil, fmt.Errorf("not a data URI: missing data: prefix")
	}
	rest := dataURI[len("data:"):]

	idx := strings.Index(rest, ";base64,")
	if idx < 0 {
		return "", nil, fmt.Errorf("not a base64 data URI: missing ;base64, marker")
	}

	raw, err := base64.StdEncoding.DecodeString(rest[idx+len(";base64,"):])
	if err != nil {
		return "", nil, fmt.Errorf("decode payload: %w", err)
	}

	return strings.ToLower(strings.TrimSpace(rest[:idx])), raw, nil
}

// ExtensionForMIME guesses a file extension (with leading dot) for a MIME
// type, defaulting to ".bin" when nothing matches.
func ExtensionForMIME(mimeType string) string {
	if ext, ok := knownExtensions[strings.ToLower(mimeType)]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// WriteFile persists a data URI's payload to path. The extension is taken
// from path as given; use ExtensionForMIME to pick one.
func WriteFile(path, dataURI string) error {
	_, data, err := Split(dataURI)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
