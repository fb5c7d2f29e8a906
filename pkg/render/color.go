// color.go — placeholder color parsing.
package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Black is the fill used when a placeholder's color is empty or unparseable.
var Black = color.RGBA{0, 0, 0, 255}

// ParseColor parses a placeholder color string. Accepts "#rgb", "#rrggbb",
// and "rgb(r, g, b)". An empty string is the default black.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Black, nil
	}
	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return parseRGBFunc(s)
	}
	return parseHex(s)
}

// parseHex converts "#rgb" or "#rrggbb" to color.RGBA.
func parseHex(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")

	// Expand shorthand "#abc" to "aabbcc".
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Black, fmt.Errorf("invalid color %q: expected 3- or 6-char hex", s)
	}

	rv, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return Black, fmt.Errorf("invalid red channel in %q: %w", s, err)
	}
	gv, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return Black, fmt.Errorf("invalid green channel in %q: %w", s, err)
	}
	bv, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return Black, fmt.Errorf("invalid blue channel in %q: %w", s, err)
	}

	return color.RGBA{uint8(rv), uint8(gv), uint8(bv), 255}, nil
}

// parseRGBFunc converts "rgb(r, g, b)" (alpha ignored if present) to color.RGBA.
func parseRGBFunc(s string) (color.RGBA, error) {
	open := strings.IndexByte(s, '(')
	end := strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return Black, fmt.Errorf("invalid color %q: unbalanced parentheses", s)
	}

	parts := strings.Split(s[open+1:end], ",")
	if len(parts) < 3 {
		return Black, fmt.Errorf("invalid color %q: expected 3 channels", s)
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return Black, fmt.Errorf("invalid channel %q in %q", parts[i], s)
		}
		ch[i] = uint8(v)
	}

	return color.RGBA{ch[0], ch[1], ch[2], 255}, nil
}

// colorOrBlack parses s, falling back to black on any error. Rendering
// never fails over a bad color string.
func colorOrBlack(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		return Black
	}
	return c
}
