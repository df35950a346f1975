package filament

import "strings"

// fallbackColor stands in for anything that does not parse as a hex color.
const fallbackColor = "#000000"

// NormalizeColor reduces a color to canonical #RRGGBB form: the marker is
// optional on input, an alpha channel is stripped, hex digits are
// uppercased. Anything else collapses to #000000.
func NormalizeColor(color string) string {
	c := strings.TrimLeft(strings.TrimSpace(color), "#")
	if len(c) == 8 && isHex(c) {
		c = c[:6]
	}
	if len(c) != 6 || !isHex(c) {
		return fallbackColor
	}
	return "#" + strings.ToUpper(c)
}

// AlphaHex renders a color as the marker-less 8-digit RRGGBBAA form used by
// project settings arrays. A 6-digit input gains an opaque FF alpha; an
// 8-digit input keeps its own.
func AlphaHex(color string) string {
	c := strings.TrimLeft(strings.TrimSpace(color), "#")
	switch {
	case len(c) == 8 && isHex(c):
		return strings.ToUpper(c)
	case len(c) == 6 && isHex(c):
		return strings.ToUpper(c) + "FF"
	}
	return strings.TrimPrefix(fallbackColor, "#") + "FF"
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
