package components

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"
)

// Pad returns n spaces, or an empty string when n <= 0.
func Pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// PadRight pads s with spaces to width display columns. ANSI sequences do
// not count towards the width.
func PadRight(s string, width int) string {
	return s + Pad(width-lipgloss.Width(s))
}
