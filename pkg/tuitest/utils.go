// Package tuitest provides testing utilities for TUI components.
package tuitest

import (
	"strings"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes ANSI escape codes and trailing whitespace so rendered
// views can be compared as plain text.
func StripANSI(s string) string {
	s = ansi.Strip(s)
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		result = append(result, strings.TrimRight(line, " "))
	}
	return strings.TrimRight(strings.Join(result, "\n"), "\n")
}

// KeyPress creates a key press message for a single rune.
func KeyPress(key rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: key, Text: string(key)})
}

// Runes creates a key press message that types s, the way a terminal
// reports pasted or composed text.
func Runes(s string) tea.KeyPressMsg {
	code := tea.KeyExtended
	if utf8.RuneCountInString(s) == 1 {
		code, _ = utf8.DecodeRuneInString(s)
	}
	return tea.KeyPressMsg(tea.Key{Code: code, Text: s})
}

// Key creates a key press message for a special key such as tea.KeyEnter.
func Key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: code})
}

// KeyMod creates a key press message for code held with mod, such as
// ctrl+s or shift+tab.
func KeyMod(code rune, mod tea.KeyMod) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: code, Mod: mod})
}

// KeyDown creates a down arrow key press message.
func KeyDown() tea.KeyPressMsg {
	return Key(tea.KeyDown)
}

// KeyUp creates an up arrow key press message.
func KeyUp() tea.KeyPressMsg {
	return Key(tea.KeyUp)
}

// KeyEnter creates an enter key press message.
func KeyEnter() tea.KeyPressMsg {
	return Key(tea.KeyEnter)
}

// WindowSize creates a window size message.
func WindowSize(w, h int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: w, Height: h}
}

// Motion creates a pointer move to cell x, y with no button held.
func Motion(x, y int) tea.MouseMotionMsg {
	return tea.MouseMotionMsg{X: x, Y: y, Button: tea.MouseNone}
}

// Click creates a left button press at cell x, y.
func Click(x, y int) tea.MouseClickMsg {
	return tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft}
}

// WheelDown creates a scroll down event.
func WheelDown() tea.MouseWheelMsg {
	return tea.MouseWheelMsg{Button: tea.MouseWheelDown}
}
