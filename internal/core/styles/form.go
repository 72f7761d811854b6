package styles

import (
	"image/color"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// formColor converts a palette color for huh, which is still on lipgloss v1.
func formColor(c color.Color) lipgloss.Color {
	return lipgloss.Color(Hex(c))
}

// FormTheme returns a huh theme using the active palette.
func FormTheme() *huh.Theme {
	p := CurrentPalette
	t := huh.ThemeBase()

	primary := formColor(p.Primary)
	secondary := formColor(p.Secondary)
	muted := formColor(p.Muted)
	errColor := formColor(p.Error)

	t.Focused.Base = t.Focused.Base.BorderForeground(primary)
	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(errColor)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(errColor)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(secondary)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(secondary)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(muted)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())

	return t
}
