package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/threadline/internal/core/styles"
)

// HelpDialogSection groups related bindings under a title.
type HelpDialogSection struct {
	Title    string
	Bindings []key.Binding
}

// HelpDialog displays all available keyboard shortcuts.
type HelpDialog struct {
	title    string
	sections []HelpDialogSection
}

// NewHelpDialog creates a new help dialog with the given sections.
func NewHelpDialog(title string, sections []HelpDialogSection) *HelpDialog {
	return &HelpDialog{
		title:    title,
		sections: sections,
	}
}

// View renders the help dialog.
func (h *HelpDialog) View() string {
	title := styles.ModalTitleStyle.Render(h.title)

	var lines []string
	separator := styles.MutedStyle.Render("─────────────────────────")

	for i, section := range h.sections {
		if section.Title != "" {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, styles.CommandHeaderStyle.Render(section.Title), separator)
		}

		for _, b := range section.Bindings {
			if !b.Enabled() {
				continue
			}
			lines = append(lines, formatKeyDesc(b.Help().Key, b.Help().Desc))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		strings.Join(lines, "\n"),
		styles.HelpStyle.MarginTop(1).Render("esc/? close"),
	)

	return styles.ModalStyle.Render(content)
}

// Overlay renders the dialog centered in a width by height area.
func (h *HelpDialog) Overlay(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, h.View())
}

// formatKeyDesc formats a key-description pair with consistent alignment.
func formatKeyDesc(key, desc string) string {
	const keyWidth = 12

	displayWidth := lipgloss.Width(key)
	paddedKey := key + Pad(keyWidth-displayWidth)

	return styles.AuthorStyle.Bold(true).Render(paddedKey) + desc
}
