// Package components provides reusable TUI components.
package components

import (
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/hay-kot/threadline/internal/core/styles"
)

// detailWidth caps the preview line shown under the question.
const detailWidth = 48

// ConfirmModal is a yes/no dialog. It answers once: after Confirmed or
// Cancelled turns true further keys are ignored.
type ConfirmModal struct {
	message   string
	detail    string
	confirmed bool
	cancelled bool
}

// NewConfirmModal creates a dialog asking message.
func NewConfirmModal(message string) ConfirmModal {
	return ConfirmModal{message: message}
}

// WithDetail adds a muted preview line, such as the start of the text about
// to be discarded.
func (m ConfirmModal) WithDetail(detail string) ConfirmModal {
	m.detail = ansi.Truncate(detail, detailWidth, "…")
	return m
}

// Update handles input for the dialog.
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok || m.confirmed || m.cancelled {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y", "enter":
		m.confirmed = true
	case "n", "N", "esc":
		m.cancelled = true
	}

	return m, nil
}

// View renders the dialog.
func (m ConfirmModal) View() string {
	body := styles.ModalTitleStyle.Render(m.message)
	if m.detail != "" {
		body += "\n" + styles.MutedStyle.Render(m.detail)
	}
	prompt := styles.CommandHeaderStyle.Render("(y/n)")

	return styles.ModalStyle.Render(body + "\n\n" + prompt)
}

// Confirmed reports whether the user answered yes.
func (m ConfirmModal) Confirmed() bool {
	return m.confirmed
}

// Cancelled reports whether the user answered no.
func (m ConfirmModal) Cancelled() bool {
	return m.cancelled
}
