package components

import (
	"strings"
	"testing"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestConfirmModal_Update(t *testing.T) {
	tests := []struct {
		name          string
		key           tea.KeyPressMsg
		wantConfirmed bool
		wantCancelled bool
	}{
		{name: "yes", key: tea.KeyPressMsg{Code: 'y', Text: "y"}, wantConfirmed: true},
		{name: "enter", key: tea.KeyPressMsg{Code: tea.KeyEnter}, wantConfirmed: true},
		{name: "no", key: tea.KeyPressMsg{Code: 'n', Text: "n"}, wantCancelled: true},
		{name: "esc", key: tea.KeyPressMsg{Code: tea.KeyEscape}, wantCancelled: true},
		{name: "other", key: tea.KeyPressMsg{Code: 'x', Text: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := NewConfirmModal("Discard?").Update(tt.key)
			assert.Equal(t, tt.wantConfirmed, m.Confirmed())
			assert.Equal(t, tt.wantCancelled, m.Cancelled())
		})
	}
}

func TestConfirmModal_View(t *testing.T) {
	out := ansi.Strip(NewConfirmModal("Discard this draft?").View())
	assert.Contains(t, out, "Discard this draft?")
	assert.Contains(t, out, "(y/n)")
}

func TestHelpDialog_SkipsDisabledBindings(t *testing.T) {
	on := key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment"))
	off := key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hidden"))
	off.SetEnabled(false)

	out := ansi.Strip(NewHelpDialog("Keys", []HelpDialogSection{
		{Title: "Reading", Bindings: []key.Binding{on, off}},
	}).View())

	assert.Contains(t, out, "Reading")
	assert.Contains(t, out, "comment")
	assert.NotContains(t, out, "hidden")
}

func TestConfirmModal_AnswersOnce(t *testing.T) {
	m, _ := NewConfirmModal("Discard?").Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})

	assert.True(t, m.Confirmed())
	assert.False(t, m.Cancelled())
}

func TestConfirmModal_Detail(t *testing.T) {
	long := strings.Repeat("word ", 30)
	out := ansi.Strip(NewConfirmModal("Discard this draft?").WithDetail(long).View())

	assert.Contains(t, out, "word word")
	assert.Contains(t, out, "…")
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		width int
		want  string
	}{
		{name: "pads", s: "ab", width: 5, want: "ab   "},
		{name: "already wide", s: "abcdef", width: 3, want: "abcdef"},
		{name: "ansi not counted", s: "\x1b[1mab\x1b[0m", width: 4, want: "\x1b[1mab\x1b[0m  "},
		{name: "negative width", s: "", width: -2, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PadRight(tt.s, tt.width))
		})
	}
}
