package threadview

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// KeyMap holds the bindings for reading mode and the draft editor.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Top        key.Binding
	Bottom     key.Binding
	NextThread key.Binding
	PrevThread key.Binding
	Toggle     key.Binding
	ExpandAll  key.Binding
	Comment    key.Binding
	Reload     key.Binding
	Quit       key.Binding

	Submit      key.Binding
	Cancel      key.Binding
	SwitchField key.Binding
	StartUp     key.Binding
	StartDown   key.Binding
	Preview     key.Binding

	Header   key.Binding
	Bold     key.Binding
	Italic   key.Binding
	Quote    key.Binding
	Code     key.Binding
	Link     key.Binding
	Bullet   key.Binding
	Numbered key.Binding
	Task     key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("ctrl+u", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("ctrl+d", "page down")),
		Top:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		NextThread: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next thread")),
		PrevThread: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "prev thread")),
		Toggle:     key.NewBinding(key.WithKeys("tab", "o"), key.WithHelp("tab", "toggle thread")),
		ExpandAll:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand/collapse all")),
		Comment:    key.NewBinding(key.WithKeys("enter", "c"), key.WithHelp("c", "comment")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Submit:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		SwitchField: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		StartUp:     key.NewBinding(key.WithKeys("shift+up", "alt+k"), key.WithHelp("shift+↑", "extend range")),
		StartDown:   key.NewBinding(key.WithKeys("shift+down", "alt+j"), key.WithHelp("shift+↓", "shrink range")),
		Preview:     key.NewBinding(key.WithKeys("alt+p"), key.WithHelp("alt+p", "write/preview")),

		Header:   key.NewBinding(key.WithKeys("alt+h"), key.WithHelp("alt+h", "header")),
		Bold:     key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "bold")),
		Italic:   key.NewBinding(key.WithKeys("alt+i"), key.WithHelp("alt+i", "italic")),
		Quote:    key.NewBinding(key.WithKeys("alt+q"), key.WithHelp("alt+q", "quote")),
		Code:     key.NewBinding(key.WithKeys("alt+m"), key.WithHelp("alt+m", "code")),
		Link:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "link")),
		Bullet:   key.NewBinding(key.WithKeys("alt+-"), key.WithHelp("alt+-", "bulleted list")),
		Numbered: key.NewBinding(key.WithKeys("alt+n"), key.WithHelp("alt+n", "numbered list")),
		Task:     key.NewBinding(key.WithKeys("alt+t"), key.WithHelp("alt+t", "task list")),
	}
}

// ShortHelp implements help.KeyMap for reading mode.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Toggle, k.Comment, k.NextThread, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.NextThread, k.PrevThread, k.Toggle, k.ExpandAll},
		{k.Comment, k.Reload, k.Quit},
	}
}

// editorHelp returns the bindings shown while a draft is open.
func (k KeyMap) editorHelp() []key.Binding {
	return []key.Binding{k.Submit, k.SwitchField, k.StartUp, k.StartDown, k.Preview, k.Cancel}
}

// formatHelp returns the markdown bindings of the body field.
func (k KeyMap) formatHelp() []key.Binding {
	return []key.Binding{k.Header, k.Bold, k.Italic, k.Quote, k.Code, k.Link, k.Bullet, k.Numbered, k.Task}
}

// formatFor returns the markdown command bound to msg.
func (k KeyMap) formatFor(msg tea.KeyPressMsg) (formatCommand, bool) {
	bound := []struct {
		binding key.Binding
		cmd     formatCommand
	}{
		{k.Header, fmtHeader},
		{k.Bold, fmtBold},
		{k.Italic, fmtItalic},
		{k.Quote, fmtQuote},
		{k.Code, fmtCode},
		{k.Link, fmtLink},
		{k.Bullet, fmtBullet},
		{k.Numbered, fmtNumbered},
		{k.Task, fmtTask},
	}
	for _, b := range bound {
		if key.Matches(msg, b.binding) {
			return b.cmd, true
		}
	}
	return formatCommand{}, false
}
