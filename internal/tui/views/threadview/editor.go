package threadview

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

type editorField int

const (
	fieldTitle editorField = iota
	fieldStart
	fieldBody
)

// editor holds the text inputs for the open draft. The reconciler owns the
// draft text; the editor is the input surface and is reset on every open.
type editor struct {
	title   textinput.Model
	start   textinput.Model
	body    textarea.Model
	focus   editorField
	isReply bool
	preview bool

	// onStart is called when the start field gains or loses focus.
	onStart      func(focused bool)
	startFocused bool
}

func newEditor(width int) editor {
	ti := textinput.New()
	ti.Placeholder = "Thread title"
	ti.Prompt = "Title: "
	ti.CharLimit = 200

	si := textinput.New()
	si.Prompt = "From line: "
	si.CharLimit = 7
	si.Validate = func(s string) error {
		if s == "" {
			return nil
		}
		_, err := strconv.Atoi(s)
		return err
	}

	ta := textarea.New()
	ta.Placeholder = "Write a comment (markdown)"
	ta.ShowLineNumbers = false
	ta.SetHeight(4)

	e := editor{title: ti, start: si, body: ta}
	e.setWidth(width)
	return e
}

func (e *editor) setWidth(width int) {
	w := max(width, 20)
	e.title.SetWidth(w - len(e.title.Prompt) - 1)
	e.start.SetWidth(8)
	e.body.SetWidth(w)
}

// reset loads a draft into the fields and focuses the first one that
// applies.
func (e *editor) reset(isReply bool, title string, start int, body string) tea.Cmd {
	e.isReply = isReply
	e.preview = false
	e.title.SetValue(title)
	e.setStart(start)
	e.body.SetValue(body)
	if isReply {
		return e.focusField(fieldBody)
	}
	return e.focusField(fieldTitle)
}

// setStart mirrors a start line chosen elsewhere, such as by pointer hover.
func (e *editor) setStart(n int) {
	e.start.SetValue(strconv.Itoa(n))
	e.start.CursorEnd()
}

// startValue returns the typed start line, or false while the field does
// not hold a number.
func (e editor) startValue() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(e.start.Value()))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (e *editor) focusField(f editorField) tea.Cmd {
	if e.isReply {
		f = fieldBody
	}
	e.focus = f
	e.title.Blur()
	e.start.Blur()
	e.body.Blur()

	var cmd tea.Cmd
	switch f {
	case fieldTitle:
		cmd = e.title.Focus()
	case fieldStart:
		cmd = e.start.Focus()
	default:
		cmd = e.body.Focus()
	}
	e.setStartFocused(f == fieldStart)
	return cmd
}

func (e *editor) setStartFocused(on bool) {
	if e.startFocused == on {
		return
	}
	e.startFocused = on
	if e.onStart != nil {
		e.onStart(on)
	}
}

// cycle moves focus forward, or backward when reverse is set.
func (e *editor) cycle(reverse bool) tea.Cmd {
	step := 1
	if reverse {
		step = 2
	}
	return e.focusField((e.focus + editorField(step)) % 3)
}

func (e *editor) blur() {
	e.title.Blur()
	e.start.Blur()
	e.body.Blur()
	e.setStartFocused(false)
}

func (e *editor) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch e.focus {
	case fieldTitle:
		e.title, cmd = e.title.Update(msg)
	case fieldStart:
		e.start, cmd = e.start.Update(msg)
	default:
		e.body, cmd = e.body.Update(msg)
	}
	return cmd
}

// format applies cmd at the body cursor. It reports false when the body is
// not the focused field.
func (e *editor) format(cmd formatCommand) bool {
	if e.focus != fieldBody || e.preview {
		return false
	}

	text := []rune(e.body.Value())
	out, cursor := applyFormat(cmd, text, e.bodyCursor())
	e.setBody(out, cursor)
	return true
}

// bodyCursor returns the cursor of the body as a rune offset into its value.
func (e editor) bodyCursor() int {
	rows := strings.Split(e.body.Value(), "\n")
	pos := 0
	for i := 0; i < e.body.Line() && i < len(rows); i++ {
		pos += len([]rune(rows[i])) + 1
	}
	return pos + e.body.Column()
}

// setBody replaces the body and places the cursor at the rune offset.
func (e *editor) setBody(text []rune, cursor int) {
	head := string(text[:cursor])
	e.body.SetValue(head)
	row, col := e.body.Line(), e.body.Column()
	e.body.InsertString(string(text[cursor:]))

	e.body.MoveToBegin()
	for range len(text) {
		if e.body.Line() >= row {
			break
		}
		e.body.CursorDown()
	}
	e.body.SetCursorColumn(col)
}

func (e *editor) togglePreview() {
	e.preview = !e.preview
}

func (e editor) titleValue() string { return e.title.Value() }
func (e editor) bodyValue() string  { return e.body.Value() }
