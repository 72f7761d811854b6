// Package threadview is the interactive review screen: a syntax-highlighted
// file with discussion threads interleaved below their anchor lines and an
// inline editor for new threads and replies.
//
// The model is the single event loop that drives the anchor map, the row
// sequencer, the selection controller and the draft reconciler. Submissions
// run as commands and come back as messages, so every state change happens
// inside Update.
package threadview

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/hay-kot/threadline/internal/core/anchor"
	"github.com/hay-kot/threadline/internal/core/discussion"
	"github.com/hay-kot/threadline/internal/core/draft"
	"github.com/hay-kot/threadline/internal/core/rows"
	"github.com/hay-kot/threadline/internal/core/selection"
	"github.com/hay-kot/threadline/internal/tui/components"
)

const (
	headerHeight = 1
	footerHeight = 1
	controlWidth = 2 // "+" control and cursor marker
)

// Params configures a Model.
type Params struct {
	Context   context.Context
	PostID    string
	Path      string
	Author    string
	Language  string
	Lines     []discussion.SourceLine
	Threads   []discussion.Thread
	Snippet   draft.SnippetFunc
	Source    discussion.Source // optional, enables reload
	Submitter discussion.Submitter
	Anchor    anchor.Options
	Refresh   RefreshFunc  // optional, re-reads the file on reload
	Watcher   *FileWatcher // optional, triggers Refresh on change

	CommentWidth int
	ExpandAll    bool
	Logger       zerolog.Logger
}

// Model is the review screen. It is used through a pointer because the
// draft reconciler reads the scroll offset from it.
type Model struct {
	ctx       context.Context
	postID    string
	path      string
	lines     []discussion.SourceLine
	source    discussion.Source
	submitter discussion.Submitter
	anchorOpt anchor.Options
	refresh   RefreshFunc
	watcher   *FileWatcher

	rec      *draft.Reconciler
	sel      *selection.Controller
	reg      *selection.Registry
	handles  map[int]*lineHandle
	expanded map[int]bool
	cursor   int

	target    selection.Target
	hasTarget bool

	editor   editor
	viewport viewport.Model
	help     help.Model
	keys     KeyMap
	confirm  *components.ConfirmModal
	showHelp bool

	amap   anchor.Map
	items  []rows.Item
	layout rows.Layout

	commentWidth int
	gutterWidth  int
	renderer     *glamour.TermRenderer
	rendererW    int
	rendered     map[string]string // comment key -> rendered body

	width, height int
	status        string
	statusErr     bool

	logger zerolog.Logger
}

var _ draft.ScrollSource = (*Model)(nil)

// New creates the review screen.
func New(p Params) *Model {
	if p.Context == nil {
		p.Context = context.Background()
	}
	if p.CommentWidth <= 0 {
		p.CommentWidth = 80
	}

	m := &Model{
		ctx:          p.Context,
		postID:       p.PostID,
		path:         p.Path,
		lines:        p.Lines,
		source:       p.Source,
		submitter:    p.Submitter,
		anchorOpt:    p.Anchor,
		refresh:      p.Refresh,
		watcher:      p.Watcher,
		handles:      make(map[int]*lineHandle),
		expanded:     make(map[int]bool),
		cursor:       1,
		help:         help.New(),
		keys:         DefaultKeyMap(),
		commentWidth: p.CommentWidth,
		gutterWidth:  gutterWidthFor(len(p.Lines)),
		rendered:     make(map[string]string),
		logger:       p.Logger,
	}

	m.warnClamped(p.Threads)
	m.rec = draft.New(draft.Config{
		PostID:   p.PostID,
		Path:     p.Path,
		Author:   p.Author,
		Language: p.Language,
		Snippet:  p.Snippet,
		Scroll:   m,
	}, p.Threads, draft.WithLogger(p.Logger))

	m.reg = selection.NewRegistry()
	m.sel = selection.NewController(m.reg,
		selection.WithLogger(p.Logger),
		selection.WithOnChange(m.onSelection),
	)

	m.amap = anchor.Build(m.rec.Threads(), len(m.lines), m.anchorOpt)
	if p.ExpandAll {
		for _, line := range m.threadLines() {
			m.expanded[line] = true
		}
	}

	m.editor = newEditor(m.commentWidth)
	m.editor.onStart = m.onStartFocus
	m.viewport = viewport.New()
	m.viewport.MouseWheelEnabled = true

	return m
}

// ScrollOffset reports the viewport's vertical offset.
func (m *Model) ScrollOffset() int {
	return m.viewport.YOffset()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Wait()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case submissionResultMsg:
		return m, m.handleResult(msg.result)
	case threadsLoadedMsg:
		m.handleReload(msg)
		return m, nil
	case fileChangedMsg:
		return m, m.handleFileChanged()
	case linesLoadedMsg:
		m.handleLines(msg)
		return m, nil
	}
	return m, nil
}

// View implements tea.Model. Every pointer motion is reported, with or
// without a button held, so hover can drive the control and the range.
func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	return v
}

func (m *Model) render() string {
	if m.width == 0 {
		return ""
	}

	body := m.viewport.View()
	switch {
	case m.confirm != nil:
		body = lipgloss.Place(m.width, m.viewport.Height(), lipgloss.Center, lipgloss.Center, m.confirm.View())
	case m.showHelp:
		body = m.helpDialog().Overlay(m.width, m.viewport.Height())
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.SetWidth(width)
	m.viewport.SetHeight(max(height-headerHeight-footerHeight, 1))
	m.help.SetWidth(width)

	w := min(m.commentWidth, max(width-m.gutterWidth-4, 20))
	m.editor.setWidth(w)
	if m.renderer == nil || w != m.rendererW {
		m.newRenderer(w)
	}

	m.rebuild()
	m.ensureCursorVisible()
	m.syncHandles()
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if m.confirm != nil {
		m.handleConfirm(msg)
		return nil
	}
	if m.showHelp {
		if s := msg.String(); s == "esc" || s == "?" || s == "q" {
			m.showHelp = false
		}
		return nil
	}
	if line, ok := m.rec.OpenLine(); ok {
		return m.handleEditorKey(line, msg)
	}

	before := m.viewport.YOffset()
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case msg.String() == "?":
		m.showHelp = true
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.viewport.Height())
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.viewport.Height())
	case key.Matches(msg, m.keys.Top):
		m.cursor = 1
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(len(m.lines), 1)
	case key.Matches(msg, m.keys.NextThread):
		m.jumpThread(1)
	case key.Matches(msg, m.keys.PrevThread):
		m.jumpThread(-1)
	case key.Matches(msg, m.keys.Toggle):
		m.toggle(m.cursor)
	case key.Matches(msg, m.keys.ExpandAll):
		m.toggleAll()
	case key.Matches(msg, m.keys.Comment):
		cmd = m.openDraft(m.cursor)
	case key.Matches(msg, m.keys.Reload):
		cmd = m.reload()
	}

	m.rebuild()
	m.ensureCursorVisible()
	m.scrolled(before, true)
	return cmd
}

func (m *Model) handleEditorKey(line int, msg tea.KeyPressMsg) tea.Cmd {
	d := m.rec.Draft(line)
	before := m.viewport.YOffset()
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Cancel):
		if d.Mode != discussion.DraftSubmitting && hasText(d) {
			cm := components.NewConfirmModal("Discard this draft?").WithDetail(preview(d))
			m.confirm = &cm
		} else {
			m.closeDraft(line)
		}
	case d.Mode == discussion.DraftSubmitting:
		// Input is frozen until the result arrives.
	case key.Matches(msg, m.keys.Submit):
		cmd = m.submit()
	case key.Matches(msg, m.keys.Preview):
		m.editor.togglePreview()
	case m.editor.preview:
		// The preview is read-only.
	case key.Matches(msg, m.keys.SwitchField):
		cmd = m.editor.cycle(msg.String() == "shift+tab")
	case key.Matches(msg, m.keys.StartUp, m.keys.StartDown):
		cmd = m.moveStart(key.Matches(msg, m.keys.StartDown))
	default:
		if fc, ok := m.keys.formatFor(msg); ok {
			if m.editor.format(fc) {
				m.syncDraftText()
			}
			break
		}
		cmd = m.editor.update(msg)
		m.syncDraftText()
	}

	m.rebuild()
	m.ensureDraftVisible()
	m.scrolled(before, true)
	return cmd
}

func (m *Model) handleConfirm(msg tea.KeyPressMsg) {
	cm, _ := m.confirm.Update(msg)
	switch {
	case cm.Confirmed():
		m.confirm = nil
		if line, ok := m.rec.OpenLine(); ok {
			m.closeDraft(line)
		}
		m.rebuild()
		m.syncHandles()
	case cm.Cancelled():
		m.confirm = nil
	default:
		m.confirm = &cm
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.confirm != nil || m.showHelp {
		return nil
	}

	before := m.viewport.YOffset()
	if _, ok := msg.(tea.MouseWheelMsg); ok {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.scrolled(before, true)
		return cmd
	}

	mouse := msg.Mouse()
	target := m.targetAt(mouse.X, mouse.Y)
	var cmd tea.Cmd

	switch msg.(type) {
	case tea.MouseMotionMsg:
		m.pointerMoved(target)
	case tea.MouseClickMsg:
		if mouse.Button == tea.MouseLeft {
			m.pointerMoved(target)
			cmd = m.click(target, mouse.X)
		}
	}

	m.rebuild()
	if cmd != nil {
		m.ensureDraftVisible()
	}
	m.scrolled(before, true)
	return cmd
}

func (m *Model) pointerMoved(target selection.Target) {
	if m.hasTarget && m.target != target {
		m.sel.PointerLeave(m.target)
	}
	m.target, m.hasTarget = target, true

	if _, open := m.rec.OpenLine(); !open {
		m.sel.PointerEnter(target)
		return
	}
	if m.startEditable() {
		m.sel.Hover(target)
	}
}

func (m *Model) click(target selection.Target, x int) tea.Cmd {
	if _, open := m.rec.OpenLine(); open {
		return nil
	}

	switch target.Kind {
	case selection.TargetLine:
		if line, ok := m.sel.ControlLine(); ok && line == target.Line && x < controlWidth {
			return m.openDraft(line)
		}
		m.cursor = target.Line
	case selection.TargetDiscussion:
		m.cursor = target.Line
	}
	return nil
}

func (m *Model) handleResult(res draft.Result) tea.Cmd {
	outcome, err := m.rec.Resolve(res)

	switch outcome {
	case draft.OutcomeCommitted:
		m.sel.Blur()
		m.editor.blur()
		m.expanded[res.Line] = true
		m.setStatus("comment posted")

		m.rebuild()
		m.scrolled(-1, false)
		m.rec.Stabilizer().Settle()
		return nil
	case draft.OutcomeFailed:
		m.setError(err)
		cmd := m.editor.focusField(m.editor.focus)
		m.rebuild()
		return cmd
	default:
		return nil
	}
}

func (m *Model) handleReload(msg threadsLoadedMsg) {
	if msg.err != nil {
		m.setError(fmt.Errorf("reload threads: %w", msg.err))
		return
	}
	m.warnClamped(msg.threads)
	m.rec.Reload(msg.threads)
	m.setStatus(fmt.Sprintf("loaded %d threads", len(msg.threads)))
	m.rebuild()
	m.syncHandles()
}

// handleFileChanged refreshes the file unless an editor is open, in which
// case the user is told to reload once done. The watcher is always re-armed.
func (m *Model) handleFileChanged() tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.refresh == nil:
	case m.editing():
		m.setStatus("file changed on disk, press r to reload")
	default:
		cmd = refreshCmd(m.ctx, m.refresh)
	}
	if m.watcher != nil {
		cmd = tea.Batch(cmd, m.watcher.Wait())
	}
	return cmd
}

// handleLines swaps in a re-tokenized file. The reconciler keeps the stored
// thread ranges, so a thread clamped while the file was short returns to its
// own line once the file grows back. A result that arrives while an editor
// is open is dropped so the draft's anchor cannot move under it.
func (m *Model) handleLines(msg linesLoadedMsg) {
	if msg.err != nil {
		m.setError(fmt.Errorf("reload file: %w", msg.err))
		return
	}
	if m.editing() {
		m.setStatus("file changed on disk, press r to reload")
		return
	}

	m.lines = msg.lines
	m.gutterWidth = gutterWidthFor(len(m.lines))
	m.warnClamped(m.rec.Threads())
	m.moveCursor(0)
	m.setStatus(fmt.Sprintf("file reloaded, %d lines", len(m.lines)))

	m.rebuild()
	m.ensureCursorVisible()
	m.syncHandles()
}

func (m *Model) editing() bool {
	_, open := m.rec.OpenLine()
	return open
}

// openDraft opens a reply when a thread is displayed at line and a new
// thread otherwise. When several stale threads share the line the first in
// bucket order takes the reply. The selection stays inactive until the start
// field is focused.
func (m *Model) openDraft(line int) tea.Cmd {
	var thread *discussion.Thread
	if ids := m.amap.ThreadsAt(line); len(ids) > 0 {
		if t, ok := m.rec.ThreadByID(ids[0]); ok {
			thread = &t
			m.expanded[line] = true
		}
	}

	if err := m.rec.Open(line, thread); err != nil {
		m.setError(err)
		return nil
	}
	m.cursor = line
	m.status = ""

	m.sel.HideControl()
	m.sel.Blur()
	d := m.rec.Draft(line)
	return m.editor.reset(d.IsReply(), d.Title, d.StartLine, d.Body)
}

func (m *Model) closeDraft(line int) {
	m.rec.Close(line)
	m.sel.Blur()
	m.editor.blur()
}

func (m *Model) submit() tea.Cmd {
	if m.submitter == nil {
		m.setError(errors.New("read-only session, no submitter configured"))
		return nil
	}

	a, err := m.rec.Submit()
	if err != nil {
		m.setError(err)
		return nil
	}

	m.editor.blur()
	m.setStatus("submitting…")
	return submitCmd(m.ctx, m.submitter, a)
}

func (m *Model) reload() tea.Cmd {
	var cmds []tea.Cmd
	if m.refresh != nil {
		cmds = append(cmds, refreshCmd(m.ctx, m.refresh))
	}
	if m.source != nil {
		cmds = append(cmds, loadThreadsCmd(m.ctx, m.source, m.postID, m.path))
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		m.setStatus("reloading…")
		return cmds[0]
	}
	m.setStatus("reloading…")
	// Lines first so the threads are clamped against the new length.
	return tea.Sequence(cmds...)
}

// syncDraftText pushes editor input into the reconciler. Only changed fields
// are written so navigation keys do not count as edits. A typed start line
// outside 1..anchor is written back as the clamped value.
func (m *Model) syncDraftText() {
	line, ok := m.rec.OpenLine()
	if !ok {
		return
	}
	d := m.rec.Draft(line)

	if v := m.editor.titleValue(); v != d.Title {
		_ = m.rec.SetTitle(v)
	}
	if v := m.editor.bodyValue(); v != d.Body {
		_ = m.rec.SetBody(v)
	}

	n, ok := m.editor.startValue()
	if !ok || d.IsReply() {
		return
	}
	if n != d.StartLine {
		m.sel.SetStartLine(n)
	}
	if st := m.sel.State(); st.Active && n != st.DraftStartLine {
		m.editor.setStart(st.DraftStartLine)
	}
}

// moveStart focuses the start field and moves the start line one step up,
// or down when down is set.
func (m *Model) moveStart(down bool) tea.Cmd {
	if !m.startEditable() {
		return nil
	}
	var cmd tea.Cmd
	if m.editor.focus != fieldStart {
		cmd = m.editor.focusField(fieldStart)
	}
	delta := -1
	if down {
		delta = 1
	}
	m.sel.SetStartLine(m.sel.State().DraftStartLine + delta)
	return cmd
}

// onStartFocus makes the selection active exactly while the start field has
// focus, resuming from the draft's current start line.
func (m *Model) onStartFocus(focused bool) {
	if !focused {
		m.sel.Blur()
		return
	}
	line, ok := m.rec.OpenLine()
	if !ok || !m.startEditable() {
		return
	}
	m.sel.FocusRange(line, m.rec.Draft(line).StartLine)
}

// onSelection mirrors the controller's start line into the open draft and
// the start field.
func (m *Model) onSelection(st discussion.SelectionState) {
	if !st.Active || !m.startEditable() {
		return
	}
	line, _ := m.rec.OpenLine()
	if m.rec.Draft(line).StartLine != st.DraftStartLine {
		_ = m.rec.SetStartLine(st.DraftStartLine)
	}
	if n, ok := m.editor.startValue(); !ok || n != st.DraftStartLine {
		m.editor.setStart(st.DraftStartLine)
	}
}

// startEditable reports whether the open draft is a new thread that is not
// submitting.
func (m *Model) startEditable() bool {
	line, ok := m.rec.OpenLine()
	if !ok {
		return false
	}
	d := m.rec.Draft(line)
	return !d.IsReply() && d.Mode != discussion.DraftSubmitting
}

// warnClamped logs the threads whose stored range falls outside the file.
// They are displayed at the last line; their stored range is kept.
func (m *Model) warnClamped(threads []discussion.Thread) {
	_, moved := anchor.Clamp(threads, len(m.lines))
	for _, id := range moved {
		m.logger.Warn().Str("thread_id", id).Msg("thread range outside file, clamped")
	}
}

func (m *Model) moveCursor(delta int) {
	m.cursor = min(max(m.cursor+delta, 1), max(len(m.lines), 1))
}

// threadLines returns the display lines that carry threads, ascending.
func (m *Model) threadLines() []int {
	lines := make([]int, 0, len(m.amap.Spans))
	for _, s := range m.amap.Spans {
		lines = append(lines, s.EndLine)
	}
	slices.Sort(lines)
	return slices.Compact(lines)
}

func (m *Model) jumpThread(dir int) {
	lines := m.threadLines()
	if dir > 0 {
		for _, line := range lines {
			if line > m.cursor {
				m.cursor = line
				return
			}
		}
		return
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] < m.cursor {
			m.cursor = lines[i]
			return
		}
	}
}

func (m *Model) toggle(line int) {
	if len(m.amap.Buckets[line]) == 0 {
		return
	}
	m.expanded[line] = !m.expanded[line]
}

func (m *Model) toggleAll() {
	lines := m.threadLines()
	open := false
	for _, line := range lines {
		if !m.expanded[line] {
			open = true
			break
		}
	}
	for _, line := range lines {
		m.expanded[line] = open
	}
}

// rebuild recomputes the anchor map, the row sequence and the layout, and
// re-renders the viewport content.
func (m *Model) rebuild() {
	m.amap = anchor.Build(m.rec.Threads(), len(m.lines), m.anchorOpt)
	m.items = rows.Sequence(m.lines, m.amap.Buckets, m.expanded, m.rec.Drafts())

	rendered := make([]string, len(m.items))
	heights := make(map[int]int)
	for i, it := range m.items {
		if it.Kind == rows.KindLine {
			rendered[i] = m.renderLine(it.Line)
			continue
		}
		block := m.renderBlock(it)
		rendered[i] = block
		heights[it.Anchor] = lipgloss.Height(block)
	}

	m.layout = rows.NewLayout(m.items, func(it rows.Item) int {
		if it.Kind == rows.KindLine {
			return 1
		}
		return heights[it.Anchor]
	})
	m.viewport.SetContent(strings.Join(rendered, "\n"))
}

// scrolled reports a scroll to the stabilizer when the offset moved from
// before, then refreshes the set of registered lines. A negative before
// always reports.
func (m *Model) scrolled(before int, user bool) {
	if before < 0 || m.viewport.YOffset() != before {
		if off, fix := m.rec.Stabilizer().OnScroll(draft.ScrollEvent{
			Offset: m.viewport.YOffset(),
			User:   user,
		}); fix {
			m.viewport.SetYOffset(off)
		}
	}
	m.syncHandles()
}

// syncHandles registers a handle for every source line inside the viewport
// and unregisters the rest.
func (m *Model) syncHandles() {
	top, h := m.viewport.YOffset(), m.viewport.Height()
	visible := make(map[int]bool, h)
	for row := top; row < top+h; row++ {
		idx, _, ok := m.layout.ItemAt(row)
		if !ok {
			break
		}
		if it := m.items[idx]; it.Kind == rows.KindLine {
			visible[it.Line.Index] = true
		}
	}

	for line := range m.handles {
		if !visible[line] {
			m.sel.Unregister(line)
			delete(m.handles, line)
		}
	}
	for line := range visible {
		if _, ok := m.handles[line]; ok {
			continue
		}
		h := &lineHandle{}
		m.handles[line] = h
		m.sel.Register(line, h)
	}
}

func (m *Model) ensureCursorVisible() {
	row, ok := m.layout.RowOf(m.cursor)
	if !ok {
		return
	}
	m.ensureRowsVisible(row, row)
}

// ensureDraftVisible scrolls so the open editor block is on screen.
func (m *Model) ensureDraftVisible() {
	line, ok := m.rec.OpenLine()
	if !ok {
		return
	}
	for i, it := range m.items {
		if it.Kind == rows.KindDiscussion && it.Anchor == line {
			var last int
			if i+1 < len(m.items) {
				last = m.layout.Start(i+1) - 1
			} else {
				last = m.layout.Total() - 1
			}
			lineRow, _ := m.layout.RowOf(line)
			m.ensureRowsVisible(lineRow, last)
			return
		}
	}
}

// ensureRowsVisible scrolls the minimum amount to show rows first..last,
// preferring first when the range is taller than the viewport.
func (m *Model) ensureRowsVisible(first, last int) {
	h := m.viewport.Height()
	if h <= 0 {
		return
	}
	top := m.viewport.YOffset()
	switch {
	case first < top:
		m.viewport.SetYOffset(first)
	case last >= top+h:
		m.viewport.SetYOffset(min(last-h+1, first))
	}
}

// targetAt maps a screen position to a pointer target.
func (m *Model) targetAt(x, y int) selection.Target {
	row := y - headerHeight
	if row < 0 || row >= m.viewport.Height() {
		return selection.Target{Kind: selection.TargetGutter}
	}
	idx, _, ok := m.layout.ItemAt(row + m.viewport.YOffset())
	if !ok {
		return selection.Target{Kind: selection.TargetGutter}
	}

	it := m.items[idx]
	if it.Kind == rows.KindDiscussion {
		return selection.Target{Kind: selection.TargetDiscussion, Line: it.Anchor}
	}
	if x >= controlWidth && x < m.gutterWidth {
		return selection.Target{Kind: selection.TargetGutter, Line: it.Line.Index}
	}
	return selection.LineTarget(it.Line.Index)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
	m.logger.Debug().Err(err).Msg("view error")
}

func (m *Model) helpDialog() *components.HelpDialog {
	k := m.keys
	return components.NewHelpDialog("Keyboard shortcuts", []components.HelpDialogSection{
		{Title: "Reading", Bindings: []key.Binding{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom}},
		{Title: "Threads", Bindings: []key.Binding{k.NextThread, k.PrevThread, k.Toggle, k.ExpandAll, k.Comment, k.Reload}},
		{Title: "Editor", Bindings: k.editorHelp()},
		{Title: "Markdown", Bindings: k.formatHelp()},
	})
}

func gutterWidthFor(lines int) int {
	return controlWidth + len(fmt.Sprint(lines)) + 3
}

// preview returns the first non-blank line of the draft body, or the title.
func preview(d discussion.DraftState) string {
	for _, line := range strings.Split(d.Body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return strings.TrimSpace(d.Title)
}

func hasText(d discussion.DraftState) bool {
	return strings.TrimSpace(d.Body) != "" || strings.TrimSpace(d.Title) != ""
}
