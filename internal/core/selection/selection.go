// Package selection drives pointer-based start-line picking for a comment
// editor and the per-line "add comment" control shown while reading.
//
// The end line of a selection is fixed when the editor opens. Hovering a
// line at or above it moves the start, so the highlighted span always runs
// from the hovered line down to the anchor.
package selection

import (
	"github.com/rs/zerolog"

	"github.com/hay-kot/threadline/internal/core/discussion"
)

// TargetKind identifies what the pointer is over.
type TargetKind int

const (
	TargetLine TargetKind = iota
	TargetDiscussion
	TargetGutter
)

// Target is a pointer position resolved by the host. Line is the source line
// of a TargetLine, or the anchor line for the other kinds.
type Target struct {
	Kind TargetKind
	Line int
}

// LineTarget is shorthand for a TargetLine at line.
func LineTarget(line int) Target {
	return Target{Kind: TargetLine, Line: line}
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithOnChange registers a callback invoked after every selection change.
func WithOnChange(fn func(discussion.SelectionState)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// Controller owns the selection state and the set of highlighted lines. It
// is not safe for concurrent use.
type Controller struct {
	reg      *Registry
	state    discussion.SelectionState
	lit      map[int]struct{}
	control  int // line with a visible control, 0 for none
	onChange func(discussion.SelectionState)
	logger   zerolog.Logger
}

// NewController creates a controller over reg.
func NewController(reg *Registry, opts ...Option) *Controller {
	c := &Controller{
		reg:    reg,
		lit:    make(map[int]struct{}),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current selection.
func (c *Controller) State() discussion.SelectionState {
	return c.state
}

// IsHighlighted reports whether line is inside the active span.
func (c *Controller) IsHighlighted(line int) bool {
	start, end, ok := c.state.Span()
	return ok && line >= start && line <= end
}

// ControlLine returns the line whose control is visible.
func (c *Controller) ControlLine() (int, bool) {
	return c.control, c.control != 0
}

// Register adds the handle for line and brings it in sync with the current
// state. A handle already registered for line is replaced.
func (c *Controller) Register(line int, h Handle) {
	c.reg.set(line, h)

	h.SetHighlighted(c.IsHighlighted(line))
	h.SetControlVisible(c.control == line)
}

// Unregister removes the handle for line. A line that scrolls out of view
// keeps its logical highlight and is repainted when registered again.
func (c *Controller) Unregister(line int) {
	c.reg.remove(line)
}

// Focus starts a selection anchored at endLine with a single-line span. A
// selection that is already active is replaced.
func (c *Controller) Focus(endLine int) {
	c.FocusRange(endLine, endLine)
}

// FocusRange starts a selection anchored at endLine with its start at
// startLine, clamped into 1..endLine. It resumes a draft whose start was
// picked earlier.
func (c *Controller) FocusRange(endLine, startLine int) {
	endLine = max(endLine, 1)

	c.state = discussion.SelectionState{
		Active:         true,
		FixedEndLine:   endLine,
		DraftStartLine: min(max(startLine, 1), endLine),
	}
	c.paint()
	c.notify()
}

// Hover moves the start of an active selection to the hovered line. Targets
// that are not lines, lines below the anchor and lines without a registered
// handle are ignored.
func (c *Controller) Hover(t Target) {
	if !c.state.Active || t.Kind != TargetLine {
		return
	}
	if _, ok := c.reg.Get(t.Line); !ok {
		c.logger.Debug().Int("line", t.Line).Msg("hover on unregistered line ignored")
		return
	}
	if t.Line == c.state.DraftStartLine || t.Line > c.state.FixedEndLine {
		return
	}

	c.state.DraftStartLine = max(t.Line, 1)
	c.paint()
	c.notify()
}

// SetStartLine sets the start of an active selection directly, clamped into
// 1..FixedEndLine.
func (c *Controller) SetStartLine(n int) {
	if !c.state.Active {
		return
	}

	n = min(max(n, 1), c.state.FixedEndLine)
	if n == c.state.DraftStartLine {
		return
	}

	c.state.DraftStartLine = n
	c.paint()
	c.notify()
}

// Blur ends the selection and clears the highlight.
func (c *Controller) Blur() {
	if !c.state.Active {
		return
	}

	c.state = discussion.SelectionState{}
	c.paint()
	c.notify()
}

// PointerEnter reveals the control on a hovered line and hides it everywhere
// else. Discussion blocks and the gutter reveal nothing.
func (c *Controller) PointerEnter(t Target) {
	if t.Kind == TargetLine && t.Line == c.control {
		return
	}

	c.hideControl()

	if t.Kind != TargetLine {
		return
	}
	h, ok := c.reg.Get(t.Line)
	if !ok {
		return
	}
	h.SetControlVisible(true)
	c.control = t.Line
}

// PointerLeave hides the control on the line the pointer left.
func (c *Controller) PointerLeave(t Target) {
	if t.Kind == TargetLine && t.Line == c.control {
		c.hideControl()
	}
}

// HideControl hides the visible control, if any.
func (c *Controller) HideControl() {
	c.hideControl()
}

func (c *Controller) hideControl() {
	if c.control == 0 {
		return
	}
	if h, ok := c.reg.Get(c.control); ok {
		h.SetControlVisible(false)
	}
	c.control = 0
}

// paint clears every highlighted handle and then lights the active span.
func (c *Controller) paint() {
	for line := range c.lit {
		if h, ok := c.reg.Get(line); ok {
			h.SetHighlighted(false)
		}
		delete(c.lit, line)
	}

	start, end, ok := c.state.Span()
	if !ok {
		return
	}
	for line := start; line <= end; line++ {
		c.lit[line] = struct{}{}
		if h, ok := c.reg.Get(line); ok {
			h.SetHighlighted(true)
		}
	}
}

func (c *Controller) notify() {
	c.logger.Debug().
		Bool("active", c.state.Active).
		Int("start", c.state.DraftStartLine).
		Int("end", c.state.FixedEndLine).
		Msg("selection changed")

	if c.onChange != nil {
		c.onChange(c.state)
	}
}
