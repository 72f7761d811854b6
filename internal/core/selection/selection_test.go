package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/threadline/internal/core/discussion"
)

type fakeHandle struct {
	lit     bool
	control bool
}

func (f *fakeHandle) SetHighlighted(on bool)    { f.lit = on }
func (f *fakeHandle) SetControlVisible(on bool) { f.control = on }

// setup registers handles for lines 1..n.
func setup(t *testing.T, n int, opts ...Option) (*Controller, map[int]*fakeHandle) {
	t.Helper()

	c := NewController(NewRegistry(), opts...)
	handles := make(map[int]*fakeHandle, n)
	for line := 1; line <= n; line++ {
		h := &fakeHandle{}
		handles[line] = h
		c.Register(line, h)
	}
	return c, handles
}

func litLines(handles map[int]*fakeHandle) []int {
	var out []int
	for line := 1; line <= len(handles); line++ {
		if handles[line].lit {
			out = append(out, line)
		}
	}
	return out
}

func TestController_FocusHighlightsAnchor(t *testing.T) {
	c, handles := setup(t, 10)

	c.Focus(7)

	assert.Equal(t, discussion.SelectionState{Active: true, FixedEndLine: 7, DraftStartLine: 7}, c.State())
	assert.Equal(t, []int{7}, litLines(handles))
}

func TestController_HoverMovesStart(t *testing.T) {
	c, handles := setup(t, 10)

	c.Focus(7)
	c.Hover(LineTarget(4))

	assert.Equal(t, 4, c.State().DraftStartLine)
	assert.Equal(t, 7, c.State().FixedEndLine)
	assert.Equal(t, []int{4, 5, 6, 7}, litLines(handles))

	c.Hover(LineTarget(9))

	assert.Equal(t, 4, c.State().DraftStartLine, "hover below the anchor is ignored")
	assert.Equal(t, []int{4, 5, 6, 7}, litLines(handles))
}

func TestController_HoverRules(t *testing.T) {
	tests := []struct {
		name      string
		hover     Target
		wantStart int
		wantLit   []int
	}{
		{name: "above anchor", hover: LineTarget(2), wantStart: 2, wantLit: []int{2, 3, 4, 5}},
		{name: "anchor itself", hover: LineTarget(5), wantStart: 5, wantLit: []int{5}},
		{name: "below anchor", hover: LineTarget(6), wantStart: 3, wantLit: []int{3, 4, 5}},
		{name: "discussion block", hover: Target{Kind: TargetDiscussion, Line: 1}, wantStart: 3, wantLit: []int{3, 4, 5}},
		{name: "gutter", hover: Target{Kind: TargetGutter, Line: 1}, wantStart: 3, wantLit: []int{3, 4, 5}},
		{name: "unregistered line", hover: LineTarget(42), wantStart: 3, wantLit: []int{3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, handles := setup(t, 8)
			c.Focus(5)
			c.Hover(LineTarget(3))

			c.Hover(tt.hover)

			assert.Equal(t, tt.wantStart, c.State().DraftStartLine)
			assert.Equal(t, 5, c.State().FixedEndLine)
			assert.Equal(t, tt.wantLit, litLines(handles))
		})
	}
}

func TestController_HoverWhileInactiveIsIgnored(t *testing.T) {
	c, handles := setup(t, 5)

	c.Hover(LineTarget(2))

	assert.False(t, c.State().Active)
	assert.Empty(t, litLines(handles))
}

func TestController_StartLineStaysInBounds(t *testing.T) {
	c, _ := setup(t, 20)
	c.Focus(12)

	moves := []int{3, 15, -4, 0, 12, 1, 30, 7}
	for _, n := range moves {
		c.SetStartLine(n)
		c.Hover(LineTarget(n))

		s := c.State()
		assert.GreaterOrEqual(t, s.DraftStartLine, 1, "after move to %d", n)
		assert.LessOrEqual(t, s.DraftStartLine, s.FixedEndLine, "after move to %d", n)
		assert.Equal(t, 12, s.FixedEndLine, "end line never moves")
	}
}

func TestController_SetStartLineClamps(t *testing.T) {
	c, handles := setup(t, 10)
	c.Focus(6)

	c.SetStartLine(-3)
	assert.Equal(t, 1, c.State().DraftStartLine)

	c.SetStartLine(9)
	assert.Equal(t, 6, c.State().DraftStartLine)
	assert.Equal(t, []int{6}, litLines(handles))
}

func TestController_BlurClears(t *testing.T) {
	c, handles := setup(t, 10)
	c.Focus(6)
	c.Hover(LineTarget(2))

	c.Blur()

	assert.False(t, c.State().Active)
	assert.Empty(t, litLines(handles))
	assert.False(t, c.IsHighlighted(4))
}

func TestController_RefocusReplacesSpan(t *testing.T) {
	c, handles := setup(t, 10)
	c.Focus(6)
	c.Hover(LineTarget(2))

	c.Focus(9)

	assert.Equal(t, []int{9}, litLines(handles), "only one span is highlighted")
}

func TestController_RegisterSyncsHighlight(t *testing.T) {
	c := NewController(NewRegistry())
	c.Focus(8)
	c.SetStartLine(3)

	inSpan := &fakeHandle{}
	outside := &fakeHandle{lit: true}
	c.Register(5, inSpan)
	c.Register(9, outside)

	assert.True(t, inSpan.lit, "handle registered inside the span is painted")
	assert.False(t, outside.lit)

	c.Unregister(5)
	c.Blur()
	assert.True(t, inSpan.lit, "unregistered handle is no longer driven")
}

func TestController_OnChange(t *testing.T) {
	var got []discussion.SelectionState
	c, _ := setup(t, 10, WithOnChange(func(s discussion.SelectionState) {
		got = append(got, s)
	}))

	c.Focus(5)
	c.Hover(LineTarget(3))
	c.Hover(LineTarget(3))
	c.Blur()

	require.Len(t, got, 3, "repeated hover on the same line does not notify")
	assert.Equal(t, 3, got[1].DraftStartLine)
	assert.False(t, got[2].Active)
}

func TestController_PointerControl(t *testing.T) {
	c, handles := setup(t, 5)

	visible := func() []int {
		var out []int
		for line := 1; line <= 5; line++ {
			if handles[line].control {
				out = append(out, line)
			}
		}
		return out
	}

	c.PointerEnter(LineTarget(2))
	assert.Equal(t, []int{2}, visible())

	c.PointerEnter(LineTarget(4))
	assert.Equal(t, []int{4}, visible(), "at most one control is visible")

	line, ok := c.ControlLine()
	require.True(t, ok)
	assert.Equal(t, 4, line)

	c.PointerEnter(Target{Kind: TargetDiscussion, Line: 4})
	assert.Empty(t, visible())

	c.PointerEnter(LineTarget(3))
	c.PointerLeave(LineTarget(1))
	assert.Equal(t, []int{3}, visible(), "leaving another line keeps the control")

	c.PointerLeave(LineTarget(3))
	assert.Empty(t, visible())
	_, ok = c.ControlLine()
	assert.False(t, ok)
}

func TestController_FocusRange(t *testing.T) {
	tests := []struct {
		name      string
		end       int
		start     int
		wantStart int
		wantLit   []int
	}{
		{name: "start above anchor", end: 6, start: 3, wantStart: 3, wantLit: []int{3, 4, 5, 6}},
		{name: "start below anchor", end: 6, start: 9, wantStart: 6, wantLit: []int{6}},
		{name: "start before first line", end: 2, start: 0, wantStart: 1, wantLit: []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, handles := setup(t, 10)

			c.FocusRange(tt.end, tt.start)

			st := c.State()
			assert.True(t, st.Active)
			assert.Equal(t, tt.end, st.FixedEndLine)
			assert.Equal(t, tt.wantStart, st.DraftStartLine)
			assert.Equal(t, tt.wantLit, litLines(handles))
		})
	}
}

func TestController_HideControl(t *testing.T) {
	c, handles := setup(t, 5)

	c.HideControl()
	_, ok := c.ControlLine()
	assert.False(t, ok, "hiding with nothing visible is a no-op")

	c.PointerEnter(LineTarget(2))
	require.True(t, handles[2].control)

	c.HideControl()
	assert.False(t, handles[2].control)
	_, ok = c.ControlLine()
	assert.False(t, ok)
}
