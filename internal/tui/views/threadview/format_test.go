package threadview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyFormat(t *testing.T) {
	tests := []struct {
		name       string
		cmd        formatCommand
		text       string
		pos        int
		want       string
		wantCursor int
	}{
		{name: "bold on empty body", cmd: fmtBold, text: "", pos: 0, want: "****", wantCursor: 2},
		{name: "bold at end", cmd: fmtBold, text: "hello", pos: 5, want: "hello****", wantCursor: 7},
		{name: "bullet at end opens paragraph", cmd: fmtBullet, text: "hello", pos: 5, want: "hello\n\n- ", wantCursor: 9},
		{name: "numbered on empty body", cmd: fmtNumbered, text: "", pos: 0, want: "1. ", wantCursor: 3},
		{name: "task on empty body", cmd: fmtTask, text: "", pos: 0, want: "- [ ] ", wantCursor: 6},
		{name: "bold wraps word", cmd: fmtBold, text: "fix this bug", pos: 5, want: "fix **this** bug", wantCursor: 7},
		{name: "italic wraps word", cmd: fmtItalic, text: "fix this bug", pos: 5, want: "fix _this_ bug", wantCursor: 6},
		{name: "code wraps word before cursor", cmd: fmtCode, text: "call nil now", pos: 8, want: "call `nil` now", wantCursor: 9},
		{name: "link puts cursor on url", cmd: fmtLink, text: "see docs now", pos: 5, want: "see [docs](url) now", wantCursor: 11},
		{name: "header at start", cmd: fmtHeader, text: "title here", pos: 0, want: "### title here", wantCursor: 4},
		{name: "quote splits paragraph", cmd: fmtQuote, text: "a b", pos: 2, want: "a \n\n> b", wantCursor: 6},
		{name: "quote after newline", cmd: fmtQuote, text: "x\nword more", pos: 3, want: "x\n\n> word\n\n more", wantCursor: 6},
		{name: "cursor past end is clamped", cmd: fmtBold, text: "ab", pos: 9, want: "ab****", wantCursor: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cursor := applyFormat(tt.cmd, []rune(tt.text), tt.pos)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.wantCursor, cursor)
		})
	}
}
