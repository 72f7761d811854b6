package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommentCmd_NeedsForm(t *testing.T) {
	tests := []struct {
		name string
		cmd  CommentCmd
		want bool
	}{
		{name: "complete thread", cmd: CommentCmd{line: 3, title: "t", body: "b"}, want: false},
		{name: "complete reply", cmd: CommentCmd{replyTo: "t-1", body: "b"}, want: false},
		{name: "missing body", cmd: CommentCmd{line: 3, title: "t"}, want: true},
		{name: "missing title", cmd: CommentCmd{line: 3, body: "b"}, want: true},
		{name: "missing line", cmd: CommentCmd{title: "t", body: "b"}, want: true},
		{name: "reply ignores line and title", cmd: CommentCmd{replyTo: "t-1", body: "b"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmd.needsForm())
		})
	}
}

func TestValidateLine(t *testing.T) {
	assert.NoError(t, validateLine("12"))
	assert.NoError(t, validateLine(" 3 "))
	assert.Error(t, validateLine("0"))
	assert.Error(t, validateLine("abc"))
	assert.Error(t, validateRequired("title")("  "))
}
