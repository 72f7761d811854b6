package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/threadline/internal/core/anchor"
	"github.com/hay-kot/threadline/internal/core/discussion"
)

func TestBuildThreadInfos(t *testing.T) {
	threads := []discussion.Thread{
		{
			ID: "t-1", StartLine: 2, EndLine: 3, Title: "first",
			Comments: []discussion.Comment{
				{ID: "c-1", ThreadID: "t-1", AuthorName: "alice", Kind: discussion.KindRoot, Body: "root\n"},
				{ID: "c-2", ThreadID: "t-1", AuthorName: "bob", Kind: discussion.KindReply, Body: "reply"},
			},
		},
		{
			ID: "t-2", StartLine: 6, EndLine: 6, Title: "second",
			Comments: []discussion.Comment{
				{ID: "c-3", ThreadID: "t-2", AuthorName: "alice", Kind: discussion.KindRoot, Body: "x"},
			},
		},
	}
	amap := anchor.Build(threads, 10, anchor.DefaultOptions())

	infos := buildThreadInfos(threads, amap, []string{"t-2"})
	require.Len(t, infos, 2)

	first := infos[0]
	assert.Equal(t, 0, first.Offset)
	assert.Equal(t, 2, first.EffectiveStart)
	assert.Equal(t, 3, first.EffectiveEnd)
	assert.False(t, first.Clamped)
	require.Len(t, first.Comments, 2)
	assert.Equal(t, "root", first.Comments[0].Body)
	assert.Equal(t, "t-1", first.Comments[1].ThreadID)

	second := infos[1]
	assert.Equal(t, 2, second.Offset, "root row plus one reply from the first thread")
	assert.Equal(t, 8, second.EffectiveStart)
	assert.Equal(t, 8, second.EffectiveEnd)
	assert.True(t, second.Clamped)
}

func TestLineRange(t *testing.T) {
	assert.Equal(t, "4", lineRange(4, 4))
	assert.Equal(t, "2-7", lineRange(2, 7))
}
