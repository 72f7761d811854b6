package threadline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/threadline/internal/core/config"
	"github.com/hay-kot/threadline/internal/core/discussion"
	"github.com/hay-kot/threadline/internal/core/highlight"
	"github.com/hay-kot/threadline/internal/data/db"
	"github.com/hay-kot/threadline/internal/data/stores"
)

const sample = `package main

func main() {
	println("hi")
}
`

func newTestService(t *testing.T) (*DiscussionService, string) {
	t.Helper()

	dir := t.TempDir()
	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err, "Open")
	t.Cleanup(func() { _ = database.Close() })

	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.PostID = "pr-7"
	cfg.Author = "alice"

	svc := NewDiscussionService(
		stores.NewDiscussionStore(database),
		highlight.New(highlight.PlainTheme, nil),
		&cfg,
		zerolog.Nop(),
	)
	_, err = svc.EnsurePost(context.Background())
	require.NoError(t, err, "EnsurePost")

	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	return svc, path
}

func TestDiscussionService_Open(t *testing.T) {
	svc, path := newTestService(t)

	f, err := svc.Open(context.Background(), path, "")
	require.NoError(t, err)

	assert.Equal(t, "go", f.Language)
	require.Len(t, f.Lines, 5)
	assert.Equal(t, 1, f.Lines[0].Index)
	assert.Equal(t, "package main", f.Lines[0].Content)
	assert.Empty(t, f.Threads)
	assert.Equal(t, "func main() {", f.Snippet()(3, 3))
}

func TestDiscussionService_Open_MissingFile(t *testing.T) {
	svc, path := newTestService(t)

	_, err := svc.Open(context.Background(), path+".missing", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscussionService_CommentAndReply(t *testing.T) {
	ctx := context.Background()
	svc, path := newTestService(t)

	root, err := svc.Comment(ctx, CommentInput{
		Path:      path,
		Line:      5,
		StartLine: 3,
		Title:     "Entry point",
		Body:      "Consider flags here",
	})
	require.NoError(t, err)
	assert.True(t, root.Confirmed())
	assert.Equal(t, discussion.KindRoot, root.Kind)
	assert.True(t, root.IsAuthorAccountOwner)

	reply, err := svc.Comment(ctx, CommentInput{
		Path:    path,
		ReplyTo: root.ThreadID,
		Body:    "Agreed",
	})
	require.NoError(t, err)
	assert.Equal(t, root.ThreadID, reply.ThreadID)
	assert.Equal(t, discussion.KindReply, reply.Kind)

	f, amap, err := svc.Anchors(ctx, path)
	require.NoError(t, err)
	require.Len(t, f.Threads, 1)

	thread := f.Threads[0]
	assert.Equal(t, 3, thread.StartLine)
	assert.Equal(t, 5, thread.EndLine)
	assert.Equal(t, "Entry point", thread.Title)
	assert.Equal(t, "func main() {\n\tprintln(\"hi\")\n}", thread.Snippet)
	assert.Len(t, thread.Comments, 2)

	span, ok := amap.SpanFor(root.ThreadID)
	require.True(t, ok)
	assert.Equal(t, 0, span.Offset)
	assert.Equal(t, 2, span.Rows)
	assert.Len(t, amap.Buckets[5], 2)

	paths, err := svc.Paths(ctx)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, 1, paths[0].Threads)
}

func TestDiscussionService_CommentErrors(t *testing.T) {
	ctx := context.Background()
	svc, path := newTestService(t)

	tests := []struct {
		name  string
		input CommentInput
		check func(t *testing.T, err error)
	}{
		{
			name:  "line outside file",
			input: CommentInput{Path: path, Line: 9, Title: "t", Body: "b"},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "outside")
			},
		},
		{
			name:  "missing title",
			input: CommentInput{Path: path, Line: 2, Body: "b"},
			check: func(t *testing.T, err error) {
				assert.True(t, IsValidationError(err))
			},
		},
		{
			name:  "missing body",
			input: CommentInput{Path: path, Line: 2, Title: "t"},
			check: func(t *testing.T, err error) {
				assert.True(t, IsValidationError(err))
			},
		},
		{
			name:  "unknown thread",
			input: CommentInput{Path: path, ReplyTo: "nope", Body: "b"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, discussion.ErrThreadNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Comment(ctx, tt.input)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestDiscussionService_CommentOnOccupiedLine(t *testing.T) {
	ctx := context.Background()
	svc, path := newTestService(t)

	_, err := svc.Comment(ctx, CommentInput{Path: path, Line: 2, Title: "one", Body: "b"})
	require.NoError(t, err)

	_, err = svc.Comment(ctx, CommentInput{Path: path, Line: 2, Title: "two", Body: "b"})
	assert.ErrorIs(t, err, discussion.ErrAnchorOccupied)
}

func TestDiscussionService_StaleThreadsAfterShrink(t *testing.T) {
	ctx := context.Background()
	svc, path := newTestService(t)

	long := strings.Repeat("// line\n", 20)
	require.NoError(t, os.WriteFile(path, []byte(long), 0o644))

	a, err := svc.Comment(ctx, CommentInput{Path: path, Line: 15, Title: "a", Body: "first"})
	require.NoError(t, err)
	b, err := svc.Comment(ctx, CommentInput{Path: path, Line: 18, Title: "b", Body: "second"})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("// line\n", 10)), 0o644))

	f, amap, err := svc.Anchors(ctx, path)
	require.NoError(t, err)
	require.Len(t, f.Threads, 2, "both stale threads survive")
	assert.ElementsMatch(t, []string{a.ThreadID, b.ThreadID}, f.Clamped)
	assert.Equal(t, []string{a.ThreadID, b.ThreadID}, amap.ThreadsAt(10))
	assert.Len(t, amap.Buckets[10], 2)

	tests := []struct {
		name   string
		thread string
	}{
		{name: "first stale thread", thread: a.ThreadID},
		{name: "second stale thread", thread: b.ThreadID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := svc.Comment(ctx, CommentInput{Path: path, ReplyTo: tt.thread, Body: "still here"})
			require.NoError(t, err)
			assert.Equal(t, tt.thread, reply.ThreadID)
		})
	}
}

func TestNormalizePath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "relative", in: "a/./b.go", want: "a/b.go"},
		{name: "absolute inside wd", in: filepath.Join(wd, "x", "y.go"), want: "x/y.go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.in))
		})
	}
}
