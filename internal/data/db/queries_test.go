package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedThread(t *testing.T, q *Queries, id, path string, start, end int64) {
	t.Helper()
	require.NoError(t, q.CreateThread(context.Background(), CreateThreadParams{
		ID:        id,
		PostID:    "p",
		Path:      path,
		StartLine: start,
		EndLine:   end,
		Title:     id,
		CreatedAt: end,
	}))
}

func TestQueries_PostRoundTrip(t *testing.T) {
	ctx := context.Background()
	q := openTestDB(t).Queries()

	require.NoError(t, q.CreatePost(ctx, CreatePostParams{ID: "p", Owner: "ada", CreatedAt: 7}))
	require.NoError(t, q.CreatePost(ctx, CreatePostParams{ID: "p", Owner: "bob", CreatedAt: 9}), "insert is idempotent")

	post, err := q.GetPost(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, Post{ID: "p", Owner: "ada", CreatedAt: 7}, post)

	owner, err := q.GetPostOwner(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "ada", owner)

	_, err = q.GetPost(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestQueries_ThreadsAndComments(t *testing.T) {
	ctx := context.Background()
	q := openTestDB(t).Queries()
	require.NoError(t, q.CreatePost(ctx, CreatePostParams{ID: "p", Owner: "ada", CreatedAt: 1}))

	seedThread(t, q, "late", "a.go", 9, 12)
	seedThread(t, q, "early", "a.go", 1, 3)
	seedThread(t, q, "other", "b.go", 2, 2)

	comments := []CreateCommentParams{
		{ID: "r2", ThreadID: "early", Author: "bob", Body: "second reply", Kind: "reply", CreatedAt: 30},
		{ID: "root", ThreadID: "early", Author: "ada", Body: "root", Kind: "root", CreatedAt: 40},
		{ID: "r1", ThreadID: "early", Author: "bob", Body: "first reply", Kind: "reply", CreatedAt: 20},
	}
	for _, c := range comments {
		require.NoError(t, q.CreateComment(ctx, c))
	}

	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "threads ordered by end line",
			run: func(t *testing.T) {
				threads, err := q.ListThreadsByPath(ctx, ListThreadsByPathParams{PostID: "p", Path: "a.go"})
				require.NoError(t, err)
				require.Len(t, threads, 2)
				assert.Equal(t, "early", threads[0].ID)
				assert.Equal(t, "late", threads[1].ID)
				assert.Equal(t, int64(12), threads[1].EndLine)
			},
		},
		{
			name: "root first then by time",
			run: func(t *testing.T) {
				got, err := q.ListCommentsByPath(ctx, ListCommentsByPathParams{PostID: "p", Path: "a.go"})
				require.NoError(t, err)
				ids := make([]string, 0, len(got))
				for _, c := range got {
					ids = append(ids, c.ID)
				}
				assert.Equal(t, []string{"root", "r1", "r2"}, ids)
			},
		},
		{
			name: "paths counted",
			run: func(t *testing.T) {
				paths, err := q.ListPaths(ctx, "p")
				require.NoError(t, err)
				assert.Equal(t, []ListPathsRow{{Path: "a.go", Threads: 2}, {Path: "b.go", Threads: 1}}, paths)
			},
		},
		{
			name: "thread post lookup",
			run: func(t *testing.T) {
				postID, err := q.GetThreadPostID(ctx, "other")
				require.NoError(t, err)
				assert.Equal(t, "p", postID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.run)
	}
}

func TestQueries_DeleteThreadCascades(t *testing.T) {
	ctx := context.Background()
	q := openTestDB(t).Queries()
	require.NoError(t, q.CreatePost(ctx, CreatePostParams{ID: "p", Owner: "ada", CreatedAt: 1}))
	seedThread(t, q, "t", "a.go", 1, 1)
	require.NoError(t, q.CreateComment(ctx, CreateCommentParams{ID: "c", ThreadID: "t", Author: "ada", Body: "x", Kind: "root", CreatedAt: 2}))

	n, err := q.DeleteThread(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	comments, err := q.ListCommentsByPath(ctx, ListCommentsByPathParams{PostID: "p", Path: "a.go"})
	require.NoError(t, err)
	assert.Empty(t, comments)

	n, err = q.DeleteThread(ctx, "t")
	require.NoError(t, err)
	assert.Zero(t, n)
}
