package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries holds the typed statements used by the stores.
type Queries struct {
	db DBTX
}

// New returns Queries running against db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a copy of q bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Post is a row of the posts table.
type Post struct {
	ID        string
	Owner     string
	CreatedAt int64
}

// Thread is a row of the threads table.
type Thread struct {
	ID        string
	PostID    string
	Path      string
	StartLine int64
	EndLine   int64
	Title     string
	Snippet   string
	Language  string
	CreatedAt int64
}

// Comment is a row of the comments table.
type Comment struct {
	ID        string
	ThreadID  string
	Author    string
	Body      string
	Kind      string
	CreatedAt int64
}

const createPost = `INSERT OR IGNORE INTO posts (id, owner, created_at) VALUES (?, ?, ?)`

type CreatePostParams struct {
	ID        string
	Owner     string
	CreatedAt int64
}

// CreatePost inserts a post unless one with the same ID exists.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) error {
	_, err := q.db.ExecContext(ctx, createPost, arg.ID, arg.Owner, arg.CreatedAt)
	return err
}

const getPost = `SELECT id, owner, created_at FROM posts WHERE id = ?`

func (q *Queries) GetPost(ctx context.Context, id string) (Post, error) {
	var p Post
	err := q.db.QueryRowContext(ctx, getPost, id).Scan(&p.ID, &p.Owner, &p.CreatedAt)
	return p, err
}

const getPostOwner = `SELECT owner FROM posts WHERE id = ?`

func (q *Queries) GetPostOwner(ctx context.Context, id string) (string, error) {
	var owner string
	err := q.db.QueryRowContext(ctx, getPostOwner, id).Scan(&owner)
	return owner, err
}

const listPaths = `
SELECT path, COUNT(*) AS threads
FROM threads
WHERE post_id = ?
GROUP BY path
ORDER BY path`

type ListPathsRow struct {
	Path    string
	Threads int64
}

// ListPaths counts the threads of every file in a post.
func (q *Queries) ListPaths(ctx context.Context, postID string) ([]ListPathsRow, error) {
	rows, err := q.db.QueryContext(ctx, listPaths, postID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []ListPathsRow
	for rows.Next() {
		var i ListPathsRow
		if err := rows.Scan(&i.Path, &i.Threads); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listThreadsByPath = `
SELECT id, post_id, path, start_line, end_line, title, snippet, language, created_at
FROM threads
WHERE post_id = ? AND path = ?
ORDER BY end_line, start_line, id`

type ListThreadsByPathParams struct {
	PostID string
	Path   string
}

func (q *Queries) ListThreadsByPath(ctx context.Context, arg ListThreadsByPathParams) ([]Thread, error) {
	rows, err := q.db.QueryContext(ctx, listThreadsByPath, arg.PostID, arg.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Thread
	for rows.Next() {
		var i Thread
		if err := rows.Scan(
			&i.ID, &i.PostID, &i.Path, &i.StartLine, &i.EndLine,
			&i.Title, &i.Snippet, &i.Language, &i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listCommentsByPath = `
SELECT c.id, c.thread_id, c.author, c.body, c.kind, c.created_at
FROM comments c
JOIN threads t ON t.id = c.thread_id
WHERE t.post_id = ? AND t.path = ?
ORDER BY c.thread_id, CASE c.kind WHEN 'root' THEN 0 ELSE 1 END, c.created_at, c.id`

type ListCommentsByPathParams struct {
	PostID string
	Path   string
}

// ListCommentsByPath returns the comments of every thread on a file, grouped
// by thread with the root first.
func (q *Queries) ListCommentsByPath(ctx context.Context, arg ListCommentsByPathParams) ([]Comment, error) {
	rows, err := q.db.QueryContext(ctx, listCommentsByPath, arg.PostID, arg.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Comment
	for rows.Next() {
		var i Comment
		if err := rows.Scan(&i.ID, &i.ThreadID, &i.Author, &i.Body, &i.Kind, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getThreadPostID = `SELECT post_id FROM threads WHERE id = ?`

func (q *Queries) GetThreadPostID(ctx context.Context, id string) (string, error) {
	var postID string
	err := q.db.QueryRowContext(ctx, getThreadPostID, id).Scan(&postID)
	return postID, err
}

const createThread = `
INSERT INTO threads (id, post_id, path, start_line, end_line, title, snippet, language, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

type CreateThreadParams struct {
	ID        string
	PostID    string
	Path      string
	StartLine int64
	EndLine   int64
	Title     string
	Snippet   string
	Language  string
	CreatedAt int64
}

func (q *Queries) CreateThread(ctx context.Context, arg CreateThreadParams) error {
	_, err := q.db.ExecContext(ctx, createThread,
		arg.ID, arg.PostID, arg.Path, arg.StartLine, arg.EndLine,
		arg.Title, arg.Snippet, arg.Language, arg.CreatedAt,
	)
	return err
}

const createComment = `
INSERT INTO comments (id, thread_id, author, body, kind, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

type CreateCommentParams struct {
	ID        string
	ThreadID  string
	Author    string
	Body      string
	Kind      string
	CreatedAt int64
}

func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) error {
	_, err := q.db.ExecContext(ctx, createComment,
		arg.ID, arg.ThreadID, arg.Author, arg.Body, arg.Kind, arg.CreatedAt,
	)
	return err
}

const deleteThread = `DELETE FROM threads WHERE id = ?`

// DeleteThread removes a thread. Comments go with it through the foreign
// key cascade. It returns the number of rows deleted.
func (q *Queries) DeleteThread(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteThread, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
