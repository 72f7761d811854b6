package stores

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hay-kot/threadline/internal/core/discussion"
	"github.com/hay-kot/threadline/internal/data/db"
)

// DiscussionStore implements discussion.Source and discussion.Submitter
// using SQLite.
type DiscussionStore struct {
	db  *db.DB
	now func() time.Time
}

var (
	_ discussion.Source    = (*DiscussionStore)(nil)
	_ discussion.Submitter = (*DiscussionStore)(nil)
)

// NewDiscussionStore creates a new SQLite-backed discussion store.
func NewDiscussionStore(db *db.DB) *DiscussionStore {
	return &DiscussionStore{db: db, now: time.Now}
}

// PathSummary is the number of threads on one file of a post.
type PathSummary struct {
	Path    string `json:"path"`
	Threads int    `json:"threads"`
}

// EnsurePost returns the post with the given ID, creating it with owner if it
// does not exist. An existing post keeps its original owner.
func (s *DiscussionStore) EnsurePost(ctx context.Context, postID, owner string) (discussion.Post, error) {
	err := s.db.Queries().CreatePost(ctx, db.CreatePostParams{
		ID:        postID,
		Owner:     owner,
		CreatedAt: s.now().UnixNano(),
	})
	if err != nil {
		return discussion.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	return s.GetPost(ctx, postID)
}

// GetPost returns a post by ID. Returns ErrPostNotFound if not found.
func (s *DiscussionStore) GetPost(ctx context.Context, postID string) (discussion.Post, error) {
	row, err := s.db.Queries().GetPost(ctx, postID)
	if IsNotFoundError(err) {
		return discussion.Post{}, discussion.ErrPostNotFound
	}
	if err != nil {
		return discussion.Post{}, fmt.Errorf("failed to get post: %w", err)
	}

	return discussion.Post{
		ID:        row.ID,
		Owner:     row.Owner,
		CreatedAt: time.Unix(0, row.CreatedAt),
	}, nil
}

// ListPaths returns the files of a post that have threads, ordered by path.
func (s *DiscussionStore) ListPaths(ctx context.Context, postID string) ([]PathSummary, error) {
	rows, err := s.db.Queries().ListPaths(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list paths: %w", err)
	}

	out := make([]PathSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, PathSummary{Path: r.Path, Threads: int(r.Threads)})
	}
	return out, nil
}

// ListThreads returns the threads of one file ordered by end line, each with
// its comments root first and then by creation time.
func (s *DiscussionStore) ListThreads(ctx context.Context, postID, path string) ([]discussion.Thread, error) {
	q := s.db.Queries()

	owner, err := s.owner(ctx, q, postID)
	if err != nil {
		return nil, err
	}

	trows, err := q.ListThreadsByPath(ctx, db.ListThreadsByPathParams{PostID: postID, Path: path})
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}

	threads := make([]discussion.Thread, 0, len(trows))
	index := make(map[string]int, len(trows))
	for _, r := range trows {
		index[r.ID] = len(threads)
		threads = append(threads, threadFromRow(r))
	}
	if len(threads) == 0 {
		return threads, nil
	}

	crows, err := q.ListCommentsByPath(ctx, db.ListCommentsByPathParams{PostID: postID, Path: path})
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	for _, r := range crows {
		i, ok := index[r.ThreadID]
		if !ok {
			continue
		}
		threads[i].Comments = append(threads[i].Comments, commentFromRow(r, owner))
	}

	return threads, nil
}

// Submit persists a root comment with its new thread, or a reply to an
// existing thread. A root comment on a line that already anchors a thread
// returns ErrAnchorOccupied.
func (s *DiscussionStore) Submit(ctx context.Context, req discussion.SubmitRequest) (discussion.Comment, error) {
	if err := validateRequest(req); err != nil {
		return discussion.Comment{}, err
	}

	now := s.now()
	c := discussion.Comment{
		ID:         uuid.NewString(),
		AuthorName: req.Author,
		Body:       req.Body,
		Kind:       req.Kind,
		CreatedAt:  now,
	}

	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		owner, err := s.owner(ctx, q, req.PostID)
		if err != nil {
			return err
		}
		c.IsAuthorAccountOwner = owner == req.Author

		switch req.Kind {
		case discussion.KindRoot:
			c.ThreadID = uuid.NewString()
			err := q.CreateThread(ctx, db.CreateThreadParams{
				ID:        c.ThreadID,
				PostID:    req.PostID,
				Path:      req.Path,
				StartLine: int64(req.StartLine),
				EndLine:   int64(req.AnchorLine),
				Title:     req.Title,
				Snippet:   req.Snippet,
				Language:  req.Language,
				CreatedAt: now.UnixNano(),
			})
			if IsUniqueViolation(err) {
				return discussion.ErrAnchorOccupied
			}
			if err != nil {
				return fmt.Errorf("failed to create thread: %w", err)
			}
		case discussion.KindReply:
			postID, err := q.GetThreadPostID(ctx, req.ThreadID)
			if IsNotFoundError(err) || (err == nil && postID != req.PostID) {
				return discussion.ErrThreadNotFound
			}
			if err != nil {
				return fmt.Errorf("failed to get thread: %w", err)
			}
			c.ThreadID = req.ThreadID
		}

		err = q.CreateComment(ctx, db.CreateCommentParams{
			ID:        c.ID,
			ThreadID:  c.ThreadID,
			Author:    c.AuthorName,
			Body:      c.Body,
			Kind:      string(c.Kind),
			CreatedAt: now.UnixNano(),
		})
		if err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return discussion.Comment{}, err
	}

	return c, nil
}

// DeleteThread removes a thread and its comments.
func (s *DiscussionStore) DeleteThread(ctx context.Context, threadID string) error {
	n, err := s.db.Queries().DeleteThread(ctx, threadID)
	if err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	if n == 0 {
		return discussion.ErrThreadNotFound
	}
	return nil
}

func validateRequest(req discussion.SubmitRequest) error {
	if strings.TrimSpace(req.Body) == "" {
		return &discussion.ValidationError{Field: "body"}
	}

	switch req.Kind {
	case discussion.KindRoot:
		if strings.TrimSpace(req.Title) == "" {
			return &discussion.ValidationError{Field: "title"}
		}
		if req.StartLine < 1 || req.StartLine > req.AnchorLine {
			return fmt.Errorf("invalid line range %d-%d", req.StartLine, req.AnchorLine)
		}
	case discussion.KindReply:
		if req.ThreadID == "" {
			return &discussion.ValidationError{Field: "thread_id"}
		}
	default:
		return fmt.Errorf("unknown comment kind %q", req.Kind)
	}
	return nil
}

func (s *DiscussionStore) owner(ctx context.Context, q *db.Queries, postID string) (string, error) {
	owner, err := q.GetPostOwner(ctx, postID)
	if IsNotFoundError(err) {
		return "", discussion.ErrPostNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get post owner: %w", err)
	}
	return owner, nil
}

func threadFromRow(r db.Thread) discussion.Thread {
	return discussion.Thread{
		ID:        r.ID,
		StartLine: int(r.StartLine),
		EndLine:   int(r.EndLine),
		Title:     r.Title,
		Snippet:   r.Snippet,
		Language:  r.Language,
	}
}

func commentFromRow(r db.Comment, owner string) discussion.Comment {
	return discussion.Comment{
		ID:                   r.ID,
		ThreadID:             r.ThreadID,
		AuthorName:           r.Author,
		Body:                 r.Body,
		Kind:                 discussion.Kind(r.Kind),
		CreatedAt:            time.Unix(0, r.CreatedAt),
		IsAuthorAccountOwner: r.Author == owner,
	}
}
