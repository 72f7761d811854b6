package discussion

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for discussion operations.
var (
	ErrThreadNotFound = errors.New("thread not found")
	ErrPostNotFound   = errors.New("post not found")
	ErrAnchorOccupied = errors.New("line already anchors a thread")
	ErrNoOpenDraft    = errors.New("no open draft")
	ErrSubmitting     = errors.New("draft is already submitting")
)

// Source loads the threads of one file within a post.
type Source interface {
	// ListThreads returns threads for the file ordered by end line, each
	// with its comments in creation order (root first).
	ListThreads(ctx context.Context, postID, path string) ([]Thread, error)
}

// Submitter persists a new root comment or reply. The returned comment
// carries the store-assigned ID, thread ID, author and timestamp.
type Submitter interface {
	Submit(ctx context.Context, req SubmitRequest) (Comment, error)
}

// ValidationError reports an empty required field detected before any call
// to a Submitter.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// SubmissionError wraps a failed Submitter call for the draft at Line.
type SubmissionError struct {
	Line int
	Err  error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit comment on line %d: %v", e.Line, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
