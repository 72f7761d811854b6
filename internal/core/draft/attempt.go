package draft

import (
	"context"

	"github.com/hay-kot/threadline/internal/core/discussion"
)

// Outcome is what Resolve did with a submission result.
type Outcome int

const (
	OutcomeCommitted Outcome = iota
	OutcomeFailed
	OutcomeDiscarded
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeFailed:
		return "failed"
	case OutcomeDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Attempt is one submission issued by Submit. The generation ties its
// result back to the draft that produced it; a result whose generation no
// longer matches is stale.
type Attempt struct {
	Line       int
	Generation uint64
	Request    discussion.SubmitRequest
}

// Result is the completion of an Attempt.
type Result struct {
	Line       int
	Generation uint64
	Request    discussion.SubmitRequest
	Comment    discussion.Comment
	Err        error
}

// Run performs the submission. It blocks until the submitter returns.
func (a Attempt) Run(ctx context.Context, s discussion.Submitter) Result {
	c, err := s.Submit(ctx, a.Request)
	return Result{
		Line:       a.Line,
		Generation: a.Generation,
		Request:    a.Request,
		Comment:    c,
		Err:        err,
	}
}

// Dispatch runs the attempt on its own goroutine. The returned channel
// receives exactly one result and is then closed.
func Dispatch(ctx context.Context, s discussion.Submitter, a Attempt) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ch <- a.Run(ctx, s)
	}()
	return ch
}
