// Package discussion defines the shared types for line-anchored review
// threads: source lines, comments, threads, and the requests exchanged with
// the persistence boundary.
package discussion

import (
	"fmt"
	"sort"
	"time"
)

// Kind distinguishes the comment that opens a thread from its replies.
type Kind string

const (
	KindRoot  Kind = "root"
	KindReply Kind = "reply"
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	return k == KindRoot || k == KindReply
}

// SourceLine is one pre-rendered line of a file. Content is opaque to the
// engine and is only ever passed through to the renderer.
type SourceLine struct {
	Index   int // 1-indexed
	Content string
}

// Post is a review session. Its owner is the account whose comments are
// marked as the author's.
type Post struct {
	ID        string
	Owner     string
	CreatedAt time.Time
}

// Comment is a single entry in a thread.
type Comment struct {
	ID                   string // empty until confirmed by the store
	ThreadID             string
	AuthorName           string
	IsAuthorAccountOwner bool
	Body                 string
	Kind                 Kind
	CreatedAt            time.Time
}

// Confirmed returns true once the store has assigned the comment an ID.
func (c Comment) Confirmed() bool {
	return c.ID != ""
}

// Thread is a discussion anchored to the line range StartLine..EndLine.
// Comments[0] is the root comment.
type Thread struct {
	ID        string
	StartLine int // 1-indexed
	EndLine   int // Inclusive, the anchor line
	Title     string
	Snippet   string // Source text of the range at creation time
	Language  string
	Comments  []Comment
}

// Replies returns the number of comments after the root.
func (t Thread) Replies() int {
	return max(len(t.Comments)-1, 0)
}

// Root returns the root comment, or false if the thread has no comments.
func (t Thread) Root() (Comment, bool) {
	if len(t.Comments) == 0 {
		return Comment{}, false
	}
	return t.Comments[0], true
}

// Validate checks that 1 <= StartLine <= EndLine.
func (t Thread) Validate() error {
	if t.StartLine < 1 {
		return fmt.Errorf("thread %s: start line %d must be >= 1", t.ID, t.StartLine)
	}
	if t.StartLine > t.EndLine {
		return fmt.Errorf("thread %s: start line %d is after end line %d", t.ID, t.StartLine, t.EndLine)
	}
	return nil
}

// Clone returns a deep copy of the thread so callers can hand out snapshots
// without sharing the comment slice.
func (t Thread) Clone() Thread {
	out := t
	out.Comments = append([]Comment(nil), t.Comments...)
	return out
}

// ThreadMap holds at most one thread per anchor (end) line.
type ThreadMap map[int]Thread

// NewThreadMap indexes threads by end line. When two threads share an end
// line the later one in the input wins and the earlier one is returned in
// dropped.
func NewThreadMap(threads []Thread) (tm ThreadMap, dropped []Thread) {
	tm = make(ThreadMap, len(threads))
	for _, t := range threads {
		if prev, ok := tm[t.EndLine]; ok {
			dropped = append(dropped, prev)
		}
		tm[t.EndLine] = t.Clone()
	}
	return tm, dropped
}

// Sorted returns the threads ordered by end line.
func (tm ThreadMap) Sorted() []Thread {
	out := make([]Thread, 0, len(tm))
	for _, t := range tm {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EndLine < out[j].EndLine
	})
	return out
}

// SelectionState is the start-line picking state of an open editor.
// While Active, 1 <= DraftStartLine <= FixedEndLine.
type SelectionState struct {
	Active         bool
	FixedEndLine   int
	DraftStartLine int
}

// Span returns the selected range, or false when inactive.
func (s SelectionState) Span() (start, end int, ok bool) {
	if !s.Active {
		return 0, 0, false
	}
	return s.DraftStartLine, s.FixedEndLine, true
}

// SubmitRequest is the payload sent to a Submitter.
type SubmitRequest struct {
	PostID     string
	Path       string
	AnchorLine int
	StartLine  int    // New threads only
	Title      string // New threads only
	Body       string
	Kind       Kind
	ThreadID   string // Replies only
	Snippet    string
	Language   string
	Author     string
}

// DraftMode is the lifecycle state of a comment draft on one anchor line.
type DraftMode string

const (
	DraftClosed     DraftMode = "closed"
	DraftEditing    DraftMode = "editing"
	DraftSubmitting DraftMode = "submitting"
	DraftFailed     DraftMode = "failed"
)

// IsOpen returns true for every mode except closed.
func (m DraftMode) IsOpen() bool {
	return m == DraftEditing || m == DraftSubmitting || m == DraftFailed
}

// DraftState is the editor state for one anchor line. Thread is nil for a
// new-thread draft, in which case Title is required.
type DraftState struct {
	Mode      DraftMode
	Body      string
	Title     string
	Thread    *Thread
	StartLine int   // New threads only; equals the anchor line until changed
	Err       error // Last validation or submission error, cleared on edit
}

// IsReply returns true when the draft replies to an existing thread.
func (d DraftState) IsReply() bool {
	return d.Thread != nil
}
