// Package draft owns the thread map of one file and the comment drafts
// attached to its lines. It turns editor input into submission attempts and
// folds their results back into local state.
//
// Each anchor line moves through
//
//	closed -> editing -> submitting -> closed (committed)
//	                         |
//	                         +-> failed (editable, text kept)
//
// and at most one line is open at a time. A submission result is applied
// only if its line is still submitting the same attempt; anything else is
// dropped silently.
package draft

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hay-kot/threadline/internal/core/discussion"
)

// SnippetFunc returns the source text of lines start..end inclusive.
type SnippetFunc func(start, end int) string

// Config identifies the file the reconciler serves.
type Config struct {
	PostID   string
	Path     string
	Author   string
	Language string
	Snippet  SnippetFunc
	Scroll   ScrollSource
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger for debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Reconciler) { r.logger = l }
}

type entry struct {
	state discussion.DraftState
	gen   uint64
}

// Reconciler is not safe for concurrent use. Drive it from one event loop
// and deliver submission results back to that loop.
type Reconciler struct {
	cfg     Config
	threads discussion.ThreadMap
	drafts  map[int]*entry
	open    int // 0 when no line is open
	gen     uint64
	stab    Stabilizer
	logger  zerolog.Logger
}

// New creates a reconciler seeded with threads.
func New(cfg Config, threads []discussion.Thread, opts ...Option) *Reconciler {
	r := &Reconciler{
		cfg:    cfg,
		drafts: make(map[int]*entry),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Reload(threads)
	return r
}

// Reload replaces the thread map. Open drafts are kept. Threads are keyed
// by their stored end line, so pass them unclamped: two stale threads that
// clamp onto the same display line stay distinct.
func (r *Reconciler) Reload(threads []discussion.Thread) {
	tm, dropped := discussion.NewThreadMap(threads)
	for _, t := range dropped {
		r.logger.Debug().
			Str("thread_id", t.ID).
			Int("end_line", t.EndLine).
			Msg("duplicate anchor line, keeping later thread")
	}
	r.threads = tm
}

// Threads returns a snapshot of the thread map ordered by end line.
func (r *Reconciler) Threads() []discussion.Thread {
	return r.threads.Sorted()
}

// Thread returns the thread anchored at line.
func (r *Reconciler) Thread(line int) (discussion.Thread, bool) {
	t, ok := r.threads[line]
	if !ok {
		return discussion.Thread{}, false
	}
	return t.Clone(), true
}

// ThreadByID returns the thread with the given ID.
func (r *Reconciler) ThreadByID(id string) (discussion.Thread, bool) {
	for _, t := range r.threads {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return discussion.Thread{}, false
}

// Stabilizer returns the scroll stabilizer armed on commit.
func (r *Reconciler) Stabilizer() *Stabilizer {
	return &r.stab
}

// OpenLine returns the line with an open draft.
func (r *Reconciler) OpenLine() (int, bool) {
	return r.open, r.open != 0
}

// Draft returns the draft state for line. Lines without a draft report
// closed.
func (r *Reconciler) Draft(line int) discussion.DraftState {
	e, ok := r.drafts[line]
	if !ok {
		return discussion.DraftState{Mode: discussion.DraftClosed}
	}
	return snapshot(e.state)
}

// Drafts returns every open draft keyed by anchor line.
func (r *Reconciler) Drafts() map[int]discussion.DraftState {
	out := make(map[int]discussion.DraftState, len(r.drafts))
	for line, e := range r.drafts {
		if e.state.Mode.IsOpen() {
			out[line] = snapshot(e.state)
		}
	}
	return out
}

// Open starts a draft on line. A nil thread starts a new thread, which is
// refused when line already anchors one. Any other open line is closed and
// its input discarded. Reopening the open line keeps its draft.
func (r *Reconciler) Open(line int, thread *discussion.Thread) error {
	if line < 1 {
		return fmt.Errorf("invalid anchor line %d", line)
	}
	if thread == nil {
		if _, ok := r.threads[line]; ok {
			return discussion.ErrAnchorOccupied
		}
	}

	if r.open == line {
		if e := r.drafts[line]; e != nil && e.state.IsReply() == (thread != nil) {
			return nil
		}
	}
	if r.open != 0 {
		r.Close(r.open)
	}

	st := discussion.DraftState{
		Mode:      discussion.DraftEditing,
		StartLine: line,
	}
	if thread != nil {
		t := thread.Clone()
		st.Thread = &t
		st.StartLine = t.StartLine
	}

	r.drafts[line] = &entry{state: st}
	r.open = line

	r.logger.Debug().Int("line", line).Bool("reply", thread != nil).Msg("draft opened")
	return nil
}

// Close discards the draft on line. An in-flight submission for it is not
// cancelled; its result is dropped when it arrives.
func (r *Reconciler) Close(line int) {
	if _, ok := r.drafts[line]; !ok {
		return
	}
	delete(r.drafts, line)
	if r.open == line {
		r.open = 0
	}
	r.logger.Debug().Int("line", line).Msg("draft closed")
}

// SetBody replaces the body of the open draft.
func (r *Reconciler) SetBody(body string) error {
	e, err := r.editable()
	if err != nil {
		return err
	}
	e.state.Body = body
	return nil
}

// SetTitle replaces the title of the open new-thread draft. It is a no-op
// for replies.
func (r *Reconciler) SetTitle(title string) error {
	e, err := r.editable()
	if err != nil {
		return err
	}
	if !e.state.IsReply() {
		e.state.Title = title
	}
	return nil
}

// SetStartLine moves the start of the open new-thread draft, clamped to
// 1..anchor. It is a no-op for replies.
func (r *Reconciler) SetStartLine(n int) error {
	e, err := r.editable()
	if err != nil {
		return err
	}
	if !e.state.IsReply() {
		e.state.StartLine = min(max(n, 1), r.open)
	}
	return nil
}

// editable returns the open draft for modification. Editing a failed draft
// returns it to editing and clears the error.
func (r *Reconciler) editable() (*entry, error) {
	e := r.drafts[r.open]
	if r.open == 0 || e == nil {
		return nil, discussion.ErrNoOpenDraft
	}
	if e.state.Mode == discussion.DraftSubmitting {
		return nil, discussion.ErrSubmitting
	}
	e.state.Mode = discussion.DraftEditing
	e.state.Err = nil
	return e, nil
}

// Submit validates the open draft and moves it to submitting. The returned
// Attempt must be run by the host and its result passed to Resolve. A
// validation failure leaves the draft editing and is returned as a
// *discussion.ValidationError.
func (r *Reconciler) Submit() (Attempt, error) {
	line := r.open
	e := r.drafts[line]
	if line == 0 || e == nil {
		return Attempt{}, discussion.ErrNoOpenDraft
	}
	if e.state.Mode == discussion.DraftSubmitting {
		return Attempt{}, discussion.ErrSubmitting
	}

	if err := validate(e.state); err != nil {
		e.state.Mode = discussion.DraftEditing
		e.state.Err = err
		return Attempt{}, err
	}

	r.gen++
	e.gen = r.gen
	e.state.Mode = discussion.DraftSubmitting
	e.state.Err = nil

	a := Attempt{
		Line:       line,
		Generation: e.gen,
		Request:    r.request(line, e.state),
	}

	r.logger.Debug().
		Int("line", line).
		Uint64("generation", a.Generation).
		Str("kind", string(a.Request.Kind)).
		Msg("submission issued")

	return a, nil
}

func validate(st discussion.DraftState) error {
	if !st.IsReply() && strings.TrimSpace(st.Title) == "" {
		return &discussion.ValidationError{Field: "title"}
	}
	if strings.TrimSpace(st.Body) == "" {
		return &discussion.ValidationError{Field: "body"}
	}
	return nil
}

func (r *Reconciler) request(line int, st discussion.DraftState) discussion.SubmitRequest {
	req := discussion.SubmitRequest{
		PostID:     r.cfg.PostID,
		Path:       r.cfg.Path,
		AnchorLine: line,
		Body:       strings.TrimSpace(st.Body),
		Author:     r.cfg.Author,
	}

	if st.IsReply() {
		req.Kind = discussion.KindReply
		req.ThreadID = st.Thread.ID
		req.StartLine = st.Thread.StartLine
		req.AnchorLine = st.Thread.EndLine
		return req
	}

	req.Kind = discussion.KindRoot
	req.StartLine = st.StartLine
	req.Title = strings.TrimSpace(st.Title)
	req.Language = r.cfg.Language
	if r.cfg.Snippet != nil {
		req.Snippet = r.cfg.Snippet(st.StartLine, line)
	}
	return req
}

// Resolve applies a submission result. Results for a line that is no longer
// submitting that attempt are discarded without touching state. A failure
// keeps the draft text and returns a *discussion.SubmissionError.
func (r *Reconciler) Resolve(res Result) (Outcome, error) {
	e := r.drafts[res.Line]
	if r.open != res.Line || e == nil ||
		e.state.Mode != discussion.DraftSubmitting || e.gen != res.Generation {
		r.logger.Debug().
			Int("line", res.Line).
			Uint64("generation", res.Generation).
			Msg("stale submission result discarded")
		return OutcomeDiscarded, nil
	}

	if res.Err != nil {
		err := &discussion.SubmissionError{Line: res.Line, Err: res.Err}
		e.state.Mode = discussion.DraftFailed
		e.state.Err = err
		r.logger.Debug().Err(res.Err).Int("line", res.Line).Msg("submission failed")
		return OutcomeFailed, err
	}

	if r.cfg.Scroll != nil {
		r.stab.Arm(r.cfg.Scroll.ScrollOffset())
	}

	r.commit(res.Line, e.state, res)
	r.Close(res.Line)

	r.logger.Debug().Int("line", res.Line).Str("comment_id", res.Comment.ID).Msg("submission committed")
	return OutcomeCommitted, nil
}

// commit appends the confirmed comment to its thread, creating the thread
// for a root comment. A reply is stored under its thread's end line, which
// differs from line when the thread was clamped for display.
func (r *Reconciler) commit(line int, st discussion.DraftState, res Result) {
	c := res.Comment
	if c.Kind == "" {
		c.Kind = res.Request.Kind
	}
	if c.Body == "" {
		c.Body = res.Request.Body
	}
	if c.AuthorName == "" {
		c.AuthorName = res.Request.Author
	}

	key := line
	if st.IsReply() {
		key = st.Thread.EndLine
	}

	t, ok := r.threads[key]
	switch {
	case ok && (c.ThreadID == "" || c.ThreadID == t.ID):
		// Existing thread at the anchor.
	case st.IsReply():
		t = st.Thread.Clone()
	default:
		t = discussion.Thread{
			ID:        c.ThreadID,
			StartLine: res.Request.StartLine,
			EndLine:   line,
			Title:     res.Request.Title,
			Snippet:   res.Request.Snippet,
			Language:  res.Request.Language,
		}
	}
	if c.ThreadID == "" {
		c.ThreadID = t.ID
	}

	if c.Confirmed() {
		for _, existing := range t.Comments {
			if existing.ID == c.ID {
				r.threads[key] = t
				return
			}
		}
	}

	t.Comments = append(t.Comments, c)
	r.threads[key] = t
}

// snapshot copies a draft state so callers cannot reach the thread owned by
// the reconciler.
func snapshot(st discussion.DraftState) discussion.DraftState {
	if st.Thread != nil {
		t := st.Thread.Clone()
		st.Thread = &t
	}
	return st
}
