package threadline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hay-kot/threadline/internal/core/anchor"
	"github.com/hay-kot/threadline/internal/core/config"
	"github.com/hay-kot/threadline/internal/core/discussion"
	"github.com/hay-kot/threadline/internal/core/draft"
	"github.com/hay-kot/threadline/internal/core/highlight"
	"github.com/hay-kot/threadline/internal/core/logging"
	"github.com/hay-kot/threadline/internal/data/stores"
)

// Store is the persistence surface the service needs.
type Store interface {
	discussion.Source
	discussion.Submitter
	EnsurePost(ctx context.Context, postID, owner string) (discussion.Post, error)
	ListPaths(ctx context.Context, postID string) ([]stores.PathSummary, error)
	DeleteThread(ctx context.Context, threadID string) error
}

// File is a source file loaded for review.
type File struct {
	Path     string // As stored, slash separated
	Text     string
	Language string
	Lines    []discussion.SourceLine
	Threads  []discussion.Thread // As stored, possibly past the end of the file
	Clamped  []string            // IDs of threads that point past the file
}

// Snippet returns the source text of lines start..end.
func (f File) Snippet() draft.SnippetFunc {
	return highlight.Snippet(f.Text)
}

// CommentInput describes a comment added outside the review screen. A zero
// ReplyTo starts a new thread anchored at Line.
type CommentInput struct {
	Path      string `json:"path"`
	Line      int    `json:"line"`
	StartLine int    `json:"start_line,omitempty"`
	Title     string `json:"title,omitempty"`
	Body      string `json:"body"`
	ReplyTo   string `json:"reply_to,omitempty"`
}

// DiscussionService loads files with their threads and adds comments to
// them on behalf of the configured author.
type DiscussionService struct {
	store     Store
	tokenizer *highlight.Tokenizer
	config    *config.Config
	logger    zerolog.Logger
}

// NewDiscussionService creates a new DiscussionService.
func NewDiscussionService(store Store, tokenizer *highlight.Tokenizer, cfg *config.Config, logger zerolog.Logger) *DiscussionService {
	return &DiscussionService{
		store:     store,
		tokenizer: tokenizer,
		config:    cfg,
		logger:    logger,
	}
}

// PostID returns the post every operation is scoped to.
func (s *DiscussionService) PostID() string {
	return s.config.PostID
}

// Author returns the identity attached to new comments.
func (s *DiscussionService) Author() string {
	return s.config.Author
}

// Source exposes the thread source for reloads.
func (s *DiscussionService) Source() discussion.Source {
	return s.store
}

// Submitter exposes the comment submitter for the review screen.
func (s *DiscussionService) Submitter() discussion.Submitter {
	return s.store
}

// EnsurePost makes sure the configured post exists, owned by the configured
// author when it is created.
func (s *DiscussionService) EnsurePost(ctx context.Context) (discussion.Post, error) {
	return s.store.EnsurePost(ctx, s.config.PostID, s.config.Author)
}

// Paths lists the files of the post that have threads.
func (s *DiscussionService) Paths(ctx context.Context) ([]stores.PathSummary, error) {
	return s.store.ListPaths(ctx, s.config.PostID)
}

// DeleteThread removes a thread and all its comments.
func (s *DiscussionService) DeleteThread(ctx context.Context, threadID string) error {
	return s.store.DeleteThread(ctx, threadID)
}

// Open reads a file, tokenizes it and loads its threads. Tokenizing and the
// thread query run concurrently. language overrides detection when set.
func (s *DiscussionService) Open(ctx context.Context, path, language string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}

	f := File{
		Path:     NormalizePath(path),
		Text:     string(data),
		Language: language,
	}
	if f.Language == "" {
		f.Language = s.tokenizer.Language(path, f.Text)
	}
	ctx = logging.WithFile(ctx, s.config.PostID, f.Path)

	var threads []discussion.Thread
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lines, err := s.tokenizer.Lines(f.Text, f.Language)
		if err != nil {
			return err
		}
		f.Lines = lines
		return nil
	})
	g.Go(func() error {
		var err error
		threads, err = s.store.ListThreads(gctx, s.config.PostID, f.Path)
		if err != nil {
			return fmt.Errorf("list threads: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return File{}, err
	}

	f.Threads = threads
	_, f.Clamped = anchor.Clamp(threads, len(f.Lines))
	for _, id := range f.Clamped {
		s.logger.Warn().Ctx(ctx).Str("thread_id", id).Msg("thread points past the end of the file")
	}

	s.logger.Debug().
		Ctx(ctx).
		Str("language", f.Language).
		Int("lines", len(f.Lines)).
		Int("threads", len(f.Threads)).
		Msg("opened file")

	return f, nil
}

// Anchors opens a file and computes the anchor map of its threads.
func (s *DiscussionService) Anchors(ctx context.Context, path string) (File, anchor.Map, error) {
	f, err := s.Open(ctx, path, "")
	if err != nil {
		return File{}, anchor.Map{}, err
	}
	return f, anchor.Build(f.Threads, len(f.Lines), s.anchorOptions()), nil
}

func (s *DiscussionService) anchorOptions() anchor.Options {
	return anchor.Options{DedicatedRootRow: s.config.DedicatedRootRow()}
}

// AnchorOptions returns the row accounting configured for the review screen.
func (s *DiscussionService) AnchorOptions() anchor.Options {
	return s.anchorOptions()
}

// Comment adds a thread or reply to a file. It drives the same draft
// lifecycle as the review screen, so validation and anchoring rules are
// identical.
func (s *DiscussionService) Comment(ctx context.Context, in CommentInput) (discussion.Comment, error) {
	f, err := s.Open(ctx, in.Path, "")
	if err != nil {
		return discussion.Comment{}, err
	}

	ctx = logging.WithFile(ctx, s.config.PostID, f.Path)

	rec := draft.New(draft.Config{
		PostID:   s.config.PostID,
		Path:     f.Path,
		Author:   s.config.Author,
		Language: f.Language,
		Snippet:  f.Snippet(),
	}, f.Threads, draft.WithLogger(s.logger))

	line := in.Line
	var target *discussion.Thread
	if in.ReplyTo != "" {
		t, ok := findThread(rec.Threads(), in.ReplyTo)
		if !ok {
			return discussion.Comment{}, fmt.Errorf("reply to %s: %w", in.ReplyTo, discussion.ErrThreadNotFound)
		}
		line = t.EndLine
		target = &t
	} else if line < 1 || line > len(f.Lines) {
		return discussion.Comment{}, fmt.Errorf("line %d is outside %s (1-%d)", line, f.Path, len(f.Lines))
	}

	if err := rec.Open(line, target); err != nil {
		return discussion.Comment{}, err
	}
	if target == nil {
		if err := rec.SetTitle(in.Title); err != nil {
			return discussion.Comment{}, err
		}
		if in.StartLine > 0 {
			if err := rec.SetStartLine(in.StartLine); err != nil {
				return discussion.Comment{}, err
			}
		}
	}
	if err := rec.SetBody(in.Body); err != nil {
		return discussion.Comment{}, err
	}

	attempt, err := rec.Submit()
	if err != nil {
		return discussion.Comment{}, err
	}

	res := <-draft.Dispatch(ctx, s.store, attempt)
	outcome, err := rec.Resolve(res)
	if err != nil {
		return discussion.Comment{}, err
	}
	if outcome != draft.OutcomeCommitted {
		return discussion.Comment{}, fmt.Errorf("comment on line %d was %s", line, outcome)
	}

	s.logger.Info().
		Ctx(ctx).
		Int("line", line).
		Str("thread_id", res.Comment.ThreadID).
		Str("kind", string(res.Comment.Kind)).
		Msg("comment added")

	return res.Comment, nil
}

func findThread(threads []discussion.Thread, id string) (discussion.Thread, bool) {
	for _, t := range threads {
		if t.ID == id {
			return t, true
		}
	}
	return discussion.Thread{}, false
}

// NormalizePath returns the key a file is stored under: relative to the
// working directory when possible, slash separated.
func NormalizePath(path string) string {
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) {
		if wd, err := os.Getwd(); err == nil {
			if rel, err := filepath.Rel(wd, clean); err == nil && !startsWithParent(rel) {
				clean = rel
			}
		}
	}
	return filepath.ToSlash(clean)
}

func startsWithParent(rel string) bool {
	return rel == ".." || len(rel) > 3 && rel[:3] == ".."+string(filepath.Separator)
}

// IsValidationError reports whether err is a missing-field error from a
// draft, as opposed to a storage failure.
func IsValidationError(err error) bool {
	var ve *discussion.ValidationError
	return errors.As(err, &ve)
}
