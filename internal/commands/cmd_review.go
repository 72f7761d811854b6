package commands

import (
	"context"
	"fmt"
	"sync"

	tea "charm.land/bubbletea/v2"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/threadline/internal/core/discussion"
	"github.com/hay-kot/threadline/internal/core/logging"
	"github.com/hay-kot/threadline/internal/threadline"
	"github.com/hay-kot/threadline/internal/tui/views/threadview"
)

type ReviewCmd struct {
	flags *Flags
	app   *threadline.App

	// flags
	language  string
	expandAll bool
}

// NewReviewCmd creates a new review command.
func NewReviewCmd(flags *Flags, app *threadline.App) *ReviewCmd {
	return &ReviewCmd{flags: flags, app: app}
}

// Register adds the review command to the application.
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Open a file with its discussion threads",
		UsageText: "threadline review [options] <file>",
		Description: `Opens an interactive view of a source file with review threads shown
below the lines they are anchored to.

Hover or move the cursor onto a line and press enter to start a thread.
Extend the thread upwards with shift+up or by hovering an earlier line
with the mouse. Press enter on a line with a thread to reply.

Examples:
  threadline review main.go
  threadline review --lang yaml deploy/values.tpl`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "lang",
				Aliases:     []string{"l"},
				Usage:       "override language detection (chroma lexer name)",
				Destination: &cmd.language,
			},
			&cli.BoolFlag{
				Name:        "expand",
				Aliases:     []string{"e"},
				Usage:       "start with every thread expanded",
				Destination: &cmd.expandAll,
			},
		},
		ShellComplete: PathCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ReviewCmd) run(ctx context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("file argument is required")
	}

	svc := cmd.app.Discussions
	f, err := svc.Open(ctx, path, cmd.language)
	if err != nil {
		return err
	}

	logger := logging.File("review", svc.PostID(), f.Path)
	live := &liveFile{file: f}

	watcher, err := threadview.NewFileWatcher(path)
	if err != nil {
		logger.Warn().Err(err).Msg("file watcher unavailable, changes on disk need a manual reload")
	} else {
		defer func() { _ = watcher.Close() }()
	}

	refresh := func(ctx context.Context) ([]discussion.SourceLine, error) {
		nf, err := svc.Open(ctx, path, cmd.language)
		if err != nil {
			return nil, err
		}
		live.set(nf)
		return nf.Lines, nil
	}

	cfg := cmd.app.Config
	m := threadview.New(threadview.Params{
		Context:      ctx,
		PostID:       svc.PostID(),
		Path:         f.Path,
		Author:       svc.Author(),
		Language:     f.Language,
		Lines:        f.Lines,
		Threads:      f.Threads,
		Snippet:      live.snippet,
		Source:       svc.Source(),
		Submitter:    svc.Submitter(),
		Anchor:       svc.AnchorOptions(),
		Refresh:      refresh,
		Watcher:      watcher,
		CommentWidth: cfg.TUI.CommentWidth,
		ExpandAll:    cmd.expandAll || cfg.TUI.ExpandAll,
		Logger:       logger,
	})

	// The view requests the alt screen and all-motion mouse reporting.
	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run review TUI: %w", err)
	}

	return nil
}

// liveFile holds the latest read of the reviewed file. Refreshes run off the
// event loop while snippets are taken on it.
type liveFile struct {
	mu   sync.Mutex
	file threadline.File
}

func (l *liveFile) set(f threadline.File) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.file = f
}

func (l *liveFile) snippet(start, end int) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Snippet()(start, end)
}
