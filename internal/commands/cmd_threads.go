package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/threadline/internal/core/anchor"
	"github.com/hay-kot/threadline/internal/core/discussion"
	"github.com/hay-kot/threadline/internal/threadline"
	"github.com/hay-kot/threadline/pkg/iojson"
)

type ThreadsCmd struct {
	flags *Flags
	app   *threadline.App

	// flags
	jsonOutput bool
}

// NewThreadsCmd creates a new threads command
func NewThreadsCmd(flags *Flags, app *threadline.App) *ThreadsCmd {
	return &ThreadsCmd{flags: flags, app: app}
}

// Register adds the threads command to the application
func (cmd *ThreadsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "threads",
		Usage:     "List the threads of a file",
		UsageText: "threadline threads [--json] <file>",
		Description: `Displays every thread anchored in a file with its line range, reply
count and the display rows it occupies once earlier threads are expanded.

JSON output is used automatically when stdout is not a terminal.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		ShellComplete: PathCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

// ThreadInfo is the JSON shape of one thread.
type ThreadInfo struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	StartLine      int           `json:"start_line"`
	EndLine        int           `json:"end_line"`
	EffectiveStart int           `json:"effective_start"`
	EffectiveEnd   int           `json:"effective_end"`
	Offset         int           `json:"offset"`
	Clamped        bool          `json:"clamped,omitempty"`
	Comments       []CommentInfo `json:"comments"`
}

// CommentInfo is the JSON shape of one comment.
type CommentInfo struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	Author    string    `json:"author"`
	IsOwner   bool      `json:"is_owner"`
	Kind      string    `json:"kind"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (cmd *ThreadsCmd) run(ctx context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("file argument is required")
	}

	f, amap, err := cmd.app.Discussions.Anchors(ctx, path)
	if err != nil {
		return err
	}

	infos := buildThreadInfos(f.Threads, amap, f.Clamped)
	out := c.Root().Writer

	if cmd.jsonOutput || !term.IsTerminal(int(os.Stdout.Fd())) {
		for _, info := range infos {
			if err := iojson.WriteLine(out, info); err != nil {
				return fmt.Errorf("encode thread: %w", err)
			}
		}
		return nil
	}

	if len(infos) == 0 {
		fmt.Fprintf(os.Stderr, "No threads on %s\n", f.Path)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tLINES\tROWS\tREPLIES\tTITLE")
	for _, info := range infos {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			info.ID,
			lineRange(info.StartLine, info.EndLine),
			lineRange(info.EffectiveStart, info.EffectiveEnd),
			max(len(info.Comments)-1, 0),
			info.Title,
		)
	}
	return w.Flush()
}

// buildThreadInfos joins threads with their anchor spans. clampedIDs lists
// threads whose stored range was pulled back inside the file.
func buildThreadInfos(threads []discussion.Thread, amap anchor.Map, clampedIDs []string) []ThreadInfo {
	clamped := make(map[string]bool, len(clampedIDs)+len(amap.Clamped))
	for _, ids := range [][]string{clampedIDs, amap.Clamped} {
		for _, id := range ids {
			clamped[id] = true
		}
	}

	infos := make([]ThreadInfo, 0, len(threads))
	for _, t := range threads {
		info := ThreadInfo{
			ID:        t.ID,
			Title:     t.Title,
			StartLine: t.StartLine,
			EndLine:   t.EndLine,
			Clamped:   clamped[t.ID],
			Comments:  make([]CommentInfo, 0, len(t.Comments)),
		}
		if span, ok := amap.SpanFor(t.ID); ok {
			info.EffectiveStart = span.EffectiveStart
			info.EffectiveEnd = span.EffectiveEnd
			info.Offset = span.Offset
		}
		for _, cm := range t.Comments {
			info.Comments = append(info.Comments, newCommentInfo(cm))
		}
		infos = append(infos, info)
	}
	return infos
}

func newCommentInfo(c discussion.Comment) CommentInfo {
	return CommentInfo{
		ID:        c.ID,
		ThreadID:  c.ThreadID,
		Author:    c.AuthorName,
		IsOwner:   c.IsAuthorAccountOwner,
		Kind:      string(c.Kind),
		Body:      strings.TrimSpace(c.Body),
		CreatedAt: c.CreatedAt,
	}
}

func lineRange(start, end int) string {
	if start == end {
		return fmt.Sprintf("%d", end)
	}
	return fmt.Sprintf("%d-%d", start, end)
}
