package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/threadline/internal/core/styles"
	"github.com/hay-kot/threadline/internal/threadline"
	"github.com/hay-kot/threadline/pkg/iojson"
)

type CommentCmd struct {
	flags *Flags
	app   *threadline.App

	// flags
	line       int
	start      int
	title      string
	body       string
	replyTo    string
	jsonOutput bool
}

// NewCommentCmd creates a new comment command
func NewCommentCmd(flags *Flags, app *threadline.App) *CommentCmd {
	return &CommentCmd{flags: flags, app: app}
}

// Register adds the comment command to the application
func (cmd *CommentCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "comment",
		Usage:     "Start a thread or reply without opening the review view",
		UsageText: "threadline comment [options] <file>",
		Description: `Adds a comment to a file. Without --reply-to a new thread is anchored
at --line, optionally covering lines --start through --line.

Missing title and body are prompted for when stdin is a terminal.

Examples:
  threadline comment --line 42 --title "Naming" --body "Rename this" main.go
  threadline comment --line 42 --start 38 main.go
  threadline comment --reply-to 6f1c... --body "Done" main.go`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "line",
				Aliases:     []string{"n"},
				Usage:       "anchor line of a new thread",
				Destination: &cmd.line,
			},
			&cli.IntFlag{
				Name:        "start",
				Aliases:     []string{"s"},
				Usage:       "first line of a new thread's range (defaults to --line)",
				Destination: &cmd.start,
			},
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "title of a new thread",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "body",
				Aliases:     []string{"b"},
				Usage:       "comment body (markdown)",
				Destination: &cmd.body,
			},
			&cli.StringFlag{
				Name:        "reply-to",
				Aliases:     []string{"r"},
				Usage:       "thread ID to reply to",
				Destination: &cmd.replyTo,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the created comment as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		ShellComplete: PathCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *CommentCmd) run(ctx context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("file argument is required")
	}

	if cmd.needsForm() && term.IsTerminal(int(os.Stdin.Fd())) {
		if err := cmd.runForm(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	created, err := cmd.app.Discussions.Comment(ctx, threadline.CommentInput{
		Path:      path,
		Line:      cmd.line,
		StartLine: cmd.start,
		Title:     cmd.title,
		Body:      cmd.body,
		ReplyTo:   cmd.replyTo,
	})
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}

	if cmd.jsonOutput {
		return iojson.Write(c.Root().Writer, newCommentInfo(created))
	}

	what := "thread " + created.ThreadID
	if cmd.replyTo != "" {
		what = "reply on thread " + created.ThreadID
	}
	_, _ = fmt.Fprintln(c.Root().Writer, styles.SuccessStyle.Render("Posted "+what))
	return nil
}

func (cmd *CommentCmd) needsForm() bool {
	if strings.TrimSpace(cmd.body) == "" {
		return true
	}
	return cmd.replyTo == "" && (cmd.line < 1 || strings.TrimSpace(cmd.title) == "")
}

func (cmd *CommentCmd) runForm() error {
	var fields []huh.Field

	lineStr := ""
	if cmd.line > 0 {
		lineStr = strconv.Itoa(cmd.line)
	}

	if cmd.replyTo == "" {
		fields = append(fields,
			huh.NewInput().
				Title("Line").
				Description("Line the thread is anchored to").
				Validate(validateLine).
				Value(&lineStr),
			huh.NewInput().
				Title("Title").
				Validate(validateRequired("title")).
				Value(&cmd.title),
		)
	}

	fields = append(fields,
		huh.NewText().
			Title("Comment").
			Description("Markdown is rendered in the review view").
			Validate(validateRequired("body")).
			Value(&cmd.body),
	)

	if err := huh.NewForm(huh.NewGroup(fields...)).WithTheme(styles.FormTheme()).Run(); err != nil {
		return err
	}

	if n, err := strconv.Atoi(strings.TrimSpace(lineStr)); err == nil {
		cmd.line = n
	}
	return nil
}

func validateLine(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("line must be a positive number")
	}
	return nil
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
