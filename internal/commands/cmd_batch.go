package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/threadline/internal/core/logging"
	"github.com/hay-kot/threadline/internal/threadline"
	"github.com/hay-kot/threadline/pkg/iojson"
)

type BatchCmd struct {
	flags *Flags
	app   *threadline.App
	fr    *iojson.FileReader[BatchInput]
}

func NewBatchCmd(flags *Flags, app *threadline.App) *BatchCmd {
	return &BatchCmd{
		flags: flags,
		app:   app,
		fr:    &iojson.FileReader[BatchInput]{},
	}
}

func (cmd *BatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "batch",
		Usage: "Add multiple comments from JSON input",
		UsageText: `threadline batch [options]

Read from stdin:
  echo '{"comments":[{"path":"main.go","line":3,"title":"Naming","body":"Rename"}]}' | threadline batch

Read from file:
  threadline batch -f comments.json`,
		Description: `Adds comments from a JSON document, for example review output from
another tool.

Each comment is submitted sequentially through the same draft rules as the
review view. Processing stops after 3 failures. Comments not attempted are
marked as skipped.

Input JSON schema:
  {
    "comments": [
      {
        "path": "main.go",
        "line": 42,
        "start_line": 40,
        "title": "thread title",
        "body": "markdown body",
        "reply_to": "optional thread id"
      }
    ]
  }

Fields:
  path       - Required. File the comment belongs to.
  line       - Required for new threads. Anchor line.
  start_line - Optional. First line of the range (defaults to line).
  title      - Required for new threads.
  body       - Required. Markdown comment body.
  reply_to   - Optional. Thread ID; when set line and title are ignored.

Output is JSON with a batch ID and results for each comment.`,
		Flags: []cli.Flag{
			cmd.fr.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *BatchCmd) run(ctx context.Context, c *cli.Command) error {
	batchID := uuid.NewString()[:8]
	logger := logging.Component("batch").With().Str("batch_id", batchID).Logger()

	logger.Info().Msg("starting batch processing")

	input, err := cmd.fr.Read(c.Root().Reader)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read input")
		return inputError(c, fmt.Sprintf("read input: %s", err))
	}

	if err := input.Validate(); err != nil {
		logger.Error().Err(err).Msg("input validation failed")
		return inputError(c, fmt.Sprintf("invalid input: %s", err))
	}

	output := BatchOutput{
		BatchID: batchID,
		PostID:  cmd.app.Discussions.PostID(),
		Results: make([]BatchResult, 0, len(input.Comments)),
	}

	failures := 0
	for i, in := range input.Comments {
		if failures >= maxFailures {
			logger.Warn().Int("index", i).Msg("skipping comments due to failure threshold")
			for j := i; j < len(input.Comments); j++ {
				output.Results = append(output.Results, BatchResult{
					Index:  j,
					Path:   input.Comments[j].Path,
					Status: StatusSkipped,
				})
			}
			break
		}

		result := BatchResult{Index: i, Path: in.Path}
		created, err := cmd.app.Discussions.Comment(ctx, in)
		if err != nil {
			failures++
			result.Status = StatusFailed
			result.Error = err.Error()
			logger.Error().Err(err).Int("index", i).Str("path", in.Path).Msg("comment failed")
		} else {
			result.Status = StatusCreated
			result.ThreadID = created.ThreadID
			result.CommentID = created.ID
		}
		output.Results = append(output.Results, result)
	}

	logger.Info().
		Int("total", len(input.Comments)).
		Int("created", countByStatus(output.Results, StatusCreated)).
		Int("failed", countByStatus(output.Results, StatusFailed)).
		Int("skipped", countByStatus(output.Results, StatusSkipped)).
		Msg("batch processing complete")

	return iojson.Write(c.Root().Writer, output)
}

const (
	StatusCreated = "created" // StatusCreated indicates the comment was stored.
	StatusFailed  = "failed"  // StatusFailed indicates the comment was rejected.
	StatusSkipped = "skipped" // StatusSkipped indicates the comment was not attempted due to failure threshold.
	maxFailures   = 3         // maxFailures is the number of failures before stopping batch processing.
)

// BatchInput is the JSON input schema for batch comments.
type BatchInput struct {
	Comments []threadline.CommentInput `json:"comments"`
}

// Validate checks the batch input for errors using criterio. Line ranges are
// checked against the file when each comment is submitted.
func (b BatchInput) Validate() error {
	if len(b.Comments) == 0 {
		return criterio.NewFieldErrors("comments", fmt.Errorf("array is empty"))
	}

	var errs criterio.FieldErrorsBuilder
	for i, in := range b.Comments {
		field := fmt.Sprintf("comments[%d]", i)

		if strings.TrimSpace(in.Path) == "" {
			errs = errs.Append(field+".path", fmt.Errorf("is required"))
		}
		if strings.TrimSpace(in.Body) == "" {
			errs = errs.Append(field+".body", fmt.Errorf("is required"))
		}
		if in.ReplyTo != "" {
			continue
		}
		if in.Line < 1 {
			errs = errs.Append(field+".line", fmt.Errorf("must be >= 1"))
		}
		if in.StartLine > in.Line {
			errs = errs.Append(field+".start_line", fmt.Errorf("start_line %d is after line %d", in.StartLine, in.Line))
		}
		if strings.TrimSpace(in.Title) == "" {
			errs = errs.Append(field+".title", fmt.Errorf("is required for a new thread"))
		}
	}

	return errs.ToError()
}

// BatchResult is the output for a single comment.
type BatchResult struct {
	Index     int    `json:"index"`
	Path      string `json:"path"`
	ThreadID  string `json:"thread_id,omitempty"`
	CommentID string `json:"comment_id,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// BatchOutput is the JSON output schema.
type BatchOutput struct {
	BatchID string        `json:"batch_id"`
	PostID  string        `json:"post_id"`
	Results []BatchResult `json:"results"`
}

func countByStatus(results []BatchResult, status string) int {
	count := 0
	for _, r := range results {
		if r.Status == status {
			count++
		}
	}
	return count
}

// inputError reports a rejected batch as a JSON envelope on stderr and exits
// non-zero.
func inputError(c *cli.Command, msg string) error {
	if err := iojson.WriteError(c.Root().ErrWriter, msg, nil); err != nil {
		return err
	}
	return cli.Exit("", 1)
}
