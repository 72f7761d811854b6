package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/threadline/internal/threadline"
	"github.com/hay-kot/threadline/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *threadline.App

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *threadline.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List files of the post that have threads",
		UsageText: "threadline ls [--json]",
		Description: `Displays a table of every file in the current post with its thread count.

Use --json for JSON lines output.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	paths, err := cmd.app.Discussions.Paths(ctx)
	if err != nil {
		return fmt.Errorf("list paths: %w", err)
	}

	if len(paths) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No threads in post %s\n", cmd.app.Discussions.PostID())
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, p := range paths {
			if err := iojson.WriteLine(out, p); err != nil {
				return fmt.Errorf("encode path: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PATH\tTHREADS")
	for _, p := range paths {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", p.Path, p.Threads)
	}
	return w.Flush()
}
