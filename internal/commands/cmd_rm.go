package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/threadline/internal/core/styles"
	"github.com/hay-kot/threadline/internal/threadline"
)

type RmCmd struct {
	flags *Flags
	app   *threadline.App

	// flags
	yes bool
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags, app *threadline.App) *RmCmd {
	return &RmCmd{flags: flags, app: app}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Delete a thread and all its replies",
		UsageText: "threadline rm [--yes] <thread-id>",
		Description: `Deletes a thread by ID. Thread IDs are shown by 'threadline threads'.

Asks for confirmation when stdin is a terminal unless --yes is given.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip confirmation",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("thread ID argument is required")
	}

	if !cmd.yes && term.IsTerminal(int(os.Stdin.Fd())) {
		confirmed := false
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete thread %s?", id)).
				Description("All replies are deleted with it.").
				Value(&confirmed),
		)).WithTheme(styles.FormTheme()).Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("confirm: %w", err)
		}
		if !confirmed {
			return nil
		}
	}

	if err := cmd.app.Discussions.DeleteThread(ctx, id); err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}

	_, _ = fmt.Fprintln(c.Root().Writer, styles.SuccessStyle.Render("Deleted thread "+id))
	return nil
}
