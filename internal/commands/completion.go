package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/threadline/internal/threadline"
)

// PathCompleter returns a ShellCompleteFunc that suggests the files of the
// current post that have threads. Set this as the ShellComplete field on any
// cli.Command that accepts a file argument.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func PathCompleter(app *threadline.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if app.Discussions == nil {
			return
		}
		paths, err := app.Discussions.Paths(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, p := range paths {
			_, _ = fmt.Fprintln(w, p.Path)
		}
	}
}
