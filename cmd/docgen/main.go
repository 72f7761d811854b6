// Command docgen generates CLI reference documentation from the threadline
// command definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/threadline/internal/commands"
	"github.com/hay-kot/threadline/internal/threadline"
)

func main() {
	flags := &commands.Flags{}
	app := &threadline.App{}

	root := &cli.Command{
		Name:      "threadline",
		Usage:     "Line-anchored review threads for source files",
		UsageText: "threadline [global options] command [command options]",
		Description: `Threadline attaches discussion threads to line ranges of source files and
shows them inline, below the lines they discuss.

Run 'threadline review <file>' to open the interactive view.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("THREADLINE_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file (defaults to <data-dir>/threadline.log)",
				Sources: cli.EnvVars("THREADLINE_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("THREADLINE_CONFIG"),
				Value:   commands.DefaultConfigPath(),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "path to data directory",
				Sources: cli.EnvVars("THREADLINE_DATA_DIR"),
				Value:   commands.DefaultDataDir(),
			},
			&cli.StringFlag{
				Name:    "post",
				Aliases: []string{"p"},
				Usage:   "review post the threads belong to (overrides post_id)",
				Sources: cli.EnvVars("THREADLINE_POST"),
			},
			&cli.StringFlag{
				Name:    "author",
				Usage:   "identity attached to new comments (overrides author)",
				Sources: cli.EnvVars("THREADLINE_AUTHOR"),
			},
		},
	}

	root = commands.NewReviewCmd(flags, app).Register(root)
	root = commands.NewThreadsCmd(flags, app).Register(root)
	root = commands.NewCommentCmd(flags, app).Register(root)
	root = commands.NewBatchCmd(flags, app).Register(root)
	root = commands.NewLsCmd(flags, app).Register(root)
	root = commands.NewRmCmd(flags, app).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
