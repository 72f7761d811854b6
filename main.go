package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/threadline/internal/commands"
	"github.com/hay-kot/threadline/internal/core/config"
	"github.com/hay-kot/threadline/internal/core/highlight"
	"github.com/hay-kot/threadline/internal/core/logging"
	"github.com/hay-kot/threadline/internal/core/styles"
	"github.com/hay-kot/threadline/internal/data/db"
	"github.com/hay-kot/threadline/internal/data/stores"
	"github.com/hay-kot/threadline/internal/threadline"
	"github.com/hay-kot/threadline/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		tlApp     = &threadline.App{}
		database  *db.DB
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "threadline",
		Usage:     "Line-anchored review threads for source files",
		UsageText: "threadline [global options] command [command options]",
		Description: `Threadline attaches discussion threads to line ranges of source files and
shows them inline, below the lines they discuss.

Threads are grouped into posts (a pull request, a review round) and stored
in a local SQLite database.

Run 'threadline review <file>' to open the interactive view.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("THREADLINE_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/threadline.log)",
				Sources:     cli.EnvVars("THREADLINE_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("THREADLINE_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("THREADLINE_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "post",
				Aliases:     []string{"p"},
				Usage:       "review post the threads belong to (overrides post_id)",
				Sources:     cli.EnvVars("THREADLINE_POST"),
				Destination: &flags.PostID,
			},
			&cli.StringFlag{
				Name:        "author",
				Usage:       "identity attached to new comments (overrides author)",
				Sources:     cli.EnvVars("THREADLINE_AUTHOR"),
				Destination: &flags.Author,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := os.MkdirAll(flags.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.PostID != "" {
				cfg.PostID = flags.PostID
			}
			if flags.Author != "" {
				cfg.Author = flags.Author
			}
			flags.Config = cfg

			// Always log to a file so the review screen owns the terminal
			logFile := flags.LogFile
			if logFile == "" {
				logFile = cfg.LogFile()
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			// Apply configured palette (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Palette)
			styles.SetTheme(palette)

			database, err = openDatabase(cfg)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			svc := threadline.NewDiscussionService(
				stores.NewDiscussionStore(database),
				highlight.New(cfg.TUI.Theme, cfg.Languages),
				cfg,
				logging.Component("discussions"),
			)
			if _, err := svc.EnsurePost(ctx); err != nil {
				return ctx, fmt.Errorf("ensure post: %w", err)
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*tlApp = *threadline.NewApp(svc, cfg, database)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewReviewCmd(flags, tlApp).Register(app)
	app = commands.NewThreadsCmd(flags, tlApp).Register(app)
	app = commands.NewCommentCmd(flags, tlApp).Register(app)
	app = commands.NewBatchCmd(flags, tlApp).Register(app)
	app = commands.NewLsCmd(flags, tlApp).Register(app)
	app = commands.NewRmCmd(flags, tlApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}

// openDatabase opens the store, moving a corrupted file aside and starting
// fresh once.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil || !stores.IsCorruptionError(err) {
		return database, err
	}

	backup, recErr := stores.RecoverFromCorruption(cfg.DataDir)
	if recErr != nil {
		return nil, fmt.Errorf("%w (recovery failed: %v)", err, recErr)
	}
	log.Warn().Err(err).Str("backup", backup).Msg("database was corrupted, starting with an empty one")

	return db.Open(cfg.DataDir, opts)
}
