package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/threadline/internal/core/config"
	"github.com/hay-kot/threadline/internal/core/styles"
	"github.com/hay-kot/threadline/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "threadline config validate [options]",
				Description: "Validates the configuration file, checking language globs, lexer and theme names, and file paths.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// ValidationReport is the JSON output of config validate.
type ValidationReport struct {
	Valid    bool                       `json:"valid"`
	Errors   []ValidationIssue          `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

// ValidationIssue is one failed field.
type ValidationIssue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	report := buildReport(cmd.flags.Config, cmd.flags.ConfigPath)

	if cmd.format == "json" {
		if err := iojson.Write(c.Root().Writer, report); err != nil {
			return err
		}
	} else {
		printReport(c, report)
	}

	if !report.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func buildReport(cfg *config.Config, configPath string) ValidationReport {
	report := ValidationReport{
		Valid:    true,
		Warnings: cfg.Warnings(),
	}

	err := cfg.ValidateDeep(configPath)
	if err == nil {
		return report
	}

	report.Valid = false
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			report.Errors = append(report.Errors, ValidationIssue{Field: fe.Field, Message: fe.Err.Error()})
		}
		return report
	}

	report.Errors = append(report.Errors, ValidationIssue{Message: err.Error()})
	return report
}

func printReport(c *cli.Command, report ValidationReport) {
	out := c.Root().Writer

	for _, w := range report.Warnings {
		line := fmt.Sprintf("! %s: %s", w.Category, w.Message)
		if w.Item != "" {
			line += fmt.Sprintf(" (%s)", w.Item)
		}
		_, _ = fmt.Fprintln(out, styles.MutedStyle.Render(line))
	}

	for _, e := range report.Errors {
		line := "✗ " + e.Message
		if e.Field != "" {
			line = fmt.Sprintf("✗ %s: %s", e.Field, e.Message)
		}
		_, _ = fmt.Fprintln(out, styles.ErrorStyle.Render(line))
	}

	_, _ = fmt.Fprintln(out)
	if report.Valid {
		_, _ = fmt.Fprintln(out, styles.SuccessStyle.Render("✓ Configuration is valid"))
		return
	}
	_, _ = fmt.Fprintln(out, styles.ErrorStyle.Render(fmt.Sprintf("%d error(s) found", len(report.Errors))))
}
