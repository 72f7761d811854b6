package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	uistyles "github.com/hay-kot/threadline/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// glob syntax, lexer and theme names, and file accessibility. The configPath
// argument specifies the config file location to validate (empty string skips
// config file check). This calls Validate() first for basic structural
// validation.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		criterio.Run("tui.theme", c.TUI.Theme, themeExists),
		criterio.Run("tui.palette", c.TUI.Palette, paletteExists),
		c.validateLanguages(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.PostID == DefaultPostID {
		warnings = append(warnings, ValidationWarning{
			Category: "Post",
			Message:  "post_id is not set, threads are stored under the shared \"local\" post",
		})
	}

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		warnings = append(warnings, ValidationWarning{
			Category: "Database",
			Item:     "max_idle_conns",
			Message:  "max_idle_conns is larger than max_open_conns and will be capped",
		})
	}

	return warnings
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func themeExists(theme string) error {
	if theme == "none" {
		return nil
	}
	if _, ok := styles.Registry[theme]; !ok {
		return fmt.Errorf("unknown chroma style %q", theme)
	}
	return nil
}

func paletteExists(name string) error {
	if _, ok := uistyles.GetPalette(name); !ok {
		return fmt.Errorf("unknown palette %q, available: %v", name, uistyles.ThemeNames())
	}
	return nil
}

// validateLanguages checks glob syntax and lexer names. Patterns are visited
// in sorted order so errors are reported deterministically.
func (c *Config) validateLanguages() error {
	patterns := make([]string, 0, len(c.Languages))
	for p := range c.Languages {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)

	var errs criterio.FieldErrorsBuilder
	for _, pattern := range patterns {
		field := fmt.Sprintf("languages[%q]", pattern)
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(field, fmt.Errorf("invalid glob pattern"))
		}
		if lexers.Get(c.Languages[pattern]) == nil {
			errs = errs.Append(field, fmt.Errorf("unknown lexer %q", c.Languages[pattern]))
		}
	}
	return errs.ToError()
}
