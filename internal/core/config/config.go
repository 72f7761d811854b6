// Package config handles configuration loading and validation for threadline.
package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPostID is the review post used when none is configured.
const DefaultPostID = "local"

// Config holds the application configuration.
type Config struct {
	Author    string            `yaml:"author"`  // identity attached to new comments
	PostID    string            `yaml:"post_id"` // review post that groups threads
	TUI       TUIConfig         `yaml:"tui"`
	Languages map[string]string `yaml:"languages"` // doublestar glob -> chroma lexer
	Database  DatabaseConfig    `yaml:"database"`
	DataDir   string            `yaml:"-"` // set by caller, not from config file
}

// TUIConfig holds review view settings.
type TUIConfig struct {
	Theme        string `yaml:"theme"`         // chroma style name, "none" disables color
	Palette      string `yaml:"palette"`       // interface color theme
	CommentWidth int    `yaml:"comment_width"` // wrap width for rendered comment bodies
	RootRow      *bool  `yaml:"root_row"`      // root comment occupies its own row
	ExpandAll    bool   `yaml:"expand_all"`    // start with every discussion expanded
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	rootRow := true
	return Config{
		PostID: DefaultPostID,
		TUI: TUIConfig{
			Theme:        "monokai",
			Palette:      "tokyo-night",
			CommentWidth: 80,
			RootRow:      &rootRow,
		},
		Languages: map[string]string{},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Author == "" {
		c.Author = currentUser()
	}
	if c.PostID == "" {
		c.PostID = defaults.PostID
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.Palette == "" {
		c.TUI.Palette = defaults.TUI.Palette
	}
	if c.TUI.CommentWidth == 0 {
		c.TUI.CommentWidth = defaults.TUI.CommentWidth
	}
	if c.TUI.RootRow == nil {
		c.TUI.RootRow = defaults.TUI.RootRow
	}
	if c.Languages == nil {
		c.Languages = map[string]string{}
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// currentUser returns the login name of the running user, falling back to
// $USER.
func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Author == "" {
		return fmt.Errorf("author cannot be empty")
	}

	if c.PostID == "" {
		return fmt.Errorf("post_id cannot be empty")
	}

	if c.TUI.CommentWidth < 20 {
		return fmt.Errorf("tui.comment_width must be at least 20")
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}

	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}

	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout cannot be negative")
	}

	for pattern, lexer := range c.Languages {
		if pattern == "" || lexer == "" {
			return fmt.Errorf("languages entries need both a pattern and a lexer")
		}
	}

	return nil
}

// DedicatedRootRow reports whether the root comment occupies its own row.
func (c *Config) DedicatedRootRow() bool {
	return c.TUI.RootRow == nil || *c.TUI.RootRow
}

// DatabaseFile returns the path of the SQLite database.
func (c *Config) DatabaseFile() string {
	return filepath.Join(c.DataDir, "threadline.db")
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "threadline.log")
}
