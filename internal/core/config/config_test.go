package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, DefaultPostID, cfg.PostID)
	assert.Equal(t, "monokai", cfg.TUI.Theme)
	assert.Equal(t, 80, cfg.TUI.CommentWidth)
	assert.True(t, cfg.DedicatedRootRow())
	assert.False(t, cfg.TUI.ExpandAll)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5000, cfg.Database.BusyTimeout)
	assert.NotEmpty(t, cfg.Author)
	assert.Equal(t, filepath.Join(dataDir, "threadline.db"), cfg.DatabaseFile())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultPostID, cfg.PostID)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
author: ada
post_id: pr-42
tui:
  theme: dracula
  comment_width: 60
  root_row: false
  expand_all: true
languages:
  "**/*.tmpl": go-html-template
database:
  busy_timeout: 250
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "ada", cfg.Author)
	assert.Equal(t, "pr-42", cfg.PostID)
	assert.Equal(t, "dracula", cfg.TUI.Theme)
	assert.Equal(t, 60, cfg.TUI.CommentWidth)
	assert.False(t, cfg.DedicatedRootRow())
	assert.True(t, cfg.TUI.ExpandAll)
	assert.Equal(t, "go-html-template", cfg.Languages["**/*.tmpl"])
	assert.Equal(t, 250, cfg.Database.BusyTimeout)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns, "unset values keep defaults")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "narrow comments",
			content: "tui:\n  comment_width: 5\n",
			wantErr: "tui.comment_width",
		},
		{
			name:    "negative busy timeout",
			content: "database:\n  busy_timeout: -1\n",
			wantErr: "busy_timeout",
		},
		{
			name:    "empty lexer",
			content: "languages:\n  \"*.x\": \"\"\n",
			wantErr: "languages",
		},
		{
			name:    "malformed yaml",
			content: "tui: [",
			wantErr: "parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_EmptyDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Author = "ada"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data directory")
}
