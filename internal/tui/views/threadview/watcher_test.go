package threadview

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_Matches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))

	w, err := NewFileWatcher(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "write", event: fsnotify.Event{Name: path, Op: fsnotify.Write}, want: true},
		{name: "rename over", event: fsnotify.Event{Name: path, Op: fsnotify.Create}, want: true},
		{name: "chmod only", event: fsnotify.Event{Name: path, Op: fsnotify.Chmod}, want: false},
		{name: "sibling", event: fsnotify.Event{Name: filepath.Join(dir, "other.go"), Op: fsnotify.Write}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.matches(tt.event))
		})
	}
}

func TestFileWatcher_WaitReportsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))

	w, err := NewFileWatcher(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	got := make(chan tea.Msg, 1)
	go func() { got <- w.Wait()() }()

	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0o644))

	select {
	case msg := <-got:
		assert.IsType(t, fileChangedMsg{}, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestNewFileWatcher_MissingDir(t *testing.T) {
	_, err := NewFileWatcher(filepath.Join(t.TempDir(), "nope", "main.go"))
	assert.Error(t, err)
}
