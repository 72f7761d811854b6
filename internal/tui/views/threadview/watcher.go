package threadview

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/hay-kot/threadline/internal/core/discussion"
)

// RefreshFunc re-reads and re-tokenizes the reviewed file.
type RefreshFunc func(ctx context.Context) ([]discussion.SourceLine, error)

// fileChangedMsg is sent when the reviewed file changes on disk.
type fileChangedMsg struct{}

// linesLoadedMsg carries a re-tokenized file.
type linesLoadedMsg struct {
	lines []discussion.SourceLine
	err   error
}

// FileWatcher watches a single file for writes. The parent directory is
// watched rather than the file so editors that save by renaming a temp file
// over the original are still seen.
type FileWatcher struct {
	watcher     *fsnotify.Watcher
	path        string
	debounceDur time.Duration
}

// NewFileWatcher creates a watcher for path.
func NewFileWatcher(path string) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &FileWatcher{
		watcher:     watcher,
		path:        abs,
		debounceDur: 100 * time.Millisecond,
	}, nil
}

// Wait returns a command that blocks until the file changes. It must be
// re-issued after every fileChangedMsg.
func (w *FileWatcher) Wait() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if !w.matches(event) {
					continue
				}

				// Editors often write in several steps.
				time.Sleep(w.debounceDur)
				w.drain()
				return fileChangedMsg{}

			case _, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func (w *FileWatcher) matches(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *FileWatcher) drain() {
	for {
		select {
		case <-w.watcher.Events:
		default:
			return
		}
	}
}

// Close stops the watcher. A pending Wait returns nil.
func (w *FileWatcher) Close() error {
	return w.watcher.Close()
}

func refreshCmd(ctx context.Context, refresh RefreshFunc) tea.Cmd {
	return func() tea.Msg {
		lines, err := refresh(ctx)
		return linesLoadedMsg{lines: lines, err: err}
	}
}
