package threadview

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/hay-kot/threadline/internal/core/discussion"
	"github.com/hay-kot/threadline/internal/core/draft"
)

// submissionResultMsg carries a finished submission back to the event loop.
type submissionResultMsg struct {
	result draft.Result
}

// threadsLoadedMsg carries a reload from the store.
type threadsLoadedMsg struct {
	threads []discussion.Thread
	err     error
}

func submitCmd(ctx context.Context, s discussion.Submitter, a draft.Attempt) tea.Cmd {
	return func() tea.Msg {
		return submissionResultMsg{result: a.Run(ctx, s)}
	}
}

func loadThreadsCmd(ctx context.Context, src discussion.Source, postID, path string) tea.Cmd {
	return func() tea.Msg {
		threads, err := src.ListThreads(ctx, postID, path)
		return threadsLoadedMsg{threads: threads, err: err}
	}
}
