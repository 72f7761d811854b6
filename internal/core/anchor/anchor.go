// Package anchor groups discussion threads by the line they annotate and
// computes the row offsets introduced when discussion rows are interleaved
// with source lines.
//
// # Offsets
//
// In layouts where each reply occupies its own row, every thread inserts
// rows below its anchor line, which shifts all later source lines down.
// Threads are processed in ascending end-line order with a running offset
// starting at 0:
//
//	effective span = StartLine+offset .. EndLine+offset
//	offset        += replies + 1   (the +1 only with DedicatedRootRow)
//
// Positional selectors ("highlight the Nth rendered row") use the effective
// span, not the logical one.
package anchor

import (
	"sort"

	"github.com/hay-kot/threadline/internal/core/discussion"
)

// Options controls row accounting.
type Options struct {
	// DedicatedRootRow counts one row for the root comment of every thread,
	// so a thread with zero replies still advances the offset by 1.
	DedicatedRootRow bool
}

// DefaultOptions returns the layout where the root comment gets its own row.
func DefaultOptions() Options {
	return Options{DedicatedRootRow: true}
}

// Span is the position of one thread before and after offset correction.
type Span struct {
	ThreadID       string
	StartLine      int // Clamped logical range
	EndLine        int
	EffectiveStart int
	EffectiveEnd   int
	Offset         int // Running offset before this thread
	Rows           int // Rows this thread inserts after its anchor line
}

// Map is the output of Build.
type Map struct {
	Buckets map[int][]discussion.Comment // Keyed by clamped end line
	Offsets map[string]int               // Thread ID -> offset before the thread
	Spans   []Span                       // In processing order
	Clamped []string                     // IDs of threads whose lines were out of range
	Total   int                          // Offset after the last thread
}

// Build buckets thread comments by end line and computes the offset table.
//
// lineCount is the number of lines in the file. Lines past it are clamped to
// the last line and lines below 1 are clamped to 1; lineCount <= 0 disables
// the upper bound. Build never fails: a stale thread against a shortened
// file still renders, just on the last line.
func Build(threads []discussion.Thread, lineCount int, opts Options) Map {
	m := Map{
		Buckets: make(map[int][]discussion.Comment, len(threads)),
		Offsets: make(map[string]int, len(threads)),
		Spans:   make([]Span, 0, len(threads)),
	}

	type entry struct {
		thread     discussion.Thread
		start, end int
	}

	entries := make([]entry, 0, len(threads))
	for _, t := range threads {
		start, end, clamped := clampRange(t.StartLine, t.EndLine, lineCount)
		if clamped {
			m.Clamped = append(m.Clamped, t.ID)
		}
		entries = append(entries, entry{thread: t, start: start, end: end})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.end != b.end {
			return a.end < b.end
		}
		if a.start != b.start {
			return a.start < b.start
		}
		return a.thread.ID < b.thread.ID
	})

	rootRow := 0
	if opts.DedicatedRootRow {
		rootRow = 1
	}

	offset := 0
	for _, e := range entries {
		rows := e.thread.Replies() + rootRow

		m.Offsets[e.thread.ID] = offset
		m.Spans = append(m.Spans, Span{
			ThreadID:       e.thread.ID,
			StartLine:      e.start,
			EndLine:        e.end,
			EffectiveStart: e.start + offset,
			EffectiveEnd:   e.end + offset,
			Offset:         offset,
			Rows:           rows,
		})
		m.Buckets[e.end] = append(m.Buckets[e.end], orderComments(e.thread.Comments)...)

		offset += rows
	}
	m.Total = offset

	return m
}

// EffectiveLine maps a source line to its rendered row index, accounting
// for rows inserted by threads anchored strictly above it.
func (m Map) EffectiveLine(line int) int {
	offset := 0
	for _, s := range m.Spans {
		if s.EndLine >= line {
			break
		}
		offset += s.Rows
	}
	return line + offset
}

// SpanFor returns the span of the thread with the given ID.
func (m Map) SpanFor(threadID string) (Span, bool) {
	for _, s := range m.Spans {
		if s.ThreadID == threadID {
			return s, true
		}
	}
	return Span{}, false
}

// ThreadsAt returns the IDs of the threads displayed at line, in bucket
// order. More than one ID is returned when stale threads were clamped onto
// the same line.
func (m Map) ThreadsAt(line int) []string {
	var ids []string
	for _, s := range m.Spans {
		if s.EndLine == line {
			ids = append(ids, s.ThreadID)
		}
	}
	return ids
}

// Clamp returns copies of threads with their ranges forced into the file,
// along with the IDs of the threads that moved.
func Clamp(threads []discussion.Thread, lineCount int) ([]discussion.Thread, []string) {
	out := make([]discussion.Thread, 0, len(threads))
	var moved []string
	for _, t := range threads {
		c := t.Clone()
		var clamped bool
		c.StartLine, c.EndLine, clamped = clampRange(t.StartLine, t.EndLine, lineCount)
		if clamped {
			moved = append(moved, t.ID)
		}
		out = append(out, c)
	}
	return out, moved
}

// clampRange forces 1 <= start <= end <= lineCount.
func clampRange(start, end, lineCount int) (int, int, bool) {
	origStart, origEnd := start, end

	if lineCount > 0 {
		end = min(end, lineCount)
		start = min(start, lineCount)
	}
	end = max(end, 1)
	start = max(start, 1)
	if start > end {
		start = end
	}

	return start, end, start != origStart || end != origEnd
}

// orderComments returns the root first followed by replies in arrival
// order. A comment without a kind is treated as the root only when it is
// first in the slice.
func orderComments(comments []discussion.Comment) []discussion.Comment {
	ranks := make([]int, len(comments))
	idx := make([]int, len(comments))
	for i, c := range comments {
		idx[i] = i
		if c.Kind != discussion.KindRoot && (c.Kind != "" || i != 0) {
			ranks[i] = 1
		}
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if ranks[ia] != ranks[ib] {
			return ranks[ia] < ranks[ib]
		}
		return comments[ia].CreatedAt.Before(comments[ib].CreatedAt)
	})

	ordered := make([]discussion.Comment, len(comments))
	for i, j := range idx {
		ordered[i] = comments[j]
	}
	return ordered
}
