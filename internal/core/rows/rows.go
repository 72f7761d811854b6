// Package rows merges tokenized source lines with anchored discussion blocks
// into the ordered sequence the renderer walks.
//
// # Line Coordinate System
//
// Two coordinate systems are in play:
//
//  1. Source coordinates: line numbers in the file (1-indexed)
//  2. Display coordinates: row numbers after discussion blocks are inserted
//     (1-indexed)
//
// Sequence produces items in source order; Layout assigns display rows to
// them given the height of each item. Both are pure functions of their
// inputs, so a windowed subrange of lines yields the same items for those
// lines as the full file would.
package rows

import (
	"sort"

	"github.com/hay-kot/threadline/internal/core/discussion"
)

// Kind identifies what an Item renders.
type Kind int

const (
	KindLine Kind = iota
	KindDiscussion
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindDiscussion:
		return "discussion"
	default:
		return "unknown"
	}
}

// Item is one entry of the render sequence.
type Item struct {
	Kind Kind
	Line discussion.SourceLine // KindLine only

	// KindDiscussion only.
	Anchor   int
	Comments []discussion.Comment
	Draft    discussion.DraftState
	Expanded bool
}

// Sequence emits a line item for every line in ascending index order, each
// followed by a discussion item when the line's bucket is expanded or its
// draft is open.
//
// A draft on a line with an empty bucket still gets a discussion item so a
// new-thread editor has somewhere to render.
func Sequence(
	lines []discussion.SourceLine,
	buckets map[int][]discussion.Comment,
	expanded map[int]bool,
	drafts map[int]discussion.DraftState,
) []Item {
	sorted := append([]discussion.SourceLine(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})

	items := make([]Item, 0, len(sorted)+len(buckets))
	for _, line := range sorted {
		items = append(items, Item{Kind: KindLine, Line: line})

		bucket := buckets[line.Index]
		d, hasDraft := drafts[line.Index]
		draftOpen := hasDraft && d.Mode.IsOpen()

		if (len(bucket) > 0 && expanded[line.Index]) || draftOpen {
			if !draftOpen {
				d = discussion.DraftState{Mode: discussion.DraftClosed}
			}
			items = append(items, Item{
				Kind:     KindDiscussion,
				Anchor:   line.Index,
				Comments: append([]discussion.Comment(nil), bucket...),
				Draft:    d,
				Expanded: expanded[line.Index],
			})
		}
	}

	return items
}
