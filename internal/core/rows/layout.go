package rows

import "sort"

// Layout maps items to display rows. Rows are 0-indexed here because they
// address the viewport directly.
type Layout struct {
	starts  []int
	heights []int
	lineRow map[int]int
	total   int
}

// NewLayout assigns consecutive display rows to items. height returns the
// number of rows an item occupies; values below 1 are treated as 1 for line
// items and 0 for discussion items.
func NewLayout(items []Item, height func(Item) int) Layout {
	l := Layout{
		starts:  make([]int, len(items)),
		heights: make([]int, len(items)),
		lineRow: make(map[int]int, len(items)),
	}

	row := 0
	for i, it := range items {
		h := height(it)
		switch {
		case it.Kind == KindLine && h < 1:
			h = 1
		case h < 0:
			h = 0
		}

		l.starts[i] = row
		l.heights[i] = h
		if it.Kind == KindLine {
			l.lineRow[it.Line.Index] = row
		}
		row += h
	}
	l.total = row

	return l
}

// Total returns the number of display rows.
func (l Layout) Total() int {
	return l.total
}

// RowOf returns the display row of a source line.
func (l Layout) RowOf(line int) (int, bool) {
	row, ok := l.lineRow[line]
	return row, ok
}

// Start returns the first display row of item i.
func (l Layout) Start(i int) int {
	if i < 0 || i >= len(l.starts) {
		return -1
	}
	return l.starts[i]
}

// ItemAt returns the index of the item covering a display row and the row's
// offset within that item.
func (l Layout) ItemAt(row int) (idx, within int, ok bool) {
	if row < 0 || row >= l.total {
		return 0, 0, false
	}

	// First item whose end is past row. Zero-height items are skipped because
	// their end equals their start.
	i := sort.Search(len(l.starts), func(i int) bool {
		return l.starts[i]+l.heights[i] > row
	})
	if i == len(l.starts) {
		return 0, 0, false
	}
	return i, row - l.starts[i], true
}
