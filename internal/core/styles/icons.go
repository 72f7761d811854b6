package styles

// Gutter glyphs. Plain characters so they render without a nerd font.
var (
	IconAddComment = "+"
	IconThread     = "●"
	IconCollapsed  = "▸"
	IconExpanded   = "▾"
	IconCursor     = "›"
	IconPending    = "…"
)
