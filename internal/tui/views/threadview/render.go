package threadview

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"github.com/hay-kot/threadline/internal/core/discussion"
	"github.com/hay-kot/threadline/internal/core/rows"
	"github.com/hay-kot/threadline/internal/core/styles"
	"github.com/hay-kot/threadline/internal/tui/components"
)

const timeFormat = "2006-01-02 15:04"

func (m *Model) newRenderer(width int) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.logger.Warn().Err(err).Msg("markdown renderer unavailable, showing raw comments")
		m.renderer = nil
		return
	}
	m.renderer = r
	m.rendererW = width
	m.rendered = make(map[string]string)
}

func (m *Model) renderHeader() string {
	title := styles.CommandHeaderStyle.Render(m.path)
	meta := styles.MutedStyle.Render(fmt.Sprintf(
		"  %d lines · %d threads · post %s",
		len(m.lines), len(m.amap.Spans), m.postID,
	))
	return ansi.Truncate(title+meta, m.width, "…")
}

func (m *Model) renderFooter() string {
	if m.status != "" {
		style := styles.SuccessStyle
		if m.statusErr {
			style = styles.ErrorStyle
		}
		text := ansi.Truncate(m.status, max(m.width-2, 0), "…")
		return styles.StatusBarStyle.Render(style.Render(components.PadRight(text, m.width-2)))
	}

	bindings := m.keys.ShortHelp()
	if _, open := m.rec.OpenLine(); open {
		bindings = m.keys.editorHelp()
	}
	return m.help.ShortHelpView(bindings)
}

// renderLine draws the gutter and content of one source line. The gutter is
// the control column, the cursor column, the line number and the thread
// marker.
func (m *Model) renderLine(l discussion.SourceLine) string {
	highlighted := m.sel.IsHighlighted(l.Index)
	control := false
	if h, ok := m.handles[l.Index]; ok {
		highlighted = h.highlighted
		control = h.control
	}

	ctrl := " "
	if control {
		ctrl = styles.AddControlStyle.Render(styles.IconAddComment)
	}
	cur := " "
	if l.Index == m.cursor {
		cur = styles.GutterCursorStyle.Render(styles.IconCursor)
	}

	numWidth := m.gutterWidth - controlWidth - 3
	num := fmt.Sprintf("%*d", numWidth, l.Index)
	switch {
	case highlighted:
		num = styles.GutterRangeStyle.Render(num)
	case l.Index == m.cursor:
		num = styles.GutterCursorStyle.Render(num)
	default:
		num = styles.GutterStyle.Render(num)
	}

	marker := " "
	badge := ""
	if bucket := m.amap.Buckets[l.Index]; len(bucket) > 0 {
		if m.expanded[l.Index] {
			marker = styles.ThreadMarkerStyle.Render(styles.IconExpanded)
		} else {
			marker = styles.ThreadMarkerStyle.Render(styles.IconCollapsed)
			badge = styles.CollapsedHintStyle.Render(fmt.Sprintf("  %s %d", styles.IconThread, len(bucket)))
		}
	}

	content := l.Content
	if m.width > 0 {
		room := max(m.width-m.gutterWidth-lipgloss.Width(badge), 0)
		content = ansi.Truncate(content, room, "…")
	}
	if highlighted {
		content = styles.LineRangeStyle.Render(content)
	}

	return ctrl + cur + num + " " + marker + " " + content + badge
}

// renderBlock draws the discussion block below an anchor line: the thread
// when expanded and the editor when a draft is open.
func (m *Model) renderBlock(it rows.Item) string {
	var parts []string

	if it.Expanded && len(it.Comments) > 0 {
		parts = append(parts, m.renderThread(it))
	}
	if it.Draft.Mode.IsOpen() {
		parts = append(parts, m.renderEditor(it.Anchor, it.Draft))
	}

	block := strings.Join(parts, "\n")
	return lipgloss.NewStyle().MarginLeft(m.gutterWidth).Render(block)
}

func (m *Model) renderThread(it rows.Item) string {
	var sb strings.Builder

	currentID := ""
	for i, c := range it.Comments {
		if c.ThreadID != currentID || i == 0 {
			currentID = c.ThreadID
			if i > 0 {
				sb.WriteString("\n")
			}
			if thread, ok := m.rec.ThreadByID(c.ThreadID); ok {
				sb.WriteString(m.renderThreadHeader(thread))
			} else {
				sb.WriteString(styles.ThreadTitleStyle.Render(styles.IconThread + " thread"))
			}
			sb.WriteString("\n")
		}

		sb.WriteString(m.renderComment(c))
		if i < len(it.Comments)-1 {
			sb.WriteString("\n")
		}
	}

	return styles.ThreadBorderStyle.Render(sb.String())
}

func (m *Model) renderThreadHeader(t discussion.Thread) string {
	span := fmt.Sprintf("L%d", t.EndLine)
	if t.StartLine != t.EndLine {
		span = fmt.Sprintf("L%d-%d", t.StartLine, t.EndLine)
	}

	header := styles.ThreadTitleStyle.Render(styles.IconThread + " " + t.Title)
	meta := styles.MutedStyle.Render(fmt.Sprintf("  %s · %s", span, pluralize(t.Replies(), "reply", "replies")))
	return header + meta
}

func (m *Model) renderComment(c discussion.Comment) string {
	prefix := ""
	if c.Kind == discussion.KindReply {
		prefix = "↳ "
	}

	head := prefix + styles.AuthorStyle.Render(c.AuthorName)
	if c.IsAuthorAccountOwner {
		head += " " + styles.OwnerBadgeStyle.Render("author")
	}
	if !c.CreatedAt.IsZero() {
		head += "  " + styles.TimestampStyle.Render(c.CreatedAt.Local().Format(timeFormat))
	}

	return head + "\n" + m.renderMarkdown(c)
}

// renderMarkdown renders a comment body, caching by ID for confirmed
// comments.
func (m *Model) renderMarkdown(c discussion.Comment) string {
	if m.renderer == nil {
		return c.Body
	}

	cacheKey := c.ID
	if cacheKey != "" {
		if out, ok := m.rendered[cacheKey]; ok {
			return out
		}
	}

	out, err := m.renderer.Render(c.Body)
	if err != nil {
		m.logger.Debug().Err(err).Str("comment_id", c.ID).Msg("markdown render failed")
		return c.Body
	}
	out = strings.Trim(out, "\n")

	if cacheKey != "" {
		m.rendered[cacheKey] = out
	}
	return out
}

func (m *Model) renderEditor(line int, d discussion.DraftState) string {
	var sb strings.Builder

	if d.IsReply() {
		sb.WriteString(styles.DraftLabelStyle.Render("Reply to " + d.Thread.Title))
	} else {
		label := fmt.Sprintf("New thread on line %d", line)
		if d.StartLine != line {
			label = fmt.Sprintf("New thread on lines %d-%d", d.StartLine, line)
		}
		sb.WriteString(styles.DraftLabelStyle.Render(label))
		sb.WriteString("\n")
		sb.WriteString(m.editor.title.View())
		sb.WriteString("\n")
		sb.WriteString(m.editor.start.View())
	}
	sb.WriteString("\n")
	sb.WriteString(m.renderEditorTabs())
	sb.WriteString("\n")
	if m.editor.preview {
		sb.WriteString(m.renderPreview(d.Body))
	} else {
		sb.WriteString(m.editor.body.View())
	}

	switch {
	case d.Mode == discussion.DraftSubmitting:
		sb.WriteString("\n")
		sb.WriteString(styles.DraftSubmittingStyle.Render(styles.IconPending + " posting"))
	case d.Err != nil:
		sb.WriteString("\n")
		sb.WriteString(styles.DraftErrorStyle.Render(d.Err.Error()))
	}

	return styles.DraftBorderStyle.Render(sb.String())
}

// renderEditorTabs marks whether the body shows the text or its rendered
// markdown.
func (m *Model) renderEditorTabs() string {
	write, prev := styles.DraftTabStyle, styles.MutedStyle
	if m.editor.preview {
		write, prev = prev, write
	}
	return write.Render("Write") + styles.MutedStyle.Render(" │ ") + prev.Render("Preview")
}

func (m *Model) renderPreview(body string) string {
	if strings.TrimSpace(body) == "" {
		return styles.MutedStyle.Render("Nothing to preview")
	}
	return m.renderMarkdown(discussion.Comment{Body: body})
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
