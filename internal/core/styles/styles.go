// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	MutedStyle         lipgloss.Style
	ErrorStyle         lipgloss.Style
	SuccessStyle       lipgloss.Style

	// Source view.
	GutterStyle        lipgloss.Style
	GutterCursorStyle  lipgloss.Style
	GutterRangeStyle   lipgloss.Style
	LineRangeStyle     lipgloss.Style
	AddControlStyle    lipgloss.Style
	ThreadMarkerStyle  lipgloss.Style
	CollapsedHintStyle lipgloss.Style

	// Discussion blocks.
	ThreadBorderStyle lipgloss.Style
	ThreadTitleStyle  lipgloss.Style
	AuthorStyle       lipgloss.Style
	OwnerBadgeStyle   lipgloss.Style
	TimestampStyle    lipgloss.Style

	// Draft editor.
	DraftBorderStyle     lipgloss.Style
	DraftLabelStyle      lipgloss.Style
	DraftSubmittingStyle lipgloss.Style
	DraftErrorStyle      lipgloss.Style
	DraftTabStyle        lipgloss.Style

	// Chrome.
	StatusBarStyle  lipgloss.Style
	HelpStyle       lipgloss.Style
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	CommandHeaderStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	DividerStyle = lipgloss.NewStyle().Foreground(p.Muted)
	MutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)

	GutterStyle = lipgloss.NewStyle().Foreground(p.Muted)
	GutterCursorStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	GutterRangeStyle = lipgloss.NewStyle().Foreground(p.Background).Background(p.Primary)
	LineRangeStyle = lipgloss.NewStyle().Background(Blend(p.Background, p.Primary, rangeTint))
	AddControlStyle = lipgloss.NewStyle().Foreground(p.Success).Bold(true)
	ThreadMarkerStyle = lipgloss.NewStyle().Foreground(p.Warning)
	CollapsedHintStyle = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)

	ThreadBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(p.Muted).
		PaddingLeft(1)
	ThreadTitleStyle = lipgloss.NewStyle().Foreground(p.Foreground).Bold(true)
	AuthorStyle = lipgloss.NewStyle().Foreground(p.Secondary)
	OwnerBadgeStyle = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Warning).
		Padding(0, 1)
	TimestampStyle = lipgloss.NewStyle().Foreground(p.Muted)

	DraftBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(p.Primary).
		PaddingLeft(1)
	DraftLabelStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	DraftSubmittingStyle = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)
	DraftErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	DraftTabStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true).Underline(true)

	StatusBarStyle = lipgloss.NewStyle().Foreground(p.Foreground).Background(p.Surface).Padding(0, 1)
	HelpStyle = lipgloss.NewStyle().Foreground(p.Muted)
	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Foreground)
}

// rangeTint is how far the range background leans from the background
// towards the primary color.
const rangeTint = 0.2

// Blend mixes from towards to by t in Lab space. A nil color on either side
// returns from unchanged.
func Blend(from, to color.Color, t float64) color.Color {
	if from == nil || to == nil {
		return from
	}
	a, ok := colorful.MakeColor(from)
	if !ok {
		return from
	}
	b, ok := colorful.MakeColor(to)
	if !ok {
		return from
	}
	return a.BlendLab(b, t).Clamped()
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

// Hex returns c as a #rrggbb string, or "" for nil.
func Hex(c color.Color) string {
	if c == nil {
		return ""
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return ""
	}
	return cc.Hex()
}

func hexPtr(c color.Color) *string {
	h := Hex(c)
	if h == "" {
		return nil
	}
	return &h
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() ansi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	p := CurrentPalette
	fg := hexPtr(p.Foreground)
	primary := hexPtr(p.Primary)
	secondary := hexPtr(p.Secondary)
	muted := hexPtr(p.Muted)

	// Comment bodies sit inside an indented block; drop the document margin.
	zero := uint(0)
	cfg.Document.Margin = &zero
	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = primary
	cfg.H1.BackgroundColor = nil
	cfg.H2.Color = primary
	cfg.H3.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary

	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	return cfg
}
