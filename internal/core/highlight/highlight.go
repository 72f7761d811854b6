// Package highlight turns file text into per-line pre-rendered source lines
// using chroma. Each line is a self-contained ANSI string, so the renderer
// can place discussion blocks between any two lines.
package highlight

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/hay-kot/threadline/internal/core/discussion"
)

// PlainTheme disables coloring.
const PlainTheme = "none"

// Plaintext is the language reported when nothing better matches.
const Plaintext = "plaintext"

// Tokenizer renders source text line by line.
type Tokenizer struct {
	style     *chroma.Style
	formatter chroma.Formatter
	rules     []rule
}

type rule struct {
	pattern string
	lexer   string
}

// New creates a tokenizer for the chroma style named theme. languages maps
// doublestar globs to lexer names and takes precedence over filename
// detection; more specific (longer) patterns are tried first.
func New(theme string, languages map[string]string) *Tokenizer {
	t := &Tokenizer{
		style:     styles.Get(theme),
		formatter: formatters.Get("terminal256"),
	}
	if theme == PlainTheme {
		t.formatter = formatters.NoOp
	}

	for pattern, lexer := range languages {
		t.rules = append(t.rules, rule{pattern: pattern, lexer: lexer})
	}
	sort.Slice(t.rules, func(i, j int) bool {
		if len(t.rules[i].pattern) != len(t.rules[j].pattern) {
			return len(t.rules[i].pattern) > len(t.rules[j].pattern)
		}
		return t.rules[i].pattern < t.rules[j].pattern
	})

	return t
}

// Language resolves the lexer name for a file. Configured globs are matched
// against both the path and its base name, then chroma's filename
// detection, then content analysis.
func (t *Tokenizer) Language(path, text string) string {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, r := range t.rules {
		if ok, _ := doublestar.Match(r.pattern, slashed); ok {
			return r.lexer
		}
		if ok, _ := doublestar.Match(r.pattern, base); ok {
			return r.lexer
		}
	}

	if l := lexers.Match(base); l != nil {
		return strings.ToLower(l.Config().Name)
	}
	if text != "" {
		if l := lexers.Analyse(text); l != nil {
			return strings.ToLower(l.Config().Name)
		}
	}
	return Plaintext
}

// Lines splits text into 1-indexed source lines rendered for language. An
// unknown language falls back to plain text. A trailing newline does not
// produce an extra empty line.
func (t *Tokenizer) Lines(text, language string) ([]discussion.SourceLine, error) {
	n := LineCount(text)
	if n == 0 {
		return nil, nil
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenise %s: %w", language, err)
	}
	tokenLines := chroma.SplitTokensIntoLines(it.Tokens())

	out := make([]discussion.SourceLine, n)
	var sb strings.Builder
	for i := range n {
		out[i].Index = i + 1
		if i >= len(tokenLines) {
			continue
		}

		sb.Reset()
		if err := t.formatter.Format(&sb, t.style, chroma.Literator(trimNewline(tokenLines[i])...)); err != nil {
			return nil, fmt.Errorf("failed to format line %d: %w", i+1, err)
		}
		out[i].Content = sb.String()
	}

	return out, nil
}

// trimNewline drops the line terminator from the last tokens of a line so
// formatted output never contains a newline.
func trimNewline(tokens []chroma.Token) []chroma.Token {
	out := make([]chroma.Token, 0, len(tokens))
	for _, tok := range tokens {
		tok.Value = strings.TrimRight(tok.Value, "\r\n")
		if tok.Value == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// LineCount returns the number of lines in text, not counting the empty
// remainder after a trailing newline.
func LineCount(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

// Snippet returns a function that extracts lines start..end (1-indexed,
// inclusive) from text, clamped to the lines that exist.
func Snippet(text string) func(start, end int) string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	return func(start, end int) string {
		start = max(start, 1)
		end = min(end, len(lines))
		if text == "" || start > end {
			return ""
		}
		return strings.Join(lines[start-1:end], "\n")
	}
}
