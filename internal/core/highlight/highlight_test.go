package highlight

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goSource = `package main

func main() {
	println("hi")
}
`

func TestLineCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{text: "", want: 0},
		{text: "a", want: 1},
		{text: "a\n", want: 1},
		{text: "a\nb", want: 2},
		{text: "a\n\n", want: 2},
		{text: "\n", want: 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LineCount(tt.text), "%q", tt.text)
	}
}

func TestTokenizer_LinesPlain(t *testing.T) {
	tok := New(PlainTheme, nil)

	lines, err := tok.Lines(goSource, "go")
	require.NoError(t, err)
	require.Len(t, lines, 5)

	want := []string{"package main", "", "func main() {", "\tprintln(\"hi\")", "}"}
	for i, line := range lines {
		assert.Equal(t, i+1, line.Index)
		assert.Equal(t, want[i], line.Content)
	}
}

func TestTokenizer_LinesColored(t *testing.T) {
	tok := New("monokai", nil)

	lines, err := tok.Lines(goSource, "go")
	require.NoError(t, err)
	require.Len(t, lines, 5)

	assert.Contains(t, lines[0].Content, "\x1b[", "colored output carries escape codes")
	assert.Equal(t, "package main", ansi.Strip(lines[0].Content))
	for _, line := range lines {
		assert.NotContains(t, line.Content, "\n")
	}
}

func TestTokenizer_UnknownLanguageFallsBack(t *testing.T) {
	tok := New(PlainTheme, nil)

	lines, err := tok.Lines("one\ntwo", "no-such-language")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "two", lines[1].Content)
}

func TestTokenizer_Empty(t *testing.T) {
	lines, err := New(PlainTheme, nil).Lines("", "go")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestTokenizer_Language(t *testing.T) {
	tok := New(PlainTheme, map[string]string{
		"**/*.tmpl":       "go-html-template",
		"scripts/**":      "bash",
		"scripts/**/*.py": "python",
		"Jenkinsfile":     "groovy",
	})

	tests := []struct {
		path string
		want string
	}{
		{path: "web/views/index.tmpl", want: "go-html-template"},
		{path: "scripts/deploy", want: "bash"},
		{path: "scripts/tools/gen.py", want: "python"},
		{path: "ci/Jenkinsfile", want: "groovy"},
		{path: "cmd/main.go", want: "go"},
		{path: "notes.unknownext", want: Plaintext},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, tok.Language(tt.path, ""))
		})
	}
}

func TestSnippet(t *testing.T) {
	snip := Snippet("a\nb\nc\nd\n")

	assert.Equal(t, "b\nc", snip(2, 3))
	assert.Equal(t, "a", snip(0, 1))
	assert.Equal(t, "c\nd", snip(3, 99))
	assert.Empty(t, snip(4, 2))
	assert.Empty(t, Snippet("")(1, 1))
	assert.Equal(t, 4, len(strings.Split(snip(1, 4), "\n")))
}
