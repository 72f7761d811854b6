package threadview

import "strings"

// formatCommand is a markdown toolbar action applied at the body cursor.
type formatCommand struct {
	name   string
	before string
	after  string
	// block commands start on their own paragraph and number with "%".
	block bool
}

var (
	fmtHeader   = formatCommand{name: "header", before: "### "}
	fmtBold     = formatCommand{name: "bold", before: "**", after: "**"}
	fmtItalic   = formatCommand{name: "italic", before: "_", after: "_"}
	fmtQuote    = formatCommand{name: "quote", before: "> ", block: true}
	fmtCode     = formatCommand{name: "code", before: "`", after: "`"}
	fmtLink     = formatCommand{name: "link", before: "[", after: "](url)"}
	fmtBullet   = formatCommand{name: "bulleted list", before: "- ", block: true}
	fmtNumbered = formatCommand{name: "numbered list", before: "%. ", block: true}
	fmtTask     = formatCommand{name: "task list", before: "- [ ] ", block: true}
)

// applyFormat applies cmd to text with the cursor at pos and returns the new
// text and cursor. At the end of the text the markers are appended with the
// cursor between them. Inside the text the word under the cursor is wrapped,
// and block commands are separated from the surrounding text by a blank
// line. A link leaves the cursor on its url.
func applyFormat(cmd formatCommand, text []rune, pos int) ([]rune, int) {
	pos = min(max(pos, 0), len(text))
	before := []rune(strings.Replace(cmd.before, "%", "1", 1))
	after := []rune(cmd.after)
	newLine := ""
	if cmd.block {
		newLine = "\n"
	}

	if pos == len(text) {
		var nlBefore []rune
		if pos > 0 {
			nlBefore = []rune(newLine + newLine)
		}
		out := make([]rune, 0, len(text)+len(nlBefore)+len(before)+len(after))
		out = append(out, text...)
		out = append(out, nlBefore...)
		out = append(out, before...)
		out = append(out, after...)
		return out, pos + len(nlBefore) + len(before)
	}

	start := wordStart(text, pos)
	end := wordEnd(text, pos)
	first, word, last := text[:start], text[start:end], text[end:]

	var nlBefore, nlAfter []rune
	if start > 0 && newLine != "" {
		nlBefore = []rune(newLine)
		if first[len(first)-1] != '\n' {
			nlBefore = append(nlBefore, '\n')
		}
	}
	if end < len(text) && newLine != "" {
		nlAfter = []rune(newLine)
		if last[0] != '\n' {
			nlAfter = append(nlAfter, '\n')
		}
	}

	out := make([]rune, 0, len(text)+len(nlBefore)+len(before)+len(after)+len(nlAfter))
	out = append(out, first...)
	out = append(out, nlBefore...)
	out = append(out, before...)
	out = append(out, word...)
	headLen := len(out)
	out = append(out, after...)
	out = append(out, nlAfter...)
	out = append(out, last...)

	if cmd == fmtLink {
		return out, headLen + 2
	}
	return out, pos + len(nlBefore) + len(before)
}

// wordStart returns the index after the last space or newline before pos.
func wordStart(text []rune, pos int) int {
	for i := pos - 1; i >= 0; i-- {
		if text[i] == ' ' || text[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

// wordEnd returns the index of the first space or newline at or after pos.
func wordEnd(text []rune, pos int) int {
	for i := pos; i < len(text); i++ {
		if text[i] == ' ' || text[i] == '\n' {
			return i
		}
	}
	return len(text)
}
