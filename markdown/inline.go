package markdown

import (
	"strings"

	"github.com/fwojciec/campus"
)

// Spans splits one line into inline spans in a single left-to-right pass.
// Recognized pairs are **bold**, ~~strikethrough~~, *italic* and `code`,
// tried in that order at each position. An emphasis delimiter must not be
// followed by whitespace when opening or preceded by whitespace when
// closing. A delimiter without a partner on the same line stays literal
// text, so a half-streamed "**bold" never swallows the rest of the line.
func Spans(line string) campus.Line {
	var (
		spans campus.Line
		text  strings.Builder
	)
	emit := func(s campus.Span) {
		if text.Len() > 0 {
			spans = append(spans, campus.Text{Text: text.String()})
			text.Reset()
		}
		spans = append(spans, s)
	}

	for i := 0; i < len(line); {
		switch {
		case strings.HasPrefix(line[i:], "**"):
			if end, ok := closeEmphasis(line, i+2, "**"); ok {
				emit(campus.Bold{Text: line[i+2 : end]})
				i = end + 2
				continue
			}
			text.WriteString("**")
			i += 2
		case strings.HasPrefix(line[i:], "~~"):
			if end, ok := closeEmphasis(line, i+2, "~~"); ok {
				emit(campus.Strikethrough{Text: line[i+2 : end]})
				i = end + 2
				continue
			}
			text.WriteString("~~")
			i += 2
		case line[i] == '*':
			if end, ok := closeItalic(line, i+1); ok {
				emit(campus.Italic{Text: line[i+1 : end]})
				i = end + 1
				continue
			}
			text.WriteByte('*')
			i++
		case line[i] == '`':
			if end := strings.IndexByte(line[i+1:], '`'); end > 0 {
				emit(campus.Code{Text: line[i+1 : i+1+end]})
				i += end + 2
				continue
			}
			text.WriteByte('`')
			i++
		default:
			text.WriteByte(line[i])
			i++
		}
	}
	if text.Len() > 0 {
		spans = append(spans, campus.Text{Text: text.String()})
	}
	return spans
}

// closeEmphasis finds the closing delim for content starting at from and
// returns its index.
func closeEmphasis(line string, from int, delim string) (int, bool) {
	if from >= len(line) || isSpace(line[from]) {
		return 0, false
	}
	for j := from + 1; j < len(line); {
		k := strings.Index(line[j:], delim)
		if k < 0 {
			return 0, false
		}
		end := j + k
		if !isSpace(line[end-1]) {
			return end, true
		}
		j = end + 1
	}
	return 0, false
}

// closeItalic finds a single closing '*', skipping over "**" pairs.
func closeItalic(line string, from int) (int, bool) {
	if from >= len(line) || isSpace(line[from]) {
		return 0, false
	}
	for j := from + 1; j < len(line); j++ {
		if line[j] != '*' {
			continue
		}
		if j+1 < len(line) && line[j+1] == '*' {
			j++
			continue
		}
		if !isSpace(line[j-1]) {
			return j, true
		}
	}
	return 0, false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
