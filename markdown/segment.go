package markdown

import (
	"strings"

	"github.com/fwojciec/campus"
)

type openKind int

const (
	openNone openKind = iota
	openParagraph
	openOrdered
	openUnordered
)

// segmenter groups classified lines into blocks. Exactly one block is open
// at a time.
type segmenter struct {
	blocks []campus.Block
	kind   openKind
	lines  []string

	inCode bool
	lang   string
	code   []string
}

// Segment splits normalized text into display blocks. Lines are classified
// after leading indentation is dropped, so nested list items flatten into
// their parent list. Segment never fails; text that matches no block rule
// becomes a paragraph.
func Segment(text string) []campus.Block {
	var s segmenter
	for _, l := range lines(text) {
		s.line(l)
	}
	s.end()
	return s.blocks
}

func (s *segmenter) line(raw string) {
	if s.inCode {
		if closingFence(raw) {
			s.flushCode()
			return
		}
		s.code = append(s.code, raw)
		return
	}
	if lang, ok := openingFence(raw); ok {
		s.flush()
		s.inCode = true
		s.lang = lang
		return
	}
	line := strings.TrimLeft(raw, " \t")
	if strings.TrimSpace(line) == "" {
		s.flush()
		return
	}
	if level, text, ok := heading(line); ok {
		s.flush()
		s.blocks = append(s.blocks, campus.Heading{Level: level, Text: Spans(text)})
		return
	}
	if text, ok := orderedItem(line); ok {
		s.item(openOrdered, text)
		return
	}
	if text, ok := unorderedItem(line); ok {
		s.item(openUnordered, text)
		return
	}
	// Lists do not absorb continuation lines.
	if s.kind != openParagraph {
		s.flush()
		s.kind = openParagraph
	}
	s.lines = append(s.lines, line)
}

func (s *segmenter) item(kind openKind, text string) {
	if s.kind != kind {
		s.flush()
		s.kind = kind
	}
	s.lines = append(s.lines, text)
}

func (s *segmenter) flush() {
	if len(s.lines) > 0 {
		spans := make([]campus.Line, len(s.lines))
		for i, l := range s.lines {
			spans[i] = Spans(l)
		}
		switch s.kind {
		case openParagraph:
			s.blocks = append(s.blocks, campus.Paragraph{Lines: spans})
		case openOrdered, openUnordered:
			s.blocks = append(s.blocks, campus.List{Ordered: s.kind == openOrdered, Items: spans})
		}
	}
	s.kind = openNone
	s.lines = nil
}

func (s *segmenter) flushCode() {
	s.blocks = append(s.blocks, campus.CodeBlock{
		Language: s.lang,
		Content:  strings.Join(s.code, "\n"),
	})
	s.inCode = false
	s.lang = ""
	s.code = nil
}

// end flushes whatever is open. An unterminated code block keeps the
// content received so far.
func (s *segmenter) end() {
	if s.inCode {
		s.flushCode()
		return
	}
	s.flush()
}

// heading matches "#{1,6}" followed by whitespace and non-blank text.
func heading(line string) (level int, text string, ok bool) {
	n := countPrefix(line, '#')
	if n < 1 || n > 6 {
		return 0, "", false
	}
	text, ok = markerText(line[n:])
	return n, text, ok
}

// orderedItem matches digits, a dot, whitespace and non-blank text.
func orderedItem(line string) (string, bool) {
	n := countDigits(line)
	if n == 0 || n >= len(line) || line[n] != '.' {
		return "", false
	}
	return markerText(line[n+1:])
}

// unorderedItem matches one of - * • followed by whitespace and non-blank
// text.
func unorderedItem(line string) (string, bool) {
	var rest string
	switch {
	case strings.HasPrefix(line, "-"), strings.HasPrefix(line, "*"):
		rest = line[1:]
	case strings.HasPrefix(line, bullet):
		rest = line[len(bullet):]
	default:
		return "", false
	}
	return markerText(rest)
}

// markerText checks that rest starts with whitespace and carries
// non-blank text, and returns that text trimmed.
func markerText(rest string) (string, bool) {
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	text := strings.TrimSpace(rest)
	return text, text != ""
}
