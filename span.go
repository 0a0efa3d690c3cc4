package campus

import "strings"

// Span is a sealed interface representing a run of inline-formatted text.
type Span interface {
	span()
}

// Text is literal text, including any delimiter that never found its pair.
type Text struct {
	Text string
}

func (Text) span() {}

// Bold is text that was wrapped in **double asterisks**.
type Bold struct {
	Text string
}

func (Bold) span() {}

// Italic is text that was wrapped in *single asterisks*.
type Italic struct {
	Text string
}

func (Italic) span() {}

// Code is text that was wrapped in `backticks`.
type Code struct {
	Text string
}

func (Code) span() {}

// Strikethrough is text that was wrapped in ~~double tildes~~.
type Strikethrough struct {
	Text string
}

func (Strikethrough) span() {}

// Caret marks the end of a message that is still streaming.
type Caret struct{}

func (Caret) span() {}

// Interface compliance checks.
var (
	_ Span = Text{}
	_ Span = Bold{}
	_ Span = Italic{}
	_ Span = Code{}
	_ Span = Strikethrough{}
	_ Span = Caret{}
)

// PlainText returns the visible text of a line with formatting dropped.
// The caret contributes nothing.
func (l Line) PlainText() string {
	var b strings.Builder
	for _, s := range l {
		switch s := s.(type) {
		case Text:
			b.WriteString(s.Text)
		case Bold:
			b.WriteString(s.Text)
		case Italic:
			b.WriteString(s.Text)
		case Code:
			b.WriteString(s.Text)
		case Strikethrough:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// CountCarets returns how many carets appear across blocks.
func CountCarets(blocks []Block) int {
	n := 0
	count := func(l Line) {
		for _, s := range l {
			if _, ok := s.(Caret); ok {
				n++
			}
		}
	}
	for _, b := range blocks {
		switch b := b.(type) {
		case Paragraph:
			for _, l := range b.Lines {
				count(l)
			}
		case Heading:
			count(b.Text)
		case List:
			for _, l := range b.Items {
				count(l)
			}
		case CodeBlock:
			if b.Caret {
				n++
			}
		}
	}
	return n
}
