package goldmark

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlighter colors code one line at a time so escape sequences never
// span the gutter of the next line.
type highlighter struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter
}

// newHighlighter returns nil when lang is not a known language.
func newHighlighter(lang string) *highlighter {
	if lang == "" {
		return nil
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return nil
	}
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	// 16-color output follows the terminal's own palette, like the theme.
	formatter := formatters.Get("terminal16")
	if formatter == nil {
		return nil
	}
	return &highlighter{
		lexer:     chroma.Coalesce(lexer),
		style:     style,
		formatter: formatter,
	}
}

func (h *highlighter) line(s string) string {
	if h == nil || s == "" {
		return s
	}
	iterator, err := h.lexer.Tokenise(nil, s)
	if err != nil {
		return s
	}
	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return s
	}
	return strings.ReplaceAll(buf.String(), "\n", "")
}
