package goldmark

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/campus"
	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// CaretGlyph is drawn for the streaming caret in terminal output.
const CaretGlyph = "▍"

// Render renders blocks as ANSI-styled terminal text. Paragraphs and list
// items are word-wrapped to width. Code lines are truncated to width
// without reflow.
func Render(blocks []campus.Block, width int, theme campus.Theme) string {
	if len(blocks) == 0 {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	doc, source := document(blocks)
	r := newANSIRenderer(theme)
	var buf bytes.Buffer
	r.walkBlock(doc, source, width, &buf)
	return strings.TrimRight(buf.String(), "\n")
}

type ansiRenderer struct {
	bold   lipgloss.Style
	italic lipgloss.Style
	strike lipgloss.Style
	code   lipgloss.Style
	accent lipgloss.Style
	muted  lipgloss.Style
	caret  lipgloss.Style
}

func newANSIRenderer(theme campus.Theme) *ansiRenderer {
	return &ansiRenderer{
		bold:   lipgloss.NewStyle().Bold(true),
		italic: lipgloss.NewStyle().Italic(true),
		strike: lipgloss.NewStyle().Strikethrough(true),
		code:   lipgloss.NewStyle().Bold(true),
		accent: lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:  lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		caret:  lipgloss.NewStyle().Foreground(ansiColor(theme.Caret)),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *ansiRenderer) walkBlock(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderBlock(c, source, width, buf)
		if c.NextSibling() != nil {
			buf.WriteString("\n")
		}
	}
}

func (r *ansiRenderer) renderBlock(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Paragraph:
		inline := r.collectInline(n, source)
		buf.WriteString(lipgloss.NewStyle().Width(width).Render(inline))
		buf.WriteString("\n")

	case *ast.Heading:
		styled := r.accent.Render(r.collectInline(n, source))
		buf.WriteString(lipgloss.NewStyle().Width(width).Render(styled))
		buf.WriteString("\n")

	case *ast.FencedCodeBlock:
		lang := string(n.Language(source))
		if lang != "" {
			buf.WriteString(r.muted.Render(lang))
			buf.WriteString("\n")
		}
		hl := newHighlighter(lang)
		gutter := r.muted.Render("│") + " "
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content := strings.TrimRight(string(line.Value(source)), "\n")
			caret := strings.HasSuffix(content, codeCaret)
			content = strings.TrimSuffix(content, codeCaret)
			content = runewidth.Truncate(content, max(width-2, 10), "…")
			buf.WriteString(gutter + hl.line(content))
			if caret {
				buf.WriteString(r.caret.Render(CaretGlyph))
			}
			buf.WriteString("\n")
		}
		if lines.Len() == 0 {
			buf.WriteString(gutter + "\n")
		}

	case *ast.List:
		r.renderList(n, source, width, buf)
	}
}

func (r *ansiRenderer) renderList(node *ast.List, source []byte, width int, buf *bytes.Buffer) {
	num := node.Start
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		marker := "• "
		if node.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		r.writeListItem(buf, marker, r.collectInline(c.FirstChild(), source), width)
	}
}

// writeListItem writes a list item with continuation lines aligned under
// the item text.
func (r *ansiRenderer) writeListItem(buf *bytes.Buffer, marker, content string, width int) {
	markerWidth := runewidth.StringWidth(marker)
	itemWidth := max(width-markerWidth, 10)
	wrapped := lipgloss.NewStyle().Width(itemWidth).Render(content)
	continuation := strings.Repeat(" ", markerWidth)
	for i, line := range strings.Split(wrapped, "\n") {
		if i == 0 {
			buf.WriteString(r.muted.Render(marker) + line + "\n")
		} else {
			buf.WriteString(continuation + line + "\n")
		}
	}
}

// collectInline collects styled inline text from a node's children.
func (r *ansiRenderer) collectInline(node ast.Node, source []byte) string {
	if node == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.renderInline(c, source, &buf)
	}
	return buf.String()
}

func (r *ansiRenderer) renderInline(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		if n.HardLineBreak() {
			buf.WriteByte('\n')
		}

	case *ast.Emphasis:
		inner := r.collectInline(n, source)
		if n.Level == 1 {
			buf.WriteString(r.italic.Render(inner))
		} else {
			buf.WriteString(r.bold.Render(inner))
		}

	case *ast.CodeSpan:
		buf.WriteString(r.code.Render(r.collectInline(n, source)))

	case *extast.Strikethrough:
		buf.WriteString(r.strike.Render(r.collectInline(n, source)))

	case *Caret:
		buf.WriteString(r.caret.Render(CaretGlyph))
	}
}
