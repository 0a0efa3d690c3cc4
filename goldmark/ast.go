package goldmark

import (
	"strings"

	"github.com/fwojciec/campus"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// KindCaret is the node kind of the streaming caret.
var KindCaret = ast.NewNodeKind("Caret")

// Caret is an inline node marking where streamed text will continue.
type Caret struct {
	ast.BaseInline
}

// Kind implements ast.Node.
func (n *Caret) Kind() ast.NodeKind { return KindCaret }

// Dump implements ast.Node.
func (n *Caret) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// codeCaret stands in for the caret inside code block lines, which can
// only hold source segments. Renderers replace it after rendering.
const codeCaret = "\uE000"

// document converts display blocks into a goldmark AST. Text is copied
// into the returned source and referenced by segment, the same way a
// parsed document refers to its input. Every text node is raw, so
// markdown syntax inside spans is never reinterpreted.
func document(blocks []campus.Block) (ast.Node, []byte) {
	b := &astBuilder{}
	doc := ast.NewDocument()
	for _, blk := range blocks {
		doc.AppendChild(doc, b.block(blk))
	}
	return doc, b.src
}

type astBuilder struct {
	src []byte
}

func (b *astBuilder) segment(s string) text.Segment {
	start := len(b.src)
	b.src = append(b.src, stripCaret(s)...)
	return text.NewSegment(start, len(b.src))
}

func (b *astBuilder) text(s string) *ast.Text {
	t := ast.NewTextSegment(b.segment(s))
	t.SetRaw(true)
	return t
}

func (b *astBuilder) block(blk campus.Block) ast.Node {
	switch blk := blk.(type) {
	case campus.Paragraph:
		p := ast.NewParagraph()
		for i, l := range blk.Lines {
			b.inline(p, l)
			if i < len(blk.Lines)-1 {
				br := ast.NewTextSegment(b.segment(""))
				br.SetHardLineBreak(true)
				p.AppendChild(p, br)
			}
		}
		return p
	case campus.Heading:
		h := ast.NewHeading(min(max(blk.Level, 1), 6))
		b.inline(h, blk.Text)
		return h
	case campus.List:
		marker := byte('-')
		if blk.Ordered {
			marker = '.'
		}
		list := ast.NewList(marker)
		list.IsTight = true
		list.Start = 1
		for _, item := range blk.Items {
			li := ast.NewListItem(2)
			tb := ast.NewTextBlock()
			b.inline(tb, item)
			li.AppendChild(li, tb)
			list.AppendChild(list, li)
		}
		return list
	case campus.CodeBlock:
		var info *ast.Text
		if blk.Language != "" {
			info = b.text(blk.Language)
		}
		code := ast.NewFencedCodeBlock(info)
		content := stripCaret(blk.Content)
		if blk.Caret {
			content += codeCaret
		}
		if content != "" {
			content += "\n"
			for _, l := range strings.SplitAfter(content, "\n") {
				if l == "" {
					continue
				}
				start := len(b.src)
				b.src = append(b.src, l...)
				code.Lines().Append(text.NewSegment(start, len(b.src)))
			}
		}
		return code
	}
	return ast.NewParagraph()
}

func stripCaret(s string) string {
	return strings.ReplaceAll(s, codeCaret, "\uFFFD")
}

func (b *astBuilder) inline(parent ast.Node, line campus.Line) {
	for _, s := range line {
		var n ast.Node
		switch s := s.(type) {
		case campus.Text:
			n = b.text(s.Text)
		case campus.Bold:
			n = ast.NewEmphasis(2)
			n.AppendChild(n, b.text(s.Text))
		case campus.Italic:
			n = ast.NewEmphasis(1)
			n.AppendChild(n, b.text(s.Text))
		case campus.Code:
			n = ast.NewCodeSpan()
			n.AppendChild(n, b.text(s.Text))
		case campus.Strikethrough:
			n = extast.NewStrikethrough()
			n.AppendChild(n, b.text(s.Text))
		case campus.Caret:
			n = &Caret{}
		default:
			continue
		}
		parent.AppendChild(parent, n)
	}
}
