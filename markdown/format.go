// Package markdown turns streamed assistant text into display blocks.
//
// The pipeline is Normalize, then Segment (which calls Spans for every
// non-code line), then an optional streaming caret. Format runs the whole
// pipeline over the full text on every call; Formatter produces the same
// output while reusing the blocks of a stable prefix.
package markdown

import (
	"slices"

	"github.com/fwojciec/campus"
)

// Format converts accumulated text into display blocks. It is a pure
// function of its arguments and never fails. While streaming, exactly one
// caret is attached after the last character of the last block; for empty
// text that is a paragraph holding only the caret.
func Format(text string, streaming bool) []campus.Block {
	blocks := Segment(Normalize(text))
	if streaming {
		return withCaret(blocks)
	}
	return blocks
}

// withCaret returns a copy of blocks with a caret attached to the end of
// the last block. Input slices are not modified.
func withCaret(blocks []campus.Block) []campus.Block {
	if len(blocks) == 0 {
		return []campus.Block{campus.Paragraph{Lines: []campus.Line{{campus.Caret{}}}}}
	}
	out := slices.Clone(blocks)
	last := len(out) - 1
	switch b := out[last].(type) {
	case campus.Paragraph:
		b.Lines = appendCaret(b.Lines)
		out[last] = b
	case campus.Heading:
		b.Text = append(slices.Clip(b.Text), campus.Caret{})
		out[last] = b
	case campus.List:
		b.Items = appendCaret(b.Items)
		out[last] = b
	case campus.CodeBlock:
		b.Caret = true
		out[last] = b
	}
	return out
}

func appendCaret(ls []campus.Line) []campus.Line {
	ls = slices.Clone(ls)
	n := len(ls) - 1
	ls[n] = append(slices.Clip(ls[n]), campus.Caret{})
	return ls
}
