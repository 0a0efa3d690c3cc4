package bubbletea

import (
	"github.com/fwojciec/campus"
	"github.com/fwojciec/campus/goldmark"
	"github.com/fwojciec/campus/stream"
)

var _ MessageBlock = (*AssistantBlock)(nil)

// AssistantBlock renders the display blocks of one answer. The blocks are
// replaced wholesale on every snapshot; rendered output is cached per width
// until the next update.
type AssistantBlock struct {
	blocks  []campus.Block
	aborted bool
	theme   campus.Theme
	styles  Styles

	byWidth map[int]string
}

// NewAssistantBlock creates an empty AssistantBlock.
func NewAssistantBlock(theme campus.Theme, styles Styles) *AssistantBlock {
	return &AssistantBlock{
		theme:   theme,
		styles:  styles,
		byWidth: make(map[int]string),
	}
}

// SetBlocks replaces the rendered answer.
func (b *AssistantBlock) SetBlocks(blocks []campus.Block) {
	b.blocks = blocks
	clear(b.byWidth)
}

// Apply updates the block from a stream snapshot.
func (b *AssistantBlock) Apply(snap stream.Snapshot) {
	b.SetBlocks(snap.Blocks)
	b.aborted = snap.Outcome == stream.OutcomeAborted
}

// Empty reports whether the answer has no visible content.
func (b *AssistantBlock) Empty() bool {
	return len(b.blocks) == 0
}

func (b *AssistantBlock) View(width int) string {
	if cached, ok := b.byWidth[width]; ok {
		return cached
	}
	out := goldmark.Render(b.blocks, width, b.theme)
	if b.aborted {
		if out != "" {
			out += "\n"
		}
		out += b.styles.Muted.Render("(stopped)")
	}
	b.byWidth[width] = out
	return out
}
