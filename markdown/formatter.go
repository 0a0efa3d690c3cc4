package markdown

import (
	"slices"
	"strings"

	"github.com/fwojciec/campus"
)

// Formatter is an incremental Format. It remembers the blocks of the
// longest prefix that ends with a blank line outside a code fence; no later
// text can change how such a prefix is normalized or segmented, so only the
// remainder is parsed again. Output is identical to Format.
//
// A Formatter is not safe for concurrent use. Returned blocks share memory
// with its cache and must not be modified.
type Formatter struct {
	stable string
	blocks []campus.Block
}

// Format returns Format(text, streaming). Text that does not extend the
// previous call's stable prefix resets the cache.
func (f *Formatter) Format(text string, streaming bool) []campus.Block {
	if !strings.HasPrefix(text, f.stable) {
		f.Reset()
	}
	if cut := len(f.stable) + stableLen(text[len(f.stable):]); cut > len(f.stable) {
		f.blocks = append(f.blocks, Segment(Normalize(text[len(f.stable):cut]))...)
		f.stable = text[:cut]
	}
	blocks := append(slices.Clip(f.blocks), Segment(Normalize(text[len(f.stable):]))...)
	if streaming {
		return withCaret(blocks)
	}
	return blocks
}

// Reset drops the cached prefix.
func (f *Formatter) Reset() {
	f.stable = ""
	f.blocks = nil
}

// stableLen returns the length of the longest prefix of text that ends
// just after a newline-terminated blank line outside any code fence.
// Text is assumed to start outside a fence.
func stableLen(text string) int {
	cut := 0
	inCode := false
	for pos := 0; ; {
		nl := strings.IndexByte(text[pos:], '\n')
		if nl < 0 {
			return cut
		}
		line := text[pos : pos+nl]
		switch {
		case inCode:
			inCode = !closingFence(line)
		case isFenceOpen(line):
			inCode = true
		case strings.TrimSpace(line) == "":
			cut = pos + nl + 1
		}
		pos += nl + 1
	}
}
