package knowledge

import (
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/campus"
)

// Chunking defaults, in runes.
const (
	DefaultChunkSize    = 1500
	DefaultChunkOverlap = 300
)

// Chunk splits a document into passages of at most size runes. Passages
// break at blank lines where possible; consecutive passages share up to
// overlap runes of trailing paragraphs.
func Chunk(doc Document, size, overlap int) []campus.Passage {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var paras []string
	for _, p := range strings.Split(doc.Text, "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		paras = append(paras, splitLong(p, size)...)
	}

	var out []campus.Passage
	var cur []string
	curLen := 0
	flush := func() {
		if len(cur) > 0 {
			out = append(out, campus.Passage{Source: doc.Source, Text: strings.Join(cur, "\n\n")})
		}
	}
	for _, p := range paras {
		n := utf8.RuneCountInString(p)
		if len(cur) > 0 && curLen+2+n > size {
			flush()
			cur, curLen = tail(cur, overlap, size-n-2)
		}
		if len(cur) > 0 {
			curLen += 2
		}
		cur = append(cur, p)
		curLen += n
	}
	flush()
	return out
}

// tail keeps the trailing paragraphs of prev that fit in both the overlap
// budget and the room left for the next paragraph.
func tail(prev []string, overlap, room int) ([]string, int) {
	limit := min(overlap, room)
	total := 0
	i := len(prev)
	for i > 0 {
		n := utf8.RuneCountInString(prev[i-1])
		if total > 0 {
			n += 2
		}
		if total+n > limit {
			break
		}
		total += n
		i--
	}
	return append([]string(nil), prev[i:]...), total
}

// splitLong cuts a paragraph longer than size at word boundaries.
func splitLong(p string, size int) []string {
	if utf8.RuneCountInString(p) <= size {
		return []string{p}
	}
	var out []string
	var b strings.Builder
	n := 0
	for _, w := range strings.Fields(p) {
		wn := utf8.RuneCountInString(w)
		if n > 0 && n+1+wn > size {
			out = append(out, b.String())
			b.Reset()
			n = 0
		}
		if n > 0 {
			b.WriteByte(' ')
			n++
		}
		b.WriteString(w)
		n += wn
	}
	if n > 0 {
		out = append(out, b.String())
	}
	return out
}
