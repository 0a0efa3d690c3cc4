package knowledge

import (
	"context"
	"math"
	"slices"

	"github.com/fwojciec/campus"
)

// Interface compliance check.
var _ campus.Retriever = (*Index)(nil)

// BM25 parameters.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// Index is an in-memory keyword index over passages.
//
// A passage's Score is the idf-weighted share of the query's distinct terms
// it contains, in [0, 1]. Passages are ranked by Score, then by BM25.
type Index struct {
	passages []campus.Passage
	terms    []map[string]int // term frequencies per passage
	lengths  []int
	df       map[string]int
	avgLen   float64
}

// NewIndex indexes passages.
func NewIndex(passages []campus.Passage) *Index {
	idx := &Index{
		passages: passages,
		terms:    make([]map[string]int, len(passages)),
		lengths:  make([]int, len(passages)),
		df:       make(map[string]int),
	}
	total := 0
	for i, p := range passages {
		tf := make(map[string]int)
		toks := Tokenize(p.Text)
		for _, t := range toks {
			tf[t]++
		}
		for t := range tf {
			idx.df[t]++
		}
		idx.terms[i] = tf
		idx.lengths[i] = len(toks)
		total += len(toks)
	}
	if len(passages) > 0 {
		idx.avgLen = float64(total) / float64(len(passages))
	}
	return idx
}

// Build chunks and indexes documents.
func Build(docs []Document, size, overlap int) *Index {
	var passages []campus.Passage
	for _, d := range docs {
		passages = append(passages, Chunk(d, size, overlap)...)
	}
	return NewIndex(passages)
}

// Len returns the number of indexed passages.
func (idx *Index) Len() int {
	return len(idx.passages)
}

// Retrieve returns up to k passages matching query, best first. Passages
// sharing no term with the query are never returned.
func (idx *Index) Retrieve(ctx context.Context, query string, k int) ([]campus.Passage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	qterms := unique(Tokenize(query))
	if k <= 0 || len(qterms) == 0 || len(idx.passages) == 0 {
		return nil, nil
	}

	idf := make(map[string]float64, len(qterms))
	var idfSum float64
	for _, t := range qterms {
		n := float64(len(idx.passages))
		df := float64(idx.df[t])
		idf[t] = math.Log(1 + (n-df+0.5)/(df+0.5))
		idfSum += idf[t]
	}

	type hit struct {
		i     int
		score float64
		bm25  float64
	}
	var hits []hit
	for i, tf := range idx.terms {
		var covered, bm25 float64
		for _, t := range qterms {
			f := float64(tf[t])
			if f == 0 {
				continue
			}
			covered += idf[t]
			norm := 1 - bm25B + bm25B*float64(idx.lengths[i])/idx.avgLen
			bm25 += idf[t] * f * (bm25K1 + 1) / (f + bm25K1*norm)
		}
		if covered == 0 {
			continue
		}
		hits = append(hits, hit{i: i, score: covered / idfSum, bm25: bm25})
	}
	slices.SortStableFunc(hits, func(a, b hit) int {
		if c := cmpDesc(a.score, b.score); c != 0 {
			return c
		}
		return cmpDesc(a.bm25, b.bm25)
	})

	out := make([]campus.Passage, 0, min(k, len(hits)))
	for _, h := range hits[:min(k, len(hits))] {
		p := idx.passages[h.i]
		p.Score = h.score
		out = append(out, p)
	}
	return out, nil
}

func cmpDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

func unique(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := terms[:0:0]
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
