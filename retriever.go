package campus

import "context"

// Passage is a piece of a university document returned by a Retriever.
// Score is in [0, 1]; higher is more relevant.
type Passage struct {
	Source string
	Text   string
	Score  float64
}

// Retriever finds the passages most relevant to a question.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]Passage, error)
}
