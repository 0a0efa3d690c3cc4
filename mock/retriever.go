package mock

import (
	"context"

	"github.com/fwojciec/campus"
)

// Interface compliance check.
var _ campus.Retriever = (*Retriever)(nil)

// Retriever is a test double for campus.Retriever.
type Retriever struct {
	RetrieveFn func(ctx context.Context, query string, k int) ([]campus.Passage, error)
}

// Retrieve delegates to RetrieveFn.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]campus.Passage, error) {
	return r.RetrieveFn(ctx, query, k)
}
