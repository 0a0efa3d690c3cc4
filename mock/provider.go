// Package mock provides test doubles for campus interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/campus"
)

// Interface compliance check.
var _ campus.Provider = (*Provider)(nil)

// Provider is a test double for campus.Provider.
// Set StreamFn before calling Stream.
type Provider struct {
	StreamFn func(ctx context.Context, req campus.Request) (campus.Stream, error)
}

// Stream delegates to StreamFn.
func (p *Provider) Stream(ctx context.Context, req campus.Request) (campus.Stream, error) {
	return p.StreamFn(ctx, req)
}
