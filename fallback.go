package campus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Fallback is a Provider that opens a stream with the first provider that
// accepts the request. Providers are tried in order. A failure after the
// stream has opened is not retried.
type Fallback struct {
	Providers []Provider
	Logger    *slog.Logger // nil disables logging
}

// Interface compliance check.
var _ Provider = (*Fallback)(nil)

// Stream implements Provider.
func (f *Fallback) Stream(ctx context.Context, req Request) (Stream, error) {
	if len(f.Providers) == 0 {
		return nil, errors.New("fallback: no providers configured")
	}
	var errs []error
	for i, p := range f.Providers {
		s, err := p.Stream(ctx, req)
		if err == nil {
			return s, nil
		}
		if ctx.Err() != nil || errors.Is(err, ErrValidation) {
			return nil, err
		}
		errs = append(errs, err)
		if f.Logger != nil && i < len(f.Providers)-1 {
			f.Logger.Warn("provider failed, trying next", "index", i, "error", err)
		}
	}
	return nil, fmt.Errorf("fallback: all providers failed: %w", errors.Join(errs...))
}
