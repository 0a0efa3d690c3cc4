package mock

import (
	"context"

	"github.com/fwojciec/campus"
)

// Interface compliance check.
var _ campus.SessionStore = (*SessionStore)(nil)

// SessionStore is a test double for campus.SessionStore.
type SessionStore struct {
	SaveFn   func(ctx context.Context, s campus.Session) error
	GetFn    func(ctx context.Context, id string) (campus.Session, error)
	ListFn   func(ctx context.Context) ([]campus.SessionSummary, error)
	DeleteFn func(ctx context.Context, id string) error
}

// Save delegates to SaveFn.
func (m *SessionStore) Save(ctx context.Context, s campus.Session) error {
	return m.SaveFn(ctx, s)
}

// Get delegates to GetFn.
func (m *SessionStore) Get(ctx context.Context, id string) (campus.Session, error) {
	return m.GetFn(ctx, id)
}

// List delegates to ListFn.
func (m *SessionStore) List(ctx context.Context) ([]campus.SessionSummary, error) {
	return m.ListFn(ctx)
}

// Delete delegates to DeleteFn.
func (m *SessionStore) Delete(ctx context.Context, id string) error {
	return m.DeleteFn(ctx, id)
}
