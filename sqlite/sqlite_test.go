package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/campus"
	"github.com/fwojciec/campus/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSession(id string, updated time.Time) campus.Session {
	created := time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)
	return campus.Session{
		ID:        id,
		Title:     "Library hours",
		CreatedAt: created,
		UpdatedAt: updated,
		Messages: []campus.Message{
			campus.AssistantMessage{Content: "Hello! I'm KCA Connect AI.", StopReason: campus.StopEndTurn, Timestamp: created},
			campus.UserMessage{Content: "When is the library open?", Timestamp: created.Add(time.Second)},
			campus.AssistantMessage{
				Content:       "- Weekdays: **8am–9pm**",
				StopReason:    campus.StopEndTurn,
				RawStopReason: "stop",
				Usage:         campus.Usage{InputTokens: 120, OutputTokens: 9},
				Timestamp:     created.Add(1500 * time.Millisecond),
			},
		},
	}
}

func TestStore_SaveGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openStore(t)
	sess := sampleSession("s1", time.Date(2026, 2, 18, 12, 5, 0, 0, time.UTC))

	require.NoError(t, store.Save(ctx, sess))
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	sess.Title = "Library"
	sess.Messages = sess.Messages[:2]
	require.NoError(t, store.Save(ctx, sess))
	got, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestStore_List(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openStore(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, sampleSession("a", base)))
	require.NoError(t, store.Save(ctx, sampleSession("b", base.Add(500*time.Millisecond))))
	require.NoError(t, store.Save(ctx, campus.Session{ID: "c", Title: "empty", UpdatedAt: base.Add(time.Second)}))

	got, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []campus.SessionSummary{
		{ID: "c", Title: "empty", MessageCount: 0, UpdatedAt: base.Add(time.Second)},
		{ID: "b", Title: "Library hours", MessageCount: 3, UpdatedAt: base.Add(500 * time.Millisecond)},
		{ID: "a", Title: "Library hours", MessageCount: 3, UpdatedAt: base},
	}, got)
}

func TestStore_ListEmpty(t *testing.T) {
	t.Parallel()
	got, err := openStore(t).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openStore(t)
	require.NoError(t, store.Save(ctx, sampleSession("s1", time.Now())))

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, campus.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "s1"), campus.ErrNotFound)
}

func TestStore_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openStore(t)

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, campus.ErrNotFound)
	assert.ErrorIs(t, store.Save(ctx, campus.Session{}), campus.ErrValidation)
}

func TestStore_Reopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")
	sess := sampleSession("s1", time.Date(2026, 2, 18, 12, 5, 0, 0, time.UTC))

	store, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Close())

	store, err = sqlite.Open(path)
	require.NoError(t, err)
	defer store.Close()
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestStore_ConcurrentSaves(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openStore(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := sampleSession(string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute))
			assert.NoError(t, store.Save(ctx, sess))
		}()
	}
	wg.Wait()

	got, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 8)
	assert.Equal(t, "h", got[0].ID)
}
