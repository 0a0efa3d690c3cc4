package json_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/campus"
	campusjson "github.com/fwojciec/campus/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("save and get", func(t *testing.T) {
		t.Parallel()
		store := campusjson.NewFileStore(filepath.Join(t.TempDir(), "history"))
		sess := sampleSession()

		require.NoError(t, store.Save(ctx, sess))
		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess, got)

		sess.Title = "renamed"
		require.NoError(t, store.Save(ctx, sess))
		got, err = store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Title)
	})

	t.Run("list orders by update time", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		store := campusjson.NewFileStore(dir)
		base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		offsets := map[string]time.Duration{"old": 0, "mid": time.Hour, "new": 2 * time.Hour}
		for _, id := range []string{"old", "new", "mid"} {
			require.NoError(t, store.Save(ctx, campus.Session{
				ID:        id,
				Title:     id,
				UpdatedAt: base.Add(offsets[id]),
			}))
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o600))

		got, err := store.List(ctx)
		require.NoError(t, err)
		ids := make([]string, len(got))
		for i, s := range got {
			ids[i] = s.ID
		}
		assert.Equal(t, []string{"new", "mid", "old"}, ids)
	})

	t.Run("list missing dir", func(t *testing.T) {
		t.Parallel()
		store := campusjson.NewFileStore(filepath.Join(t.TempDir(), "absent"))
		got, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		store := campusjson.NewFileStore(t.TempDir())
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, campus.ErrNotFound)
		assert.ErrorIs(t, store.Delete(ctx, "nope"), campus.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		store := campusjson.NewFileStore(t.TempDir())
		require.NoError(t, store.Save(ctx, campus.Session{ID: "a"}))
		require.NoError(t, store.Delete(ctx, "a"))
		_, err := store.Get(ctx, "a")
		assert.ErrorIs(t, err, campus.ErrNotFound)
	})

	t.Run("invalid ids", func(t *testing.T) {
		t.Parallel()
		store := campusjson.NewFileStore(t.TempDir())
		for _, id := range []string{"", "../etc", "a/b", `a\b`, ".hidden"} {
			assert.ErrorIs(t, store.Save(ctx, campus.Session{ID: id}), campus.ErrValidation, id)
			_, err := store.Get(ctx, id)
			assert.ErrorIs(t, err, campus.ErrValidation, id)
		}
	})
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.json")
	sess := sampleSession()

	require.NoError(t, campusjson.Save(path, sess))
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	got, err := campusjson.Load(path)
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	_, err = campusjson.Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
