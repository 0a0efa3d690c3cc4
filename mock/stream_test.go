package mock_test

import (
	"errors"
	"io"
	"testing"

	"github.com/fwojciec/campus"
	"github.com/fwojciec/campus/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_Next(t *testing.T) {
	t.Parallel()
	t.Run("delegates to NextFn", func(t *testing.T) {
		t.Parallel()
		want := campus.EventTextDelta{Delta: "hello"}
		s := mock.Stream{
			NextFn: func() (campus.Event, error) {
				return want, nil
			},
		}
		got, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("panics when NextFn not set", func(t *testing.T) {
		t.Parallel()
		s := mock.Stream{}
		assert.Panics(t, func() {
			_, _ = s.Next()
		})
	})
}

func TestStream_State(t *testing.T) {
	t.Parallel()
	t.Run("returns StreamStateNew when StateFn not set", func(t *testing.T) {
		t.Parallel()
		s := mock.Stream{}
		assert.Equal(t, campus.StreamStateNew, s.State())
	})
}

func TestStream_Close(t *testing.T) {
	t.Parallel()
	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("close error")
		s := mock.Stream{CloseFn: func() error { return wantErr }}
		assert.ErrorIs(t, s.Close(), wantErr)
	})

	t.Run("returns nil when CloseFn not set", func(t *testing.T) {
		t.Parallel()
		s := mock.Stream{}
		assert.NoError(t, s.Close())
	})
}

func TestTextStream(t *testing.T) {
	t.Parallel()
	s := mock.TextStream("Hel", "lo")
	var got []campus.Event
	for {
		evt, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, evt)
	}
	assert.Equal(t, []campus.Event{
		campus.EventTextDelta{Delta: "Hel"},
		campus.EventTextDelta{Delta: "lo"},
	}, got)
	msg, err := s.Message()
	require.NoError(t, err)
	assert.Equal(t, "Hello", msg.Content)
	assert.Equal(t, campus.StopEndTurn, msg.StopReason)
}
