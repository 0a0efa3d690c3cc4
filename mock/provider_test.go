package mock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/campus"
	"github.com/fwojciec/campus/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Stream(t *testing.T) {
	t.Parallel()
	t.Run("delegates to StreamFn", func(t *testing.T) {
		t.Parallel()
		var s mock.Stream
		p := mock.Provider{
			StreamFn: func(ctx context.Context, req campus.Request) (campus.Stream, error) {
				return &s, nil
			},
		}
		got, err := p.Stream(context.Background(), campus.Request{})
		require.NoError(t, err)
		assert.Equal(t, &s, got)
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("api error")
		p := mock.Provider{
			StreamFn: func(ctx context.Context, req campus.Request) (campus.Stream, error) {
				return nil, wantErr
			},
		}
		_, err := p.Stream(context.Background(), campus.Request{})
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("panics when StreamFn not set", func(t *testing.T) {
		t.Parallel()
		p := mock.Provider{}
		assert.Panics(t, func() {
			_, _ = p.Stream(context.Background(), campus.Request{})
		})
	})
}

func TestRetriever_Retrieve(t *testing.T) {
	t.Parallel()
	want := []campus.Passage{{Source: "fees.md", Text: "Fees are due", Score: 1}}
	r := mock.Retriever{
		RetrieveFn: func(ctx context.Context, query string, k int) ([]campus.Passage, error) {
			assert.Equal(t, "fees", query)
			assert.Equal(t, 3, k)
			return want, nil
		},
	}
	got, err := r.Retrieve(context.Background(), "fees", 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSink(t *testing.T) {
	t.Parallel()
	var s mock.Sink
	s.OnChunk("a")
	s.OnChunk("b")
	s.OnError("boom")
	assert.Equal(t, []string{"a", "b"}, s.Chunks())
	assert.Equal(t, []string{"error"}, s.Terminal())
	assert.Equal(t, "boom", s.ErrorMessage())
}
