package campus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/campus"
	"github.com/fwojciec/campus/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failing(err error, calls *int) *mock.Provider {
	return &mock.Provider{StreamFn: func(context.Context, campus.Request) (campus.Stream, error) {
		*calls++
		return nil, err
	}}
}

func TestFallback(t *testing.T) {
	t.Parallel()

	req := campus.Request{Messages: []campus.Message{campus.UserMessage{Content: "Hi"}}}

	t.Run("first success wins", func(t *testing.T) {
		t.Parallel()
		var first, second int
		want := mock.TextStream("ok")
		f := &campus.Fallback{Providers: []campus.Provider{
			&mock.Provider{StreamFn: func(context.Context, campus.Request) (campus.Stream, error) {
				first++
				return want, nil
			}},
			failing(errors.New("unused"), &second),
		}}

		s, err := f.Stream(context.Background(), req)
		require.NoError(t, err)
		assert.Same(t, want, s)
		assert.Equal(t, 1, first)
		assert.Equal(t, 0, second)
	})

	t.Run("falls through failures", func(t *testing.T) {
		t.Parallel()
		var groq, cerebras int
		want := mock.TextStream("ok")
		f := &campus.Fallback{Providers: []campus.Provider{
			failing(errors.New("groq: HTTP 429"), &groq),
			failing(errors.New("cerebras: HTTP 503"), &cerebras),
			&mock.Provider{StreamFn: func(context.Context, campus.Request) (campus.Stream, error) {
				return want, nil
			}},
		}}

		s, err := f.Stream(context.Background(), req)
		require.NoError(t, err)
		assert.Same(t, want, s)
		assert.Equal(t, 1, groq)
		assert.Equal(t, 1, cerebras)
	})

	t.Run("all fail", func(t *testing.T) {
		t.Parallel()
		var a, b int
		errA := errors.New("groq down")
		errB := errors.New("gemini down")
		f := &campus.Fallback{Providers: []campus.Provider{failing(errA, &a), failing(errB, &b)}}

		_, err := f.Stream(context.Background(), req)
		require.Error(t, err)
		assert.ErrorIs(t, err, errA)
		assert.ErrorIs(t, err, errB)
		assert.Contains(t, err.Error(), "all providers failed")
	})

	t.Run("validation errors stop", func(t *testing.T) {
		t.Parallel()
		var a, b int
		f := &campus.Fallback{Providers: []campus.Provider{
			failing(campus.ErrValidation, &a),
			failing(errors.New("unused"), &b),
		}}

		_, err := f.Stream(context.Background(), req)
		require.ErrorIs(t, err, campus.ErrValidation)
		assert.Equal(t, 0, b)
	})

	t.Run("cancellation stops", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		var b int
		f := &campus.Fallback{Providers: []campus.Provider{
			&mock.Provider{StreamFn: func(ctx context.Context, _ campus.Request) (campus.Stream, error) {
				cancel()
				return nil, ctx.Err()
			}},
			failing(errors.New("unused"), &b),
		}}

		_, err := f.Stream(ctx, req)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, b)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		_, err := (&campus.Fallback{}).Stream(context.Background(), req)
		assert.Error(t, err)
	})
}
