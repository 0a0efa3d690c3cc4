package http_test

import (
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/campus"
	campushttp "github.com/fwojciec/campus/http"
	"github.com/fwojciec/campus/markdown"
	"github.com/fwojciec/campus/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendBlocks(t *testing.T) {
	t.Parallel()

	t.Run("writes a blocks event", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		err := campushttp.SendBlocks(rec, stream.Snapshot{Blocks: markdown.Format("Hi", true)})

		require.NoError(t, err)
		assert.Contains(t, rec.Body.String(), "event: blocks\ndata: [")
	})

	t.Run("encoding failure is recorded", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		err := campushttp.SendBlocks(rec, stream.Snapshot{Blocks: []campus.Block{nil}})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "encode blocks")
		assert.Empty(t, rec.Body.String())
	})
}
