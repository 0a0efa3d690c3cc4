package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("text filters below level", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger, err := newLogger(LogConfig{Level: "warn", Format: "text"}, &buf)
		require.NoError(t, err)
		logger.Info("hidden")
		logger.Warn("shown", "k", "v")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown k=v")
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger, err := newLogger(LogConfig{Level: "debug", Format: "JSON"}, &buf)
		require.NoError(t, err)
		logger.Debug("hello")
		assert.Contains(t, buf.String(), `"msg":"hello"`)
	})

	t.Run("bad level", func(t *testing.T) {
		t.Parallel()
		_, err := newLogger(LogConfig{Level: "loud"}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.level")
	})

	t.Run("bad format", func(t *testing.T) {
		t.Parallel()
		_, err := newLogger(LogConfig{Level: "info", Format: "xml"}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.format")
	})
}
