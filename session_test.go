package campus_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/campus"
	"github.com/stretchr/testify/assert"
)

func TestTitleFromQuestion(t *testing.T) {
	t.Parallel()

	t.Run("short question kept", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "When are fees due?", campus.TitleFromQuestion("When are fees due?"))
	})

	t.Run("whitespace collapsed", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "When are fees due?", campus.TitleFromQuestion("  When are\n\tfees   due?  "))
	})

	t.Run("long question cut at word boundary", func(t *testing.T) {
		t.Parallel()
		q := strings.Repeat("registration ", 10)
		got := campus.TitleFromQuestion(q)
		assert.True(t, strings.HasSuffix(got, "registration…"), got)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), 61)
	})

	t.Run("long word cut mid-word", func(t *testing.T) {
		t.Parallel()
		got := campus.TitleFromQuestion(strings.Repeat("a", 100))
		assert.Equal(t, strings.Repeat("a", 60)+"…", got)
	})
}

func TestSession_Summary(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := campus.Session{
		ID:    "s1",
		Title: "Fees",
		Messages: []campus.Message{
			campus.UserMessage{Content: "fees?"},
			campus.AssistantMessage{Content: "due in May"},
		},
		UpdatedAt: now,
	}
	assert.Equal(t, campus.SessionSummary{ID: "s1", Title: "Fees", MessageCount: 2, UpdatedAt: now}, s.Summary())
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("with greeting", func(t *testing.T) {
		t.Parallel()
		s := campus.NewSession("s1", campus.DefaultGreeting, now)
		assert.Equal(t, "s1", s.ID)
		assert.Equal(t, now, s.CreatedAt)
		assert.Equal(t, []campus.Message{
			campus.AssistantMessage{Content: campus.DefaultGreeting, StopReason: campus.StopEndTurn, Timestamp: now},
		}, s.Messages)
	})

	t.Run("without greeting", func(t *testing.T) {
		t.Parallel()
		s := campus.NewSession("s1", "", now)
		assert.Empty(t, s.Messages)
	})
}

func TestMessage_Role(t *testing.T) {
	t.Parallel()

	assert.Equal(t, campus.RoleUser, campus.UserMessage{}.Role())
	assert.Equal(t, campus.RoleAssistant, campus.AssistantMessage{}.Role())
	assert.Equal(t, "hi", campus.UserMessage{Content: "hi"}.Text())
}
