package campus

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

// Session represents one chat conversation.
type Session struct {
	ID        string
	Title     string
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionSummary is the listing view of a Session.
type SessionSummary struct {
	ID           string
	Title        string
	MessageCount int
	UpdatedAt    time.Time
}

// Summary returns the listing view of s.
func (s Session) Summary() SessionSummary {
	return SessionSummary{
		ID:           s.ID,
		Title:        s.Title,
		MessageCount: len(s.Messages),
		UpdatedAt:    s.UpdatedAt,
	}
}

// SessionStore persists chat history.
//
// Get returns an error wrapping ErrNotFound for unknown IDs. List returns
// summaries ordered by UpdatedAt, most recent first.
type SessionStore interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	List(ctx context.Context) ([]SessionSummary, error)
	Delete(ctx context.Context, id string) error
}

const maxTitleRunes = 60

// TitleFromQuestion derives a session title from the first question:
// whitespace is collapsed and long questions are cut at a word boundary.
func TitleFromQuestion(q string) string {
	title := strings.Join(strings.Fields(q), " ")
	if utf8.RuneCountInString(title) <= maxTitleRunes {
		return title
	}
	runes := []rune(title)[:maxTitleRunes]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > maxTitleRunes/2 {
		cut = cut[:i]
	}
	return cut + "…"
}
