package json

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/campus"
)

// envelope is the v1 wire format for a persisted session.
type envelope struct {
	Version   int          `json:"version"`
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Messages  []messageDTO `json:"messages"`
}

// MarshalSession serializes a Session to JSON in v1 envelope format.
func MarshalSession(s campus.Session) ([]byte, error) {
	msgs, err := marshalMessages(s.Messages)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(envelope{
		Version:   1,
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Messages:  msgs,
	}, "", "  ")
}

// UnmarshalSession deserializes a Session from JSON in v1 envelope format.
func UnmarshalSession(data []byte) (campus.Session, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return campus.Session{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return campus.Session{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	msgs := make([]campus.Message, len(env.Messages))
	for i, dto := range env.Messages {
		msg, err := unmarshalMessage(dto)
		if err != nil {
			return campus.Session{}, fmt.Errorf("message %d: %w", i, err)
		}
		msgs[i] = msg
	}
	return campus.Session{
		ID:        env.ID,
		Title:     env.Title,
		CreatedAt: env.CreatedAt,
		UpdatedAt: env.UpdatedAt,
		Messages:  msgs,
	}, nil
}
