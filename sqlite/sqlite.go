// Package sqlite implements campus.SessionStore on SQLite through the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/campus"
	_ "modernc.org/sqlite"
)

// Interface compliance check.
var _ campus.SessionStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	session_id      TEXT    NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	seq             INTEGER NOT NULL,
	role            TEXT    NOT NULL,
	content         TEXT    NOT NULL,
	stop_reason     TEXT    NOT NULL DEFAULT '',
	raw_stop_reason TEXT    NOT NULL DEFAULT '',
	input_tokens    INTEGER NOT NULL DEFAULT 0,
	output_tokens   INTEGER NOT NULL DEFAULT 0,
	created_at      TEXT    NOT NULL,
	PRIMARY KEY (session_id, seq)
);
CREATE INDEX IF NOT EXISTS sessions_updated_at ON sessions(updated_at);
`

// Store is a campus.SessionStore backed by one SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the session and replaces its messages in one transaction.
func (s *Store) Save(ctx context.Context, sess campus.Session) error {
	if sess.ID == "" {
		return fmt.Errorf("sqlite: empty session id: %w", campus.ErrValidation)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, created_at = excluded.created_at, updated_at = excluded.updated_at`,
		sess.ID, sess.Title, formatTime(sess.CreatedAt), formatTime(sess.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE session_id = ?", sess.ID); err != nil {
		return fmt.Errorf("sqlite: clear messages: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO messages (session_id, seq, role, content, stop_reason, raw_stop_reason, input_tokens, output_tokens, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare: %w", err)
	}
	defer stmt.Close()
	for i, msg := range sess.Messages {
		r := toRow(msg)
		_, err := stmt.ExecContext(ctx, sess.ID, i, r.role, r.content, r.stopReason, r.rawStopReason, r.inputTokens, r.outputTokens, formatTime(r.createdAt))
		if err != nil {
			return fmt.Errorf("sqlite: save message %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// Get loads one session with its messages in order.
func (s *Store) Get(ctx context.Context, id string) (campus.Session, error) {
	var sess campus.Session
	var created, updated string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, created_at, updated_at FROM sessions WHERE id = ?", id,
	).Scan(&sess.ID, &sess.Title, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return campus.Session{}, fmt.Errorf("session %q: %w", id, campus.ErrNotFound)
	}
	if err != nil {
		return campus.Session{}, fmt.Errorf("sqlite: get session: %w", err)
	}
	if sess.CreatedAt, err = parseTime(created); err != nil {
		return campus.Session{}, err
	}
	if sess.UpdatedAt, err = parseTime(updated); err != nil {
		return campus.Session{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT role, content, stop_reason, raw_stop_reason, input_tokens, output_tokens, created_at
		FROM messages WHERE session_id = ? ORDER BY seq`, id)
	if err != nil {
		return campus.Session{}, fmt.Errorf("sqlite: get messages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r row
		var ts string
		if err := rows.Scan(&r.role, &r.content, &r.stopReason, &r.rawStopReason, &r.inputTokens, &r.outputTokens, &ts); err != nil {
			return campus.Session{}, fmt.Errorf("sqlite: scan message: %w", err)
		}
		if r.createdAt, err = parseTime(ts); err != nil {
			return campus.Session{}, err
		}
		msg, err := r.message()
		if err != nil {
			return campus.Session{}, err
		}
		sess.Messages = append(sess.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return campus.Session{}, fmt.Errorf("sqlite: get messages: %w", err)
	}
	return sess, nil
}

// List returns session summaries, most recently updated first.
func (s *Store) List(ctx context.Context) ([]campus.SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.updated_at, COUNT(m.seq)
		FROM sessions s LEFT JOIN messages m ON m.session_id = s.id
		GROUP BY s.id
		ORDER BY s.updated_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list sessions: %w", err)
	}
	defer rows.Close()
	out := []campus.SessionSummary{}
	for rows.Next() {
		var sum campus.SessionSummary
		var updated string
		if err := rows.Scan(&sum.ID, &sum.Title, &updated, &sum.MessageCount); err != nil {
			return nil, fmt.Errorf("sqlite: scan session: %w", err)
		}
		if sum.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list sessions: %w", err)
	}
	return out, nil
}

// Delete removes a session and its messages.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("sqlite: delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %q: %w", id, campus.ErrNotFound)
	}
	return nil
}

// row is the flattened storage form of a message.
type row struct {
	role          string
	content       string
	stopReason    string
	rawStopReason string
	inputTokens   int
	outputTokens  int
	createdAt     time.Time
}

func toRow(msg campus.Message) row {
	r := row{role: string(msg.Role()), content: msg.Text()}
	switch m := msg.(type) {
	case campus.UserMessage:
		r.createdAt = m.Timestamp
	case campus.AssistantMessage:
		r.stopReason = string(m.StopReason)
		r.rawStopReason = m.RawStopReason
		r.inputTokens = m.Usage.InputTokens
		r.outputTokens = m.Usage.OutputTokens
		r.createdAt = m.Timestamp
	}
	return r
}

func (r row) message() (campus.Message, error) {
	switch campus.Role(r.role) {
	case campus.RoleUser:
		return campus.UserMessage{Content: r.content, Timestamp: r.createdAt}, nil
	case campus.RoleAssistant:
		return campus.AssistantMessage{
			Content:       r.content,
			StopReason:    campus.StopReason(r.stopReason),
			RawStopReason: r.rawStopReason,
			Usage:         campus.Usage{InputTokens: r.inputTokens, OutputTokens: r.outputTokens},
			Timestamp:     r.createdAt,
		}, nil
	default:
		return nil, fmt.Errorf("sqlite: unknown message role %q", r.role)
	}
}

// timeLayout is fixed width so that text order is chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}
