package json

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/campus"
)

// Interface compliance check.
var _ campus.SessionStore = (*FileStore)(nil)

// FileStore is a campus.SessionStore keeping one JSON file per session
// in a directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a store rooted at dir. The directory is created on
// first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Save writes the session, replacing any previous version.
func (s *FileStore) Save(_ context.Context, sess campus.Session) error {
	path, err := s.path(sess.ID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Save(path, sess)
}

// Get loads one session.
func (s *FileStore) Get(_ context.Context, id string) (campus.Session, error) {
	path, err := s.path(id)
	if err != nil {
		return campus.Session{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return campus.Session{}, fmt.Errorf("session %q: %w", id, campus.ErrNotFound)
	}
	return sess, err
}

// List returns summaries of all stored sessions, most recent first.
// Files that fail to decode are skipped.
func (s *FileStore) List(_ context.Context) ([]campus.SessionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names, err := doublestar.Glob(os.DirFS(s.dir), "*.json")
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	out := make([]campus.SessionSummary, 0, len(names))
	for _, name := range names {
		sess, err := Load(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		out = append(out, sess.Summary())
	}
	slices.SortFunc(out, func(a, b campus.SessionSummary) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return out, nil
}

// Delete removes a session.
func (s *FileStore) Delete(_ context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("session %q: %w", id, campus.ErrNotFound)
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *FileStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid session id %q: %w", id, campus.ErrValidation)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Save writes a Session to a JSON file, creating parent directories as needed.
func Save(path string, sess campus.Session) error {
	data, err := MarshalSession(sess)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Session from a JSON file.
func Load(path string) (campus.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return campus.Session{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalSession(data)
}
