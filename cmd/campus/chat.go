package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/campus"
	bt "github.com/fwojciec/campus/bubbletea"
	campushttp "github.com/fwojciec/campus/http"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newChatCmd(opts *options) *cobra.Command {
	var (
		sessionID string
		remote    string
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, keys, err := opts.load(cmd)
			if err != nil {
				return err
			}
			// The TUI owns the terminal, so logs go to a file.
			logger, closeLog, err := chatLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer closeLog()

			a, session, err := openChat(cmd.Context(), cfg, keys, logger, sessionID, remote)
			if err != nil {
				return err
			}
			defer a.Close()

			model := bt.New(a.chat.Run, &session, campus.RenderConfig{PremiumTheme: cfg.Theme.Premium})
			if err := bt.Run(cmd.Context(), model); err != nil {
				return fmt.Errorf("TUI: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "Resume the session with this ID")
	cmd.Flags().StringVar(&remote, "remote", "", "Chat through a campus server at this URL")
	return cmd
}

// openChat builds the app and the session for the chat command. A remote
// chat uses the local session id on the server too, so resuming a local
// session resumes the server conversation.
func openChat(ctx context.Context, cfg Config, keys apiKeys, logger *slog.Logger, sessionID, remote string) (*app, campus.Session, error) {
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, campus.Session{}, err
	}
	session, err := loadSession(ctx, store, sessionID, greeting(cfg.Chat))
	if err != nil {
		_ = closeStore()
		return nil, campus.Session{}, err
	}

	var provider campus.Provider
	if remote != "" {
		// The server retrieves context and applies the prompt.
		cfg.Knowledge.Root = ""
		cfg.Chat.SystemPromptFile = ""
		provider = campushttp.NewClient(remote, campushttp.WithSessionID(session.ID))
	} else {
		provider, err = appProvider(ctx, cfg, keys, logger)
		if err != nil {
			_ = closeStore()
			return nil, campus.Session{}, err
		}
	}
	a, err := newAppWithStore(cfg, provider, store, closeStore, logger)
	if err != nil {
		return nil, campus.Session{}, err
	}
	return a, session, nil
}

// loadSession resumes id, or starts a new session when id is empty.
func loadSession(ctx context.Context, store campus.SessionStore, id, greeting string) (campus.Session, error) {
	if id == "" {
		return campus.NewSession(uuid.NewString(), greeting, time.Now()), nil
	}
	session, err := store.Get(ctx, id)
	if errors.Is(err, campus.ErrNotFound) {
		return campus.Session{}, fmt.Errorf("session %q not found", id)
	}
	if err != nil {
		return campus.Session{}, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}

func chatLogger(cfg LogConfig) (*slog.Logger, func(), error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	dir = filepath.Join(dir, "campus")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "chat.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := newLogger(cfg, f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}
