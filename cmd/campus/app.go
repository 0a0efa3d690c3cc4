package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fwojciec/campus"
	campusjson "github.com/fwojciec/campus/json"
	"github.com/fwojciec/campus/knowledge"
	"github.com/fwojciec/campus/sqlite"
)

// app holds the components shared by the serve and chat commands.
type app struct {
	cfg       Config
	logger    *slog.Logger
	provider  campus.Provider
	store     campus.SessionStore
	index     *knowledge.Index
	chat      *campus.Chat
	greeting  string
	closeFunc func() error
}

// newApp wires config into components. Close must be called when done.
func newApp(ctx context.Context, cfg Config, keys apiKeys, logger *slog.Logger) (*app, error) {
	provider, err := appProvider(ctx, cfg, keys, logger)
	if err != nil {
		return nil, err
	}
	return newAppWithProvider(cfg, provider, logger)
}

// appProvider resolves the configured provider. When provider auto finds no
// API key the provider is nil and answers come from the documents alone.
func appProvider(ctx context.Context, cfg Config, keys apiKeys, logger *slog.Logger) (campus.Provider, error) {
	provider, err := resolveProvider(ctx, cfg.Provider, keys, logger)
	if errors.Is(err, errNoAPIKey) {
		logger.Warn("no model available, answering from documents only", "error", err)
		return nil, nil
	}
	return provider, err
}

func newAppWithProvider(cfg Config, provider campus.Provider, logger *slog.Logger) (*app, error) {
	store, closeFunc, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	return newAppWithStore(cfg, provider, store, closeFunc, logger)
}

// newAppWithStore takes ownership of store; closeFunc runs on Close, also
// when construction fails.
func newAppWithStore(cfg Config, provider campus.Provider, store campus.SessionStore, closeFunc func() error, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger, provider: provider, store: store, closeFunc: closeFunc}

	index, err := loadKnowledge(cfg.Knowledge, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.index = index

	prompt, err := systemPrompt(cfg.Chat.SystemPromptFile)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.greeting = greeting(cfg.Chat)

	opts := []campus.ChatOption{
		campus.WithSessionStore(store),
		campus.WithSystemPrompt(prompt),
		campus.WithModel(cfg.Provider.Model),
		campus.WithMaxTokens(cfg.Provider.MaxTokens),
		campus.WithHistoryLimit(cfg.History.Limit),
		campus.WithLogger(logger),
	}
	if t := cfg.Provider.Temperature; t != nil {
		opts = append(opts, campus.WithTemperature(*t))
	}
	if index != nil && index.Len() > 0 {
		opts = append(opts, campus.WithRetriever(index, cfg.Knowledge.TopK, cfg.Knowledge.Threshold))
	}
	a.chat = campus.NewChat(provider, opts...)
	return a, nil
}

func greeting(cfg ChatConfig) string {
	if cfg.Greeting == "" {
		return campus.DefaultGreeting
	}
	return cfg.Greeting
}

// Close releases the session store.
func (a *app) Close() error {
	return a.closeFunc()
}

// documents returns the number of indexed passages.
func (a *app) documents() int {
	if a.index == nil {
		return 0
	}
	return a.index.Len()
}

func openStore(cfg Config) (campus.SessionStore, func() error, error) {
	path := cfg.historyPath()
	switch cfg.History.Driver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("create history directory: %w", err)
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return campusjson.NewFileStore(path), func() error { return nil }, nil
	}
}

// loadKnowledge indexes the document folder. A missing folder leaves the
// assistant without document context.
func loadKnowledge(cfg KnowledgeConfig, logger *slog.Logger) (*knowledge.Index, error) {
	if cfg.Root == "" {
		return nil, nil
	}
	if _, err := os.Stat(cfg.Root); errors.Is(err, fs.ErrNotExist) {
		logger.Warn("documents folder not found, answering without context", "root", cfg.Root)
		return nil, nil
	}
	docs, err := knowledge.Load(os.DirFS(cfg.Root), cfg.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	index := knowledge.Build(docs, cfg.ChunkSize, cfg.ChunkOverlap)
	logger.Info("documents indexed", "files", len(docs), "passages", index.Len())
	return index, nil
}

func systemPrompt(path string) (string, error) {
	if path == "" {
		return campus.DefaultSystemPrompt, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read system prompt: %w", err)
	}
	return string(data), nil
}
