package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/campus/knowledge"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "campus.yaml"

// Config is the file configuration. Zero values are replaced by defaults.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Provider  ProviderConfig  `yaml:"provider"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	History   HistoryConfig   `yaml:"history"`
	Chat      ChatConfig      `yaml:"chat"`
	Theme     ThemeConfig     `yaml:"theme"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr"`
	RatePerMinute int    `yaml:"rate_per_minute"`
	Burst         int    `yaml:"burst"`
}

type ProviderConfig struct {
	// Name is anthropic, gemini, groq, cerebras, openai or auto. Auto tries
	// every provider in Fallback that has an API key.
	Name        string   `yaml:"name"`
	Model       string   `yaml:"model"`
	APIKey      string   `yaml:"api_key"`
	BaseURL     string   `yaml:"base_url"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature *float64 `yaml:"temperature"`
	Fallback    []string `yaml:"fallback"`
}

type KnowledgeConfig struct {
	Root         string   `yaml:"root"`
	Patterns     []string `yaml:"patterns"`
	TopK         int      `yaml:"top_k"`
	Threshold    float64  `yaml:"threshold"`
	ChunkSize    int      `yaml:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap"`
}

type HistoryConfig struct {
	// Driver is json (one file per session) or sqlite.
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	Limit  int    `yaml:"limit"`
}

type ChatConfig struct {
	SystemPromptFile string `yaml:"system_prompt_file"`
	Greeting         string `yaml:"greeting"`
}

type ThemeConfig struct {
	Premium bool `yaml:"premium"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// apiKeys holds provider keys read from the environment.
type apiKeys struct {
	Anthropic string
	Gemini    string
	Groq      string
	Cerebras  string
	OpenAI    string
}

func defaultConfig() Config {
	temp := 0.3
	return Config{
		Server: ServerConfig{Addr: ":8000", RatePerMinute: 30, Burst: 10},
		Provider: ProviderConfig{
			Name:        "auto",
			MaxTokens:   1024,
			Temperature: &temp,
			Fallback:    []string{"groq", "cerebras", "gemini"},
		},
		Knowledge: KnowledgeConfig{
			Root:         "documents",
			Patterns:     knowledge.DefaultPatterns,
			TopK:         4,
			Threshold:    0.5,
			ChunkSize:    knowledge.DefaultChunkSize,
			ChunkOverlap: knowledge.DefaultChunkOverlap,
		},
		History: HistoryConfig{Driver: "json", Limit: 10},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// loadConfig reads path over the defaults. A missing file is only an error
// when the path was given explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv overrides config fields from environment variables and returns
// the provider keys. getenv is os.Getenv outside tests.
func applyEnv(cfg *Config, getenv func(string) string) apiKeys {
	if v := getenv("CAMPUS_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv("CAMPUS_PROVIDER"); v != "" {
		cfg.Provider.Name = v
	}
	if v := getenv("CAMPUS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv("CAMPUS_DOCUMENTS"); v != "" {
		cfg.Knowledge.Root = v
	}
	keys := apiKeys{
		Anthropic: getenv("ANTHROPIC_API_KEY"),
		Gemini:    getenv("GEMINI_API_KEY"),
		Groq:      getenv("GROQ_API_KEY"),
		Cerebras:  getenv("CEREBRAS_API_KEY"),
		OpenAI:    getenv("OPENAI_API_KEY"),
	}
	if keys.Gemini == "" {
		keys.Gemini = getenv("GOOGLE_API_KEY")
	}
	return keys
}

func (c Config) validate() error {
	if t := c.Provider.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("provider.temperature must be between 0 and 2, got %v", *t)
	}
	if c.Provider.MaxTokens < 0 {
		return fmt.Errorf("provider.max_tokens must not be negative")
	}
	switch c.History.Driver {
	case "json", "sqlite":
	default:
		return fmt.Errorf("history.driver must be json or sqlite, got %q", c.History.Driver)
	}
	if c.Knowledge.ChunkSize <= 0 || c.Knowledge.ChunkOverlap < 0 || c.Knowledge.ChunkOverlap >= c.Knowledge.ChunkSize {
		return fmt.Errorf("knowledge.chunk_overlap must be smaller than knowledge.chunk_size")
	}
	return nil
}

// historyPath returns the configured history location or the default under
// the user's home directory.
func (c Config) historyPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	if c.History.Driver == "sqlite" {
		return filepath.Join(home, ".campus", "history.db")
	}
	return filepath.Join(home, ".campus", "sessions")
}
