package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fwojciec/campus"
	"github.com/fwojciec/campus/anthropic"
	"github.com/fwojciec/campus/gemini"
	"github.com/fwojciec/campus/openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// errNoAPIKey reports that provider auto found no key in the environment.
var errNoAPIKey = errors.New("no API key found")

var providerEnv = map[string]string{
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"groq":      "GROQ_API_KEY",
	"cerebras":  "CEREBRAS_API_KEY",
	"openai":    "OPENAI_API_KEY",
}

func (k apiKeys) get(name string) string {
	switch name {
	case "anthropic":
		return k.Anthropic
	case "gemini":
		return k.Gemini
	case "groq":
		return k.Groq
	case "cerebras":
		return k.Cerebras
	case "openai":
		return k.OpenAI
	}
	return ""
}

// resolveProvider constructs the configured provider. Keys are passed in
// as values; the environment is only read in main. The model is not set
// here: it travels with every request.
func resolveProvider(ctx context.Context, cfg ProviderConfig, keys apiKeys, logger *slog.Logger) (campus.Provider, error) {
	name := cfg.Name
	if name == "" || name == "auto" {
		if cfg.APIKey != "" || cfg.BaseURL != "" {
			return nil, errors.New("provider.api_key and provider.base_url need a named provider, not auto")
		}
		return resolveFallback(ctx, cfg.Fallback, cfg.Model, keys, logger)
	}

	key := cfg.APIKey
	if key == "" {
		key = keys.get(name)
	}
	if _, known := providerEnv[name]; known && key == "" {
		return nil, fmt.Errorf("%s not set (use provider.api_key or the environment variable)", providerEnv[name])
	}
	return newProvider(ctx, name, key, cfg.BaseURL)
}

// resolveFallback builds a chain of every provider in order that has a key.
// A model can only be chosen when a single provider is available.
func resolveFallback(ctx context.Context, order []string, model string, keys apiKeys, logger *slog.Logger) (campus.Provider, error) {
	var providers []campus.Provider
	var names []string
	for _, name := range order {
		key := keys.get(name)
		if key == "" {
			continue
		}
		p, err := newProvider(ctx, name, key, "")
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
		names = append(names, name)
	}
	switch len(providers) {
	case 0:
		vars := make([]string, 0, len(order))
		for _, name := range order {
			vars = append(vars, providerEnv[name])
		}
		return nil, fmt.Errorf("%w: set one of %s", errNoAPIKey, strings.Join(vars, ", "))
	case 1:
		return providers[0], nil
	}
	if model != "" {
		return nil, fmt.Errorf("model %q needs a named provider when several API keys are set (%s)", model, strings.Join(names, ", "))
	}
	logger.Debug("provider fallback", "order", strings.Join(names, ","))
	return &campus.Fallback{Providers: providers, Logger: logger}, nil
}

func newProvider(ctx context.Context, name, key, baseURL string) (campus.Provider, error) {
	switch name {
	case "anthropic":
		var opts []anthropic.Option
		if baseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(baseURL))
		}
		return anthropic.New(key, opts...), nil
	case "gemini":
		client, err := gemini.New(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return client, nil
	case "groq", "cerebras", "openai":
		var opts []openai.Option
		if name == "openai" {
			opts = append(opts, openai.WithModel(defaultOpenAIModel))
		}
		if baseURL != "" {
			opts = append(opts, openai.WithBaseURL(baseURL))
		}
		switch name {
		case "groq":
			return openai.NewGroq(key, opts...), nil
		case "cerebras":
			return openai.NewCerebras(key, opts...), nil
		}
		return openai.New(key, opts...), nil
	default:
		return nil, fmt.Errorf("unknown provider %q: must be one of anthropic, gemini, groq, cerebras, openai, auto", name)
	}
}
