// Command campus runs the KCA Connect AI assistant.
//
// Usage:
//
//	GROQ_API_KEY=... campus serve            # HTTP API on :8000
//	GEMINI_API_KEY=... campus chat           # terminal chat
//	campus chat --remote http://localhost:8000
//	campus render answer.md --format html
//
// Configuration is read from campus.yaml (see --config). Provider keys come
// from ANTHROPIC_API_KEY, GEMINI_API_KEY (or GOOGLE_API_KEY), GROQ_API_KEY,
// CEREBRAS_API_KEY and OPENAI_API_KEY.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Getenv).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "campus: %v\n", err)
		os.Exit(1)
	}
}

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	provider   string
	model      string
	getenv     func(string) string
}

// load reads the configuration and applies environment and flag overrides.
func (o *options) load(cmd *cobra.Command) (Config, apiKeys, error) {
	explicit := cmd.Flags().Changed("config")
	cfg, err := loadConfig(o.configPath, explicit)
	if err != nil {
		return Config{}, apiKeys{}, err
	}
	keys := applyEnv(&cfg, o.getenv)
	if o.provider != "" {
		cfg.Provider.Name = o.provider
	}
	if o.model != "" {
		cfg.Provider.Model = o.model
	}
	if err := cfg.validate(); err != nil {
		return Config{}, apiKeys{}, err
	}
	return cfg, keys, nil
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	opts := &options{getenv: getenv}
	root := &cobra.Command{
		Use:               "campus",
		Short:             "KCA University chat assistant",
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath, "Path to the YAML config file")
	root.PersistentFlags().StringVar(&opts.provider, "provider", "", "Provider: anthropic, gemini, groq, cerebras, openai, auto")
	root.PersistentFlags().StringVar(&opts.model, "model", "", "Model ID (provider default if empty)")

	root.AddCommand(
		newServeCmd(opts),
		newChatCmd(opts),
		newRenderCmd(),
	)
	return root
}
