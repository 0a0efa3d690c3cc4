package main

import (
	"fmt"

	"github.com/fwojciec/campus"
	campushttp "github.com/fwojciec/campus/http"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, keys, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, keys, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := campushttp.NewServer(a.chat, a.store,
				campushttp.WithLogger(logger),
				campushttp.WithVersion(Version),
				campushttp.WithGreeting(a.greeting),
				campushttp.WithDocuments(a.documents()),
				campushttp.WithLLMConfigured(a.provider != nil),
				campushttp.WithRateLimit(cfg.Server.RatePerMinute, cfg.Server.Burst),
				campushttp.WithRenderConfig(campus.RenderConfig{PremiumTheme: cfg.Theme.Premium}),
			)
			if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
