package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/vitae/internal/server"
	"github.com/matzehuels/vitae/internal/server/ratelimit"
	"github.com/matzehuels/vitae/pkg/observability"
)

// serveCommand runs the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the download and preview API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger := commandLogger(ctx)
			hooks := observability.NewLogHooks(logger)
			observability.SetRenderHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetServerHooks(hooks)

			reg, err := registry(cfg)
			if err != nil {
				return err
			}
			store, err := newServerCache(ctx, cfg)
			if err != nil {
				return err
			}
			runner := c.runnerFor(reg, store, cfg)
			defer runner.Close()

			rl := ratelimit.DefaultConfig()
			rl.Enabled = cfg.RateLimit.Enabled
			rl.Limit = cfg.RateLimit.Limit
			rl.Window = cfg.RateLimit.Window.Duration

			if cfg.Server.JWTSecret == "" {
				logger.Warn("no JWT secret configured; every caller is FREE")
			}
			srv := server.New(runner, logger, server.Options{
				Addr:            cfg.Server.Addr,
				JWTSecret:       cfg.Server.JWTSecret,
				TrustProxy:      cfg.Server.TrustProxy,
				RateLimit:       rl,
				DefaultTemplate: cfg.Template,
			})
			defer srv.Close()

			printInfo("Listening on %s", cfg.Server.Addr)
			printDetail("templates: %d · cache: %s", len(reg.IDs()), cfg.Cache.Backend)
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
