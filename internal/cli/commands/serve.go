package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-roleconnections/internal/logger"
	"github.com/goliatone/go-roleconnections/internal/metrics"
	"github.com/goliatone/go-roleconnections/internal/server"
)

// NewServeCommand runs the linked-role server.
func NewServeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the linked-role OAuth server",
		Long: `Run the HTTP server behind the application's linked-role verification URL.

Routes:
  GET  /linked-role             start the OAuth flow
  GET  /discord-oauth-callback  store the user's token and push metadata
  POST /update-metadata         push metadata for form field userId
  GET  /metrics                 Prometheus metrics
  GET  /healthz                 liveness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := a.cfg.RequireServer(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			def, err := a.definition(ctx)
			if err != nil {
				return err
			}
			m := metrics.New()
			c, err := a.client(def, m)
			if err != nil {
				return err
			}

			store, closeStore, err := a.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open token store: %w", err)
			}
			defer func() {
				if err := closeStore(); err != nil {
					a.log.Warn().Err(err).Msg("close token store")
				}
			}()

			var values server.ValuesProvider
			if path := a.cfg.Server.ValuesFile; path != "" {
				static, err := server.LoadStaticValues(path)
				if err != nil {
					return err
				}
				values = static
			}

			srv, err := server.New(server.Config{
				Client:       c,
				Store:        store,
				Values:       values,
				CookieSecret: []byte(a.cfg.Server.CookieSecret),
				StateTTL:     a.cfg.Server.StateTTL,
				CookieSecure: a.cfg.Server.CookieSecure,
				SuccessURL:   a.cfg.Server.SuccessURL,
				Logger:       logger.Component(a.log, "server"),
				Metrics:      m,
			})
			if err != nil {
				return err
			}

			a.log.Info().
				Str("platform", def.PlatformName()).
				Int("fields", def.Len()).
				Str("store", a.cfg.Store.Driver).
				Msg("starting linked-role server")
			return srv.ListenAndServe(ctx, a.cfg.Server.Addr)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :3000)")
	cmd.Flags().String("store", "", "token store: memory, sqlite or redis")
	cmd.Flags().String("values", "", "values file served to /update-metadata")
	return cmd
}
