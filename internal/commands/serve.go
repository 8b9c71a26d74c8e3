package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ogahribetzz/transparansi/internal/server"
)

func newServeCommand(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, *configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.svc, server.Options{
				AdminPIN:       a.cfg.Admin.PIN,
				AllowedOrigins: a.cfg.Server.AllowedOrigins,
				RPS:            a.cfg.Server.RateLimit.RPS,
				Burst:          a.cfg.Server.RateLimit.Burst,
				Logger:         a.log,
			})
			return srv.ListenAndServe(ctx, a.cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
