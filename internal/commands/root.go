package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ogahribetzz/transparansi/internal/auditlog"
	"github.com/ogahribetzz/transparansi/internal/buildinfo"
	"github.com/ogahribetzz/transparansi/internal/config"
	"github.com/ogahribetzz/transparansi/internal/donations"
	"github.com/ogahribetzz/transparansi/internal/fallback"
	"github.com/ogahribetzz/transparansi/internal/gateway"
	"github.com/ogahribetzz/transparansi/internal/logging"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "transparansi",
		Short:   "Donation transparency ledger for Ogah Ribetzz",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to transparansi.yaml")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newServeCommand(&configPath))
	rootCmd.AddCommand(newSummaryCommand(&configPath))
	rootCmd.AddCommand(newTransactionsCommand(&configPath))
	rootCmd.AddCommand(newExportCommand(&configPath))
	rootCmd.AddCommand(newApproveCommand(&configPath))
	rootCmd.AddCommand(newAuditCommand(&configPath))
	rootCmd.AddCommand(newConfigCommand(&configPath))

	return rootCmd
}

// app is everything a command needs once configuration is resolved.
type app struct {
	cfg *config.Config
	log *slog.Logger
	svc *donations.Service
}

func loadApp(cmd *cobra.Command, configPath string) (*app, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := logging.New(cfg.Log.Level, cmd.ErrOrStderr())
	slog.SetDefault(log)

	fb := fallback.Default()
	if cfg.FallbackPath != "" {
		fb, err = fallback.Load(cfg.FallbackPath)
		if err != nil {
			return nil, err
		}
	}
	if cfg.Gateway.URL == "" {
		log.Warn("no gateway url configured, serving fallback data", "env", config.EnvGatewayURL)
	}

	svc := donations.NewService(donations.Options{
		Gateway:         gateway.NewClient(cfg.Gateway.URL, gateway.WithTimeout(cfg.Gateway.Timeout)),
		Fallback:        fb,
		Audit:           auditlog.New(cfg.AuditDir),
		Logger:          log,
		LocationsAction: cfg.Gateway.LocationsAction,
		ReadTTL:         cfg.Notifications.ReadTTL,
	})
	return &app{cfg: cfg, log: log, svc: svc}, nil
}

// warnFallback tells the operator that a read was not live.
func warnFallback(cmd *cobra.Command, out donations.Outcome) {
	if out.UsedFallback() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: live data unavailable (%s), showing fallback data\n", out.Reason)
	}
}
