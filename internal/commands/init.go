package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ogahribetzz/transparansi/internal/config"
)

func newInitCommand() *cobra.Command {
	var gatewayURL string
	var pin string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter transparansi.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			path, err := runInit(absDir, gatewayURL, pin, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&gatewayURL, "gateway-url", "", "spreadsheet endpoint URL")
	cmd.Flags().StringVar(&pin, "pin", "", "admin PIN (default 1234)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	return cmd
}

func runInit(dir, gatewayURL, pin string, force bool) (string, error) {
	path := filepath.Join(dir, config.DefaultPath)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("checking %s: %w", path, err)
	}

	cfg := config.Default()
	cfg.Gateway.URL = gatewayURL
	if pin != "" {
		cfg.Admin.PIN = pin
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Join(dir, cfg.AuditDir), 0o755); err != nil {
		return "", fmt.Errorf("creating audit directory: %w", err)
	}
	if err := config.Save(path, cfg); err != nil {
		return "", err
	}
	return path, nil
}
