package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ogahribetzz/transparansi/internal/model"
)

func newConfigCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Presentation config (logo, QRIS, playlist)",
	}
	cmd.AddCommand(newConfigShowCommand(configPath))
	cmd.AddCommand(newConfigSetCommand(configPath))
	return cmd
}

func newConfigShowCommand(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current presentation config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, *configPath)
			if err != nil {
				return err
			}
			res := a.svc.Config(cmd.Context())
			warnFallback(cmd, res.Outcome)
			return printAppConfig(cmd.OutOrStdout(), res.Items, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func newConfigSetCommand(configPath *string) *cobra.Command {
	var logo, qris, youtube string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update presentation config fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.ConfigPatch
			if cmd.Flags().Changed("logo") {
				patch.LogoURL = &logo
			}
			if cmd.Flags().Changed("qris") {
				patch.QrisURL = &qris
			}
			if cmd.Flags().Changed("youtube") {
				patch.YoutubePlaylistID = &youtube
			}
			if patch.IsEmpty() {
				return errors.New("nothing to update: set at least one of --logo, --qris, --youtube")
			}

			a, err := loadApp(cmd, *configPath)
			if err != nil {
				return err
			}
			// Seed the store so unchanged fields print their live values.
			a.svc.Config(cmd.Context())

			cfg, err := a.svc.UpdateConfig(cmd.Context(), patch)
			if err != nil {
				return err
			}
			return printAppConfig(cmd.OutOrStdout(), cfg, false)
		},
	}

	cmd.Flags().StringVar(&logo, "logo", "", "logo URL")
	cmd.Flags().StringVar(&qris, "qris", "", "QRIS image URL")
	cmd.Flags().StringVar(&youtube, "youtube", "", "YouTube playlist id")

	return cmd
}

func printAppConfig(w io.Writer, cfg model.AppConfig, asJSON bool) error {
	if asJSON {
		return writeJSON(w, cfg)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_, err = w.Write(data)
	return err
}
