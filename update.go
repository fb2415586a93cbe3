package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"jdkfetch/internal/theme"
	"jdkfetch/internal/updater"
)

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check for and install jdkfetch updates",
		Long: `Check the GitHub repository named by update_config.repository (or
JDKFETCH_UPDATE_CONFIG_REPOSITORY) for a newer jdkfetch release and install it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := opts.cfg

			if !cfg.UpdateConfig.Enabled {
				fmt.Fprintln(out, theme.WarningMessage("Updates are disabled in configuration."))
				fmt.Fprintln(out, theme.Faint.Render(fmt.Sprintf("To enable, edit %s and set update_config.enabled to true", cfg.Path())))
				return nil
			}

			upd, err := updater.NewUpdater(cfg, Version)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), updater.UpdateTimeout)
			defer cancel()

			if upd.Repository() == "" {
				fmt.Fprintln(out, theme.WarningMessage("No release repository configured."))
				fmt.Fprintln(out, theme.Faint.Render(fmt.Sprintf("Set update_config.repository (owner/name) in %s or JDKFETCH_UPDATE_CONFIG_REPOSITORY", cfg.Path())))
				return nil
			}

			fmt.Fprintln(out, theme.InfoMessage("Checking "+upd.Repository()+" for updates..."))
			release, err := upd.Latest(ctx)
			switch {
			case err != nil:
				return fmt.Errorf("update check failed: %w", err)
			case release == nil:
				updater.UpToDate(out, upd.CurrentVersion())
				return nil
			}

			action, err := upd.Prompt(release)
			if err != nil {
				fmt.Fprintln(out, theme.WarningMessage("Update cancelled."))
				return nil
			}
			switch action {
			case updater.ActionSkip:
				fmt.Fprintln(out, theme.InfoMessage("Skipped version "+release.Version()))
				return nil
			case updater.ActionLater:
				fmt.Fprintln(out, theme.InfoMessage("Update postponed"))
				return nil
			}

			fmt.Fprintln(out, theme.InfoMessage("Downloading jdkfetch "+release.Version()+"..."))
			if err := upd.Apply(ctx, release); err != nil {
				return fmt.Errorf("update failed: %w", err)
			}

			updater.Updated(out, release.Version())
			return nil
		},
	}
}
