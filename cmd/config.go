package cmd

import (
	"fmt"

	statusadapter "github.com/bnema/pcg-autocatch/internal/adapters/render/status"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit catch settings",
	}

	cmd.AddCommand(newConfigShowCmd(app), newConfigSetChannelCmd(app), newConfigPathCmd(app))

	return cmd
}

func newConfigShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective catch settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.settings.Load(cmd.Context()); err != nil {
				return err
			}
			rendered, err := statusadapter.RenderSettings(app.settings.Current())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}

func newConfigSetChannelCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-channel <channel>",
		Short: "Change the chat channel the bot joins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.settings.Load(cmd.Context()); err != nil {
				return err
			}
			if err := app.settings.SetChannel(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("set channel: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "channel set to %s\n", app.settings.Current().Channel)
			return nil
		},
	}
}

func newConfigPathCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where settings and the spawn journal live",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "settings: %s\n", app.settingsRepo.Path())
			_, _ = fmt.Fprintf(out, "journal: %s\n", app.journalPath)
			if used := app.cfg.ConfigFileUsed(); used != "" {
				_, _ = fmt.Fprintf(out, "config: %s\n", used)
			}
			return nil
		},
	}
}
