package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:           "pcg",
		Short:         "Poke catch bot: watch spawns and throw the right ball",
		Long:          "pcg keeps a chat session and a game data session alive, watches creature spawns, and decides whether and with which ball to try a capture, buying balls when short.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		app.logger = newLogger(cmd.ErrOrStderr(), debug)
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(app),
		newAuthCmd(app),
		newConfigCmd(app),
		newHistoryCmd(app),
	)

	return rootCmd
}
