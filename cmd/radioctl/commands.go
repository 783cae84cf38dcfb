package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "radioctl",
		Short:         "Manage internet radio stations from the command line",
		Long:          `A command line tool to edit play order, upload songs and manage stations on a radio server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				app.logger.SetOutput(os.Stderr)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print HTTP requests to stderr")

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createOrderCommand(ctx))
	rootCmd.AddCommand(app.createSongsCommand(ctx))
	rootCmd.AddCommand(app.createStationCommand(ctx))
	rootCmd.AddCommand(app.createUserCommand(ctx))
	rootCmd.AddCommand(app.createAuthCommand())
	rootCmd.AddCommand(app.createFetchCommand(ctx))
	rootCmd.AddCommand(app.createPreviewCommand())
	rootCmd.AddCommand(app.createTUICommand())

	return rootCmd
}
