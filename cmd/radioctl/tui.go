package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-radioctl/internal/tui"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [station]",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch interactive terminal user interface for editing the play order of a station.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.launchTUI(args[0])
		},
	}
}

func (app *Application) launchTUI(station string) error {
	tuiApp := tui.NewApp(station, app.Client, app.Data, app.SaveData, app.Config.LogFile)

	draftSaved, err := tuiApp.Run()
	if err != nil {
		return fmt.Errorf("ошибка TUI: %w", err)
	}

	if draftSaved {
		fmt.Printf("📝 Несохраненная очередь записана в черновик. Отправить на сервер: radioctl order import %s\n", station)
	}
	return nil
}
