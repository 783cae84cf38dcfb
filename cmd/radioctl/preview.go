package main

import (
	"github.com/spf13/cobra"

	"github.com/hazadus/go-radioctl/internal/tui"
)

// createPreviewCommand создает команду для прослушивания файла перед загрузкой
func (app *Application) createPreviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [mp3 file or URL]",
		Short: "Listen to an mp3 or wav file from local path or URL",
		Long:  `Play a local file or a direct URL before uploading it. Space pauses, q stops.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return tui.RunPreview(args[0], app.Config.LogFile)
		},
	}
}
