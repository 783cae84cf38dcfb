package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-radioctl/internal/fetcher"
	"github.com/hazadus/go-radioctl/internal/metadata"
	"github.com/hazadus/go-radioctl/internal/utils"
)

// createFetchCommand создает команду fetch с привязкой к экземпляру приложения
func (app *Application) createFetchCommand(ctx context.Context) *cobra.Command {
	var station, name string

	cmd := &cobra.Command{
		Use:   "fetch [YouTube URL]",
		Short: "Download audio from YouTube",
		Long: `Download the best audio track of a YouTube video to the download directory.
With --station the file is uploaded to the station afterwards. Only mp3 and wav
streams can be uploaded; YouTube usually serves m4a or webm, which stay on disk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.fetch(ctx, args[0], station, name)
		},
	}

	cmd.Flags().StringVarP(&station, "station", "s", "", "Upload the downloaded file to this station (mp3 and wav only)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Song name on the server")
	return cmd
}

func (app *Application) fetch(ctx context.Context, url, station, name string) error {
	fmt.Printf("🎬 Скачиваем аудио: %s\n", url)
	if station != "" {
		fmt.Printf("ℹ️  На станцию %s будет загружен только mp3 или wav поток\n", station)
	}

	downloadCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	result, err := fetcher.New(app.Config.DownloadDir).Download(downloadCtx, url, func(done, total int64) {
		if total > 0 {
			fmt.Printf("\r📊 Прогресс: %.1f%% (%s / %s)",
				float64(done)/float64(total)*100,
				utils.FormatFileSize(done),
				utils.FormatFileSize(total))
		} else {
			fmt.Printf("\r📊 Скачано: %s", utils.FormatFileSize(done))
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n✅ Аудио скачано!\n")
	fmt.Printf("   Название: %s\n", result.Title)
	fmt.Printf("   Автор: %s\n", result.Author)
	fmt.Printf("   Файл: %s\n", result.Path)
	fmt.Printf("   Размер: %s\n", utils.FormatFileSize(result.Size))

	if station == "" {
		return nil
	}

	if !metadata.IsSupported(result.Path) {
		fmt.Println("⚠️  Станция принимает только mp3 и wav: перекодируйте файл и загрузите его командой 'songs upload'")
		return fmt.Errorf("%w: %s", metadata.ErrUnsupportedFormat, result.Path)
	}

	fmt.Println()
	uploadCtx, cancelUpload := context.WithTimeout(ctx, 10*time.Minute)
	defer cancelUpload()

	_, err = app.uploadSong(uploadCtx, station, result.Path, name)
	if errors.Is(err, metadata.ErrUnsupportedFormat) {
		fmt.Printf("⚠️  Файл сохранен в %s\n", result.Path)
	}
	return err
}
