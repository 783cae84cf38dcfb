package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-radioctl/internal/metadata"
	"github.com/hazadus/go-radioctl/internal/uploader"
	"github.com/hazadus/go-radioctl/internal/utils"
)

// createSongsCommand создает группу команд для песен станции
func (app *Application) createSongsCommand(ctx context.Context) *cobra.Command {
	songsCmd := &cobra.Command{
		Use:   "songs",
		Short: "List, upload and delete station songs",
	}

	songsCmd.AddCommand(app.createSongsListCommand(ctx))
	songsCmd.AddCommand(app.createSongsUploadCommand(ctx))
	songsCmd.AddCommand(app.createSongsDeleteCommand(ctx))

	return songsCmd
}

func (app *Application) createSongsListCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "list [station]",
		Short: "List songs uploaded to a station",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			songs, err := app.Client.Songs(ctx, args[0])
			if err != nil {
				return fmt.Errorf("ошибка получения списка песен: %w", err)
			}

			if len(songs) == 0 {
				fmt.Println("📚 На станции нет песен. Загрузите их с помощью команды 'songs upload'.")
				return nil
			}

			fmt.Printf("📚 Найдено песен: %d\n\n", len(songs))
			for i, song := range songs {
				fmt.Printf("%4d. %s\n", i+1, utils.TruncateString(song, 80))
			}
			return nil
		},
	}
}

func (app *Application) createSongsUploadCommand(ctx context.Context) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "upload [station] [file path]",
		Short: "Upload an mp3 or wav file to a station",
		Long:  `Check an mp3 or wav file locally and upload it to a station with progress tracking.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			filePath := ""
			if len(args) > 1 {
				filePath = args[1]
			}

			// Создаем контекст с таймаутом для загрузки (10 минут)
			uploadCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
			defer cancel()

			_, err := app.uploadSong(uploadCtx, args[0], filePath, name)
			return err
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Song name on the server")
	return cmd
}

// uploadSong загружает файл на станцию с отображением прогресса
func (app *Application) uploadSong(ctx context.Context, station, filePath, name string) (*uploader.UploadResult, error) {
	if !app.Client.HasToken() {
		fmt.Println("⚠️  Токен не задан: сервер, скорее всего, отклонит загрузку")
	}

	var size int64
	if stat, err := os.Stat(filePath); err == nil {
		size = stat.Size()
	}

	fmt.Printf("📤 Загружаем файл на станцию %s:\n", station)
	fmt.Printf("   Файл: %s\n", filePath)
	fmt.Printf("   Размер: %s\n", utils.FormatFileSize(size))
	fmt.Println()

	startTime := time.Now()
	result, err := uploader.NewService(app.Client).UploadFile(ctx, station, filePath, name, func(bytesRead int64) {
		if bytesRead == 0 || size == 0 {
			return
		}
		elapsed := time.Since(startTime)
		percentage := float64(bytesRead) / float64(size) * 100
		speed := float64(bytesRead) / elapsed.Seconds()

		fmt.Printf("\r📊 Прогресс: %.1f%% | Скорость: %s/s | Прошло: %s",
			percentage,
			utils.FormatFileSize(int64(speed)),
			utils.FormatDuration(elapsed))
	})

	switch {
	case errors.Is(err, uploader.ErrNoFileSelected):
		return nil, fmt.Errorf("%w: укажите путь к mp3 или wav файлу", err)
	case errors.Is(err, metadata.ErrUnsupportedFormat):
		return nil, fmt.Errorf("%w: станция принимает только mp3 и wav", err)
	case err != nil:
		return nil, err
	}

	fmt.Printf("\n✅ Песня %s загружена!\n", result.SongName)
	fmt.Printf("   Исполнитель: %s\n", result.Metadata.Artist)
	fmt.Printf("   Название: %s\n", result.Metadata.Title)
	fmt.Printf("   Длительность: %s\n", utils.FormatDuration(result.FileInfo.Duration))
	return result, nil
}

func (app *Application) createSongsDeleteCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [station] [song]",
		Short: "Delete a song from a station",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			station, song := args[0], strings.TrimSpace(args[1])

			fmt.Printf("🗑️  Удаляем песню: %s\n", song)
			if err := app.Client.DeleteSong(ctx, station, song); err != nil {
				return fmt.Errorf("ошибка удаления песни: %w", err)
			}

			fmt.Println("✅ Песня удалена")
			return nil
		},
	}
}
