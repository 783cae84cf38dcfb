package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-radioctl/internal/data"
	"github.com/hazadus/go-radioctl/internal/radio"
	"github.com/hazadus/go-radioctl/internal/s3"
	"github.com/hazadus/go-radioctl/internal/utils"
)

var (
	errNoChanges   = errors.New("не указаны изменения: используйте --title или --description")
	errEmptyTitle  = errors.New("название станции не может быть пустым")
	errNoArchive   = errors.New("хранилище резервных копий не настроено (aws_bucket_name)")
	errNotAccepted = errors.New("удаление не подтверждено: добавьте флаг --yes")
)

// createStationCommand создает группу команд для управления станциями
func (app *Application) createStationCommand(ctx context.Context) *cobra.Command {
	stationCmd := &cobra.Command{
		Use:   "station",
		Short: "Create, edit, remove and back up stations",
	}

	stationCmd.AddCommand(app.createStationAddCommand(ctx))
	stationCmd.AddCommand(app.createStationEditCommand(ctx))
	stationCmd.AddCommand(app.createStationRemoveCommand(ctx))
	stationCmd.AddCommand(app.createStationListCommand())
	stationCmd.AddCommand(app.createStationBackupCommand(ctx))

	return stationCmd
}

func (app *Application) createStationAddCommand(ctx context.Context) *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "add [station]",
		Short: "Create a new station",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			station := args[0]
			title = strings.TrimSpace(title)
			if title == "" {
				title = station
			}

			cfg := radio.StationConfig{Title: title, Description: description}
			if err := app.Client.AddStation(ctx, station, cfg); err != nil {
				return fmt.Errorf("ошибка создания станции: %w", err)
			}

			app.Data.RememberStation(data.StationRecord{ID: station, Title: title, Description: description})
			if err := app.SaveData(); err != nil {
				return fmt.Errorf("ошибка сохранения данных: %w", err)
			}

			fmt.Printf("📻 Станция %s создана: %s\n", station, title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Station title (defaults to the station ID)")
	cmd.Flags().StringVar(&description, "description", "", "Station description")
	return cmd
}

func (app *Application) createStationEditCommand(ctx context.Context) *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "edit [station]",
		Short: "Change the title or description of a station",
		Long:  `Change the title or description of a station. Only the given fields are sent.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			station := args[0]

			var update radio.StationUpdate
			if cmd.Flags().Changed("title") {
				title = strings.TrimSpace(title)
				if title == "" {
					return errEmptyTitle
				}
				update.Title = &title
			}
			if cmd.Flags().Changed("description") {
				update.Description = &description
			}
			if update.Title == nil && update.Description == nil {
				return errNoChanges
			}

			if err := app.Client.UpdateStation(ctx, station, update); err != nil {
				return fmt.Errorf("ошибка обновления станции: %w", err)
			}

			record := data.StationRecord{ID: station}
			if known, err := app.Data.StationByID(station); err == nil {
				record = *known
			}
			if update.Title != nil {
				record.Title = *update.Title
			}
			if update.Description != nil {
				record.Description = *update.Description
			}
			app.Data.RememberStation(record)
			if err := app.SaveData(); err != nil {
				return fmt.Errorf("ошибка сохранения данных: %w", err)
			}

			fmt.Printf("✅ Станция %s обновлена\n", station)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New station title")
	cmd.Flags().StringVar(&description, "description", "", "New station description")
	return cmd
}

func (app *Application) createStationRemoveCommand(ctx context.Context) *cobra.Command {
	var yes, purgeArchive bool

	cmd := &cobra.Command{
		Use:   "remove [station]",
		Short: "Remove a station from the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			station := args[0]
			if !yes {
				return errNotAccepted
			}

			fmt.Printf("🗑️  Удаляем станцию: %s\n", station)
			if err := app.Client.RemoveStation(ctx, station); err != nil {
				return fmt.Errorf("ошибка удаления станции: %w", err)
			}

			if purgeArchive {
				if err := app.purgeArchive(ctx, station); err != nil {
					fmt.Printf("⚠️  Предупреждение: не удалось удалить резервную копию: %v\n", err)
				} else {
					fmt.Println("✅ Резервная копия удалена из S3")
				}
			}

			// Станция могла быть создана не через эту программу
			_ = app.Data.ForgetStation(station)
			if err := app.SaveData(); err != nil {
				return fmt.Errorf("ошибка сохранения данных: %w", err)
			}

			fmt.Println("✅ Станция удалена")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm removal")
	cmd.Flags().BoolVar(&purgeArchive, "purge-archive", false, "Also delete the S3 backup")
	return cmd
}

func (app *Application) createStationListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stations known to this computer",
		Run: func(_ *cobra.Command, _ []string) {
			if len(app.Data.Stations) == 0 {
				fmt.Println("📻 Станций пока нет. Создайте станцию с помощью команды 'station add'.")
				return
			}

			fmt.Printf("📻 Известно станций: %d\n\n", len(app.Data.Stations))
			fmt.Printf("%-20s %-30s %-40s %s\n", "ID", "Название", "Описание", "Черновик")
			fmt.Println(strings.Repeat("-", 100))

			for _, station := range app.Data.Stations {
				draft := "-"
				if d, err := app.Data.DraftFor(station.ID); err == nil {
					draft = fmt.Sprintf("%d треков", len(d.Order))
				}
				fmt.Printf("%-20s %-30s %-40s %s\n",
					utils.TruncateString(station.ID, 20),
					utils.TruncateString(station.Title, 30),
					utils.TruncateString(station.Description, 40),
					draft)
			}
		},
	}
}

func (app *Application) createStationBackupCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [station]",
		Short: "Save the play order and song list of a station to S3",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			station := args[0]

			archiver, err := app.newArchiver()
			if err != nil {
				return err
			}

			order, err := app.Client.Order(ctx, station)
			if err != nil {
				return fmt.Errorf("ошибка получения очереди: %w", err)
			}
			songs, err := app.Client.Songs(ctx, station)
			if err != nil {
				return fmt.Errorf("ошибка получения списка песен: %w", err)
			}

			fmt.Printf("📦 Сохраняем станцию %s в бакет %s\n", station, app.Config.AwsBucketName)
			urls, err := archiver.SaveSnapshot(ctx, s3.Snapshot{
				StationID: station,
				Order:     order,
				Songs:     songs,
				TakenAt:   time.Now(),
			})
			if err != nil {
				return err
			}

			for _, url := range urls {
				fmt.Printf("   %s\n", url)
			}
			fmt.Printf("✅ Сохранено: %d треков в очереди, %d песен\n", len(order), len(songs))
			return nil
		},
	}
}

func (app *Application) purgeArchive(ctx context.Context, station string) error {
	archiver, err := app.newArchiver()
	if err != nil {
		return err
	}
	return archiver.DeleteSnapshot(ctx, station)
}

func (app *Application) newArchiver() (*s3.Archiver, error) {
	if !app.Config.HasArchive() {
		return nil, errNoArchive
	}
	return s3.NewArchiver(&s3.Config{
		Region:     app.Config.AwsRegion,
		AccessKey:  app.Config.AwsAccessKey,
		SecretKey:  app.Config.AwsSecretKey,
		Endpoint:   app.Config.AwsEndpoint,
		BucketName: app.Config.AwsBucketName,
	})
}
