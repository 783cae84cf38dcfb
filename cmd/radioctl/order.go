package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-radioctl/internal/queue"
)

// createOrderCommand создает группу команд для порядка воспроизведения
func (app *Application) createOrderCommand(ctx context.Context) *cobra.Command {
	orderCmd := &cobra.Command{
		Use:   "order",
		Short: "Show and edit the play order of a station",
	}

	orderCmd.AddCommand(app.createOrderGetCommand(ctx))
	orderCmd.AddCommand(app.createOrderSetCommand(ctx))
	orderCmd.AddCommand(app.createOrderEditCommand(ctx))
	orderCmd.AddCommand(app.createOrderExportCommand(ctx))
	orderCmd.AddCommand(app.createOrderImportCommand(ctx))

	return orderCmd
}

func (app *Application) createOrderGetCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "get [station]",
		Short: "Print the current play order",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			order, err := app.Client.Order(ctx, args[0])
			if err != nil {
				return fmt.Errorf("ошибка получения очереди: %w", err)
			}
			printOrder(args[0], order)
			return nil
		},
	}
}

func (app *Application) createOrderSetCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "set [station] [song...]",
		Short: "Replace the play order with the given songs",
		Long:  `Replace the play order with the given songs. Without songs the order becomes empty.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			station, order := args[0], args[1:]
			if err := app.Client.SetOrder(ctx, station, order); err != nil {
				return fmt.Errorf("ошибка сохранения очереди: %w", err)
			}
			fmt.Printf("✅ Очередь станции %s сохранена (%d треков)\n", station, len(order))
			return nil
		},
	}
}

// orderEdits - правки очереди из флагов команды order edit
type orderEdits struct {
	remove []int
	up     []int
	down   []int
	songs  []string
	dryRun bool
}

func (app *Application) createOrderEditCommand(ctx context.Context) *cobra.Command {
	edits := &orderEdits{}

	cmd := &cobra.Command{
		Use:   "edit [station]",
		Short: "Edit the play order on the server",
		Long: `Load the play order, apply edits and save it back.
Edits are applied in this order: --remove, --up, --down, --append.
Positions start at 1 and refer to the order after the previous edit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.editOrder(ctx, args[0], edits)
		},
	}

	cmd.Flags().IntSliceVar(&edits.remove, "remove", nil, "Remove the song at position")
	cmd.Flags().IntSliceVar(&edits.up, "up", nil, "Move the song at position one step up")
	cmd.Flags().IntSliceVar(&edits.down, "down", nil, "Move the song at position one step down")
	cmd.Flags().StringArrayVar(&edits.songs, "append", nil, "Append a song to the end")
	cmd.Flags().BoolVar(&edits.dryRun, "dry-run", false, "Print the result without saving")

	return cmd
}

func (app *Application) editOrder(ctx context.Context, station string, edits *orderEdits) error {
	order, err := app.Client.Order(ctx, station)
	if err != nil {
		return fmt.Errorf("ошибка получения очереди: %w", err)
	}

	editor := queue.NewEditor()
	editor.Load(order)

	steps := []struct {
		positions []int
		apply     func(int)
	}{
		{edits.remove, editor.RemoveAt},
		{edits.up, editor.MoveUp},
		{edits.down, editor.MoveDown},
	}
	for _, step := range steps {
		for _, position := range step.positions {
			if position < 1 || position > editor.Len() {
				return fmt.Errorf("позиция %d вне очереди (1-%d)", position, editor.Len())
			}
			step.apply(position - 1)
		}
	}
	for _, song := range edits.songs {
		editor.Append(song)
	}

	result := editor.Serialize()
	printOrder(station, result)

	if !editor.Dirty() {
		fmt.Println("ℹ️  Очередь не изменилась")
		return nil
	}
	if edits.dryRun {
		fmt.Println("ℹ️  Пробный запуск: изменения не сохранены")
		return nil
	}

	if err := app.Client.SetOrder(ctx, station, result); err != nil {
		return fmt.Errorf("ошибка сохранения очереди: %w", err)
	}

	fmt.Println("✅ Очередь сохранена")
	return nil
}

func (app *Application) createOrderExportCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "export [station]",
		Short: "Save the play order to a local draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			station := args[0]
			order, err := app.Client.Order(ctx, station)
			if err != nil {
				return fmt.Errorf("ошибка получения очереди: %w", err)
			}

			app.Data.SaveDraft(station, order, time.Now())
			if err := app.SaveData(); err != nil {
				return fmt.Errorf("ошибка сохранения данных: %w", err)
			}

			fmt.Printf("📝 Черновик станции %s сохранен (%d треков)\n", station, len(order))
			return nil
		},
	}
}

func (app *Application) createOrderImportCommand(ctx context.Context) *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "import [station]",
		Short: "Send the local draft to the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			station := args[0]
			draft, err := app.Data.DraftFor(station)
			if err != nil {
				return err
			}

			if err := app.Client.SetOrder(ctx, station, draft.Order); err != nil {
				return fmt.Errorf("ошибка сохранения очереди: %w", err)
			}
			fmt.Printf("✅ Черновик от %s отправлен на сервер (%d треков)\n",
				draft.SavedAt.Format("02.01.2006 15:04"), len(draft.Order))

			if keep {
				return nil
			}
			app.Data.DeleteDraft(station)
			if err := app.SaveData(); err != nil {
				return fmt.Errorf("ошибка сохранения данных: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "Keep the draft after import")
	return cmd
}

func printOrder(station string, order []string) {
	if len(order) == 0 {
		fmt.Printf("📻 Очередь станции %s пуста\n", station)
		return
	}

	fmt.Printf("📻 Очередь станции %s (%d треков):\n", station, len(order))
	for i, song := range order {
		fmt.Printf("%4d. %s\n", i+1, song)
	}
}
