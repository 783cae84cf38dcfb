package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// createUserCommand создает группу команд для учетной записи
func (app *Application) createUserCommand(ctx context.Context) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage the account on the radio server",
	}

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the account that owns the token",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !yes {
				return errNotAccepted
			}
			if err := app.Client.DeleteUser(ctx); err != nil {
				return fmt.Errorf("ошибка удаления учетной записи: %w", err)
			}
			fmt.Println("✅ Учетная запись удалена. Не забудьте убрать токен из конфигурации.")
			return nil
		},
	}
	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")

	userCmd.AddCommand(deleteCmd)
	return userCmd
}
