package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-radioctl/internal/credential"
)

// createAuthCommand создает команду для проверки токена авторизации
func (app *Application) createAuthCommand() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Inspect the authorization token",
	}

	authCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the server address and the token in use",
		Long:  `Show the server address and decode the token locally. The signature is not verified.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Printf("🌐 Сервер: %s\n", app.Config.ServerURL)

			if app.Config.Token == "" {
				fmt.Println("🔓 Токен не задан: доступны только команды чтения")
				return nil
			}
			fmt.Printf("🔑 Токен: %s\n", credential.Mask(app.Config.Token))

			info, err := credential.Inspect(app.Config.Token)
			if err != nil {
				return err
			}
			if info.Subject != "" {
				fmt.Printf("   Пользователь: %s\n", info.Subject)
			}
			switch {
			case !info.HasExpiry:
				fmt.Println("   Срок действия: не ограничен")
			case info.Expired(time.Now()):
				fmt.Printf("   ⚠️  Срок действия истек %s\n", info.ExpiresAt.Local().Format("02.01.2006 15:04"))
			default:
				fmt.Printf("   Действует до: %s\n", info.ExpiresAt.Local().Format("02.01.2006 15:04"))
			}
			return nil
		},
	})

	return authCmd
}
