package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazadus/go-radioctl/internal/config"
	"github.com/hazadus/go-radioctl/internal/data"
	"github.com/hazadus/go-radioctl/internal/radio"
)

const (
	defaultConfigPath   = "~/.radioctl"
	defaultDataFilePath = "~/.radioctl-data.yaml"
)

// Application хранит конфигурацию, локальные данные и клиента сервера
type Application struct {
	Config   *config.Config
	Data     *data.AppData
	Client   *radio.Client
	DataPath string
	logger   *log.Logger
}

// NewApplication создает приложение и клиента для сервера из конфигурации
func NewApplication(cfg *config.Config, appData *data.AppData, dataPath string) (*Application, error) {
	logger := log.New(io.Discard, "radio: ", log.LstdFlags)

	client, err := radio.NewClient(cfg.ServerURL,
		radio.WithToken(cfg.Token),
		radio.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:   cfg,
		Data:     appData,
		Client:   client,
		DataPath: dataPath,
		logger:   logger,
	}, nil
}

// SaveData сохраняет локальные данные приложения
func (app *Application) SaveData() error {
	return app.Data.SaveData(app.DataPath)
}

func main() {
	cfg, err := config.LoadConfig(defaultConfigPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	appData := data.NewAppData()
	if err := appData.LoadData(defaultDataFilePath); err != nil {
		log.Fatalf("Ошибка загрузки данных: %v", err)
	}

	app, err := NewApplication(cfg, appData, defaultDataFilePath)
	if err != nil {
		log.Fatalf("Ошибка создания клиента: %v", err)
	}

	// Ctrl+C отменяет текущий запрос к серверу
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.createRootCommand(ctx).Execute(); err != nil {
		fmt.Printf("❌ Ошибка: %v\n", err)
		stop()
		os.Exit(1)
	}
}
