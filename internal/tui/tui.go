// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-radioctl/internal/data"
	"github.com/hazadus/go-radioctl/internal/metadata"
	"github.com/hazadus/go-radioctl/internal/player"
	"github.com/hazadus/go-radioctl/internal/streaming"
	"github.com/hazadus/go-radioctl/internal/tui/app"
	"github.com/hazadus/go-radioctl/internal/tui/preview"
)

// App представляет TUI редактора станции
type App struct {
	stationID string
	backend   app.Backend
	appData   *data.AppData
	saveFunc  func() error
	logFile   string
}

// NewApp создает новый экземпляр TUI приложения. Пустой logFile отключает запись логов.
func NewApp(stationID string, backend app.Backend, appData *data.AppData, saveFunc func() error, logFile string) *App {
	return &App{
		stationID: stationID,
		backend:   backend,
		appData:   appData,
		saveFunc:  saveFunc,
		logFile:   logFile,
	}
}

// Run запускает TUI и возвращает true, если при выходе очередь сохранена в черновик
func (tuiApp *App) Run() (bool, error) {
	closeLog, err := redirectLog(tuiApp.logFile)
	if err != nil {
		return false, err
	}
	defer closeLog()

	model := app.NewMainModel(tuiApp.stationID, tuiApp.backend, tuiApp.appData, tuiApp.saveFunc)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()

	return model.QueueDirty(), err
}

// RunPreview воспроизводит локальный файл или URL с управлением паузой
func RunPreview(source, logFile string) error {
	closeLog, err := redirectLog(logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	track := player.Track{Source: source, Title: filepath.Base(source)}
	artist := ""
	if !streaming.IsRemote(source) {
		tags := metadata.NewExtractor().ExtractFromFile(source)
		track.Title = tags.Title
		artist = tags.Artist
	}

	audio := player.NewPlayer()
	defer audio.Close()

	model := preview.NewModel(track, artist, audio)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return err
	}
	return model.Err()
}

// redirectLog перенаправляет стандартный логгер в файл, чтобы не портить экран
func redirectLog(logFile string) (func(), error) {
	if logFile == "" {
		return func() {}, nil
	}
	f, err := tea.LogToFile(logFile, "radioctl")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла логов: %w", err)
	}
	return func() { f.Close() }, nil
}
