// Package app содержит основную логику TUI приложения
package app

import (
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-radioctl/internal/data"
	"github.com/hazadus/go-radioctl/internal/tui/library"
	tuiQueue "github.com/hazadus/go-radioctl/internal/tui/queue"
	"github.com/hazadus/go-radioctl/internal/tui/station"
)

// ScreenType определяет тип текущего экрана
type ScreenType int

const (
	// QueueScreen - экран очереди станции
	QueueScreen ScreenType = iota
	// LibraryScreen - экран песен станции
	LibraryScreen
	// StationScreen - экран настроек станции
	StationScreen
)

// Backend - запросы к серверу, которые выполняют экраны
type Backend interface {
	tuiQueue.OrderStore
	library.SongStore
	station.Updater
}

// MainModel представляет главную модель TUI
type MainModel struct {
	stationID     string
	backend       Backend
	appData       *data.AppData
	saveFunc      func() error
	currentScreen ScreenType
	queueModel    *tuiQueue.Model
	libraryModel  *library.Model
	stationModel  *station.Model
	windowSize    *tea.WindowSizeMsg
}

// NewMainModel создает новую главную модель для станции
func NewMainModel(stationID string, backend Backend, appData *data.AppData, saveFunc func() error) *MainModel {
	m := &MainModel{
		stationID:     stationID,
		backend:       backend,
		appData:       appData,
		saveFunc:      saveFunc,
		currentScreen: QueueScreen,
	}
	m.queueModel = tuiQueue.NewModel(stationID, backend, m.saveDraft)
	return m
}

// Init загружает очередь станции
func (m *MainModel) Init() tea.Cmd {
	return m.queueModel.Init()
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || (msg.String() == "q" && m.currentScreen == QueueScreen) {
			m.saveDraftOnExit()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.windowSize = &msg
		m.queueModel, _ = m.queueModel.Update(msg)
		if m.libraryModel != nil {
			m.libraryModel, _ = m.libraryModel.Update(msg)
		}
		if m.stationModel != nil {
			m.stationModel, _ = m.stationModel.Update(msg)
		}
		return m, nil

	case tuiQueue.OpenLibraryMsg:
		m.currentScreen = LibraryScreen
		if m.libraryModel == nil {
			m.libraryModel = library.NewModel(m.stationID, m.backend)
			m.resize()
		}
		return m, m.libraryModel.Init()

	case tuiQueue.OpenStationMsg:
		m.currentScreen = StationScreen
		record := data.StationRecord{ID: m.stationID}
		if known, err := m.appData.StationByID(m.stationID); err == nil {
			record = *known
		}
		m.stationModel = station.NewModel(record, m.backend)
		m.resize()
		return m, m.stationModel.Init()

	case library.GoBackMsg, station.GoBackMsg:
		m.currentScreen = QueueScreen
		m.stationModel = nil
		return m, nil

	case library.SongSelectedMsg:
		m.queueModel, cmd = m.queueModel.Update(tuiQueue.AppendMsg{Song: msg.Song})
		return m, cmd

	case tuiQueue.LoadedMsg, tuiQueue.SavedMsg, tuiQueue.DraftExportedMsg:
		m.queueModel, cmd = m.queueModel.Update(msg)
		return m, cmd

	case library.SongsLoadedMsg, library.SongDeletedMsg:
		if m.libraryModel != nil {
			m.libraryModel, cmd = m.libraryModel.Update(msg)
		}
		return m, cmd

	case station.SavedMsg:
		if msg.Err == nil {
			m.appData.RememberStation(msg.Record)
			m.save()
		}
		if m.stationModel != nil {
			m.stationModel, cmd = m.stationModel.Update(msg)
		}
		return m, cmd
	}

	switch m.currentScreen {
	case QueueScreen:
		m.queueModel, cmd = m.queueModel.Update(msg)
	case LibraryScreen:
		if m.libraryModel != nil {
			m.libraryModel, cmd = m.libraryModel.Update(msg)
		}
	case StationScreen:
		if m.stationModel != nil {
			m.stationModel, cmd = m.stationModel.Update(msg)
		}
	}
	return m, cmd
}

// View отображает интерфейс
func (m *MainModel) View() string {
	switch m.currentScreen {
	case QueueScreen:
		return m.queueModel.View()

	case LibraryScreen:
		if m.libraryModel != nil {
			return m.libraryModel.View()
		}
		return "Ошибка: модель библиотеки не инициализирована"

	case StationScreen:
		if m.stationModel != nil {
			return m.stationModel.View()
		}
		return "Ошибка: модель настроек не инициализирована"

	default:
		return "Неизвестный экран"
	}
}

// CurrentScreen возвращает активный экран
func (m *MainModel) CurrentScreen() ScreenType {
	return m.currentScreen
}

// QueueDirty сообщает, есть ли в очереди несохраненные изменения
func (m *MainModel) QueueDirty() bool {
	return m.queueModel.Editor().Dirty()
}

func (m *MainModel) resize() {
	if m.windowSize == nil {
		return
	}
	if m.libraryModel != nil {
		m.libraryModel, _ = m.libraryModel.Update(*m.windowSize)
	}
	if m.stationModel != nil {
		m.stationModel, _ = m.stationModel.Update(*m.windowSize)
	}
}

func (m *MainModel) saveDraft(stationID string, order []string) error {
	m.appData.SaveDraft(stationID, order, time.Now())
	if m.saveFunc != nil {
		return m.saveFunc()
	}
	return nil
}

// saveDraftOnExit сохраняет несохраненную очередь локально, чтобы ее можно было загрузить командой order import
func (m *MainModel) saveDraftOnExit() {
	if !m.QueueDirty() {
		return
	}
	if err := m.saveDraft(m.stationID, m.queueModel.Editor().Serialize()); err != nil {
		log.Printf("ошибка сохранения черновика %s: %v", m.stationID, err)
		return
	}
	log.Printf("несохраненная очередь %s записана в черновик", m.stationID)
}

func (m *MainModel) save() {
	if m.saveFunc == nil {
		return
	}
	if err := m.saveFunc(); err != nil {
		log.Printf("ошибка сохранения данных: %v", err)
	}
}
