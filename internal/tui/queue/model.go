// Package queue содержит модель экрана редактирования очереди станции для TUI
package queue

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-radioctl/internal/queue"
)

const requestTimeout = 30 * time.Second

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Margin(1, 0, 1, 2)
	baseStyle    = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(2)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).PaddingLeft(2)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).PaddingLeft(2)
)

// OrderStore загружает и сохраняет порядок воспроизведения
type OrderStore interface {
	Order(ctx context.Context, station string) ([]string, error)
	SetOrder(ctx context.Context, station string, order []string) error
}

// LoadedMsg приходит после загрузки очереди с сервера
type LoadedMsg struct {
	Order []string
	Err   error
}

// SavedMsg приходит после попытки сохранения очереди
type SavedMsg struct {
	Order []string
	Err   error
}

// AppendMsg добавляет песню в конец очереди
type AppendMsg struct {
	Song string
}

// DraftExportedMsg приходит после сохранения локального черновика
type DraftExportedMsg struct {
	Err error
}

// OpenLibraryMsg запрашивает переход к библиотеке песен
type OpenLibraryMsg struct{}

// OpenStationMsg запрашивает переход к настройкам станции
type OpenStationMsg struct{}

// Model представляет модель экрана очереди
type Model struct {
	station   string
	store     OrderStore
	draftFunc func(station string, order []string) error
	editor    *queue.Editor
	rows      []queue.RowView
	table     table.Model
	loading   bool
	saving    bool
	status    string
	err       string
}

// NewModel создает модель очереди станции. draftFunc сохраняет локальный черновик и может быть nil.
func NewModel(station string, store OrderStore, draftFunc func(string, []string) error) *Model {
	t := table.New(
		table.WithColumns(columns(60)),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)

	m := &Model{
		station:   station,
		store:     store,
		draftFunc: draftFunc,
		editor:    queue.NewEditor(),
		table:     t,
	}
	m.refresh()
	return m
}

func columns(width int) []table.Column {
	songWidth := width - 10
	if songWidth < 20 {
		songWidth = 20
	}
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Песня", Width: songWidth},
	}
}

// Editor возвращает редактор очереди
func (m *Model) Editor() *queue.Editor {
	return m.editor
}

// Cursor возвращает индекс выбранной строки
func (m *Model) Cursor() int {
	return m.table.Cursor()
}

// Init загружает очередь с сервера
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetColumns(columns(msg.Width - 4))
		m.table.SetHeight(max(msg.Height-10, 3))
		return m, nil

	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			log.Printf("ошибка загрузки очереди %s: %v", m.station, msg.Err)
			m.err = fmt.Sprintf("Ошибка загрузки очереди: %v", msg.Err)
			return m, nil
		}
		m.editor.Load(msg.Order)
		m.refresh()
		m.err = ""
		m.status = fmt.Sprintf("Загружено песен: %d", m.editor.Len())
		return m, nil

	case SavedMsg:
		m.saving = false
		// Результат сохранения только отображается, повтора и отката нет
		if msg.Err != nil {
			log.Printf("ошибка сохранения очереди %s: %v", m.station, msg.Err)
			m.err = fmt.Sprintf("Ошибка сохранения: %v", msg.Err)
			m.status = ""
			return m, nil
		}
		log.Printf("очередь %s сохранена: %d песен", m.station, len(msg.Order))
		m.editor.MarkSaved(msg.Order)
		m.err = ""
		m.status = "Очередь сохранена"
		return m, nil

	case DraftExportedMsg:
		if msg.Err != nil {
			log.Printf("ошибка сохранения черновика %s: %v", m.station, msg.Err)
			m.err = fmt.Sprintf("Ошибка сохранения черновика: %v", msg.Err)
			return m, nil
		}
		m.err = ""
		m.status = "Черновик сохранен локально"
		return m, nil

	case AppendMsg:
		m.editor.Append(msg.Song)
		m.refresh()
		m.table.SetCursor(m.editor.Len() - 1)
		m.status = fmt.Sprintf("Добавлено: %s", msg.Song)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "x", "delete":
			m.trigger(queue.ActionRemove)
			return m, nil
		case "K", "shift+up":
			m.trigger(queue.ActionMoveUp)
			return m, nil
		case "J", "shift+down":
			m.trigger(queue.ActionMoveDown)
			return m, nil
		case "ctrl+s":
			return m, m.save()
		case "ctrl+e":
			return m, m.exportDraft()
		case "r":
			if m.editor.Dirty() {
				m.err = "Есть несохраненные изменения: ctrl+s сохранить, ctrl+e в черновик, R перезагрузить без сохранения"
				return m, nil
			}
			return m, m.load()
		case "R":
			return m, m.load()
		case "l":
			return m, func() tea.Msg { return OpenLibraryMsg{} }
		case "e":
			return m, func() tea.Msg { return OpenStationMsg{} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// trigger применяет действие выбранной строки последней отрисовки
func (m *Model) trigger(action queue.Action) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.rows) {
		return
	}

	var t queue.Trigger
	for _, candidate := range m.rows[cursor].Triggers() {
		if candidate.Action == action {
			t = candidate
			break
		}
	}

	target := cursor
	switch action {
	case queue.ActionMoveUp:
		if cursor > 0 {
			target = cursor - 1
		}
	case queue.ActionMoveDown:
		if cursor < len(m.rows)-1 {
			target = cursor + 1
		}
	}

	if err := m.editor.Trigger(t); err != nil {
		log.Printf("действие %s отклонено: %v", action, err)
		m.err = err.Error()
		return
	}
	m.refresh()
	if m.editor.Len() > 0 {
		m.table.SetCursor(min(target, m.editor.Len()-1))
	}
	m.err = ""
	m.status = ""
}

// refresh перестраивает таблицу из новой отрисовки редактора
func (m *Model) refresh() {
	m.rows = m.editor.Render()
	tableRows := make([]table.Row, len(m.rows))
	for i, row := range m.rows {
		tableRows[i] = table.Row{strconv.Itoa(row.Index + 1), row.Text}
	}
	m.table.SetRows(tableRows)
	if n := len(tableRows); n > 0 && m.table.Cursor() >= n {
		m.table.SetCursor(n - 1)
	}
}

func (m *Model) load() tea.Cmd {
	m.loading = true
	store, station := m.store, m.station
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		order, err := store.Order(ctx, station)
		return LoadedMsg{Order: order, Err: err}
	}
}

// save отправляет снимок очереди, сделанный в момент нажатия
func (m *Model) save() tea.Cmd {
	snapshot := m.editor.Serialize()
	m.saving = true
	m.status = "Сохранение..."
	store, station := m.store, m.station
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := store.SetOrder(ctx, station, snapshot)
		return SavedMsg{Order: snapshot, Err: err}
	}
}

func (m *Model) exportDraft() tea.Cmd {
	if m.draftFunc == nil {
		return nil
	}
	// AppData изменяется только в цикле обновления
	err := m.draftFunc(m.station, m.editor.Serialize())
	return func() tea.Msg {
		return DraftExportedMsg{Err: err}
	}
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Очередь станции %s", m.station)
	if m.editor.Dirty() {
		title += " *"
	}
	if m.saving {
		title += " (сохранение...)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if m.loading && m.editor.Len() == 0 {
		b.WriteString(helpStyle.Render("Загрузка..."))
		b.WriteString("\n")
	} else {
		b.WriteString(baseStyle.Render(m.table.View()))
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(successStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("x: удалить • K/J: вверх/вниз • Ctrl+S: сохранить • Ctrl+E: черновик"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("l: библиотека • e: станция • r: обновить • R: сбросить правки • q: выход"))
	return b.String()
}
