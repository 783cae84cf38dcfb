// Package library содержит модель экрана песен станции для TUI
package library

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-radioctl/internal/utils"
)

const requestTimeout = 30 * time.Second

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).PaddingLeft(4)
)

// SongStore получает и удаляет песни станции
type SongStore interface {
	Songs(ctx context.Context, station string) ([]string, error)
	DeleteSong(ctx context.Context, station, song string) error
}

// SongsLoadedMsg приходит после загрузки списка песен
type SongsLoadedMsg struct {
	Songs []string
	Err   error
}

// SongDeletedMsg приходит после попытки удаления песни
type SongDeletedMsg struct {
	Song string
	Err  error
}

// SongSelectedMsg отправляется при добавлении песни в очередь
type SongSelectedMsg struct {
	Song string
}

// GoBackMsg отправляется для возврата к очереди
type GoBackMsg struct{}

type songItem string

func (i songItem) FilterValue() string { return string(i) }

type songItemDelegate struct{}

func (d songItemDelegate) Height() int                             { return 1 }
func (d songItemDelegate) Spacing() int                            { return 0 }
func (d songItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d songItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(songItem)
	if !ok {
		return
	}

	str := fmt.Sprintf("%-4d %s", index+1, utils.TruncateString(string(i), 70))

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// Model представляет модель экрана песен станции
type Model struct {
	station string
	store   SongStore
	list    list.Model
	err     string
}

// NewModel создает модель песен станции
func NewModel(station string, store SongStore) *Model {
	l := list.New(nil, songItemDelegate{}, 0, 0)
	l.Title = fmt.Sprintf("Песни станции %s", station)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	return &Model{
		station: station,
		store:   store,
		list:    l,
	}
}

// Init загружает список песен
func (m *Model) Init() tea.Cmd {
	return m.refresh()
}

// Songs возвращает песни, отображаемые в списке
func (m *Model) Songs() []string {
	items := m.list.Items()
	songs := make([]string, 0, len(items))
	for _, item := range items {
		if song, ok := item.(songItem); ok {
			songs = append(songs, string(song))
		}
	}
	return songs
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case SongsLoadedMsg:
		if msg.Err != nil {
			log.Printf("ошибка загрузки песен %s: %v", m.station, msg.Err)
			m.err = fmt.Sprintf("Ошибка загрузки песен: %v", msg.Err)
			return m, nil
		}
		items := make([]list.Item, len(msg.Songs))
		for i, song := range msg.Songs {
			items[i] = songItem(song)
		}
		m.err = ""
		return m, m.list.SetItems(items)

	case SongDeletedMsg:
		if msg.Err != nil {
			log.Printf("ошибка удаления песни %s: %v", msg.Song, msg.Err)
			m.err = fmt.Sprintf("Ошибка удаления %s: %v", msg.Song, msg.Err)
			return m, nil
		}
		log.Printf("песня %s удалена со станции %s", msg.Song, m.station)
		// После удаления список перечитывается с сервера
		return m, m.refresh()

	case tea.KeyMsg:
		// Во время ввода фильтра клавиши обрабатывает список
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return GoBackMsg{} }

		case "enter", "a":
			if item, ok := m.list.SelectedItem().(songItem); ok {
				return m, func() tea.Msg { return SongSelectedMsg{Song: string(item)} }
			}
			return m, nil

		case "d":
			if item, ok := m.list.SelectedItem().(songItem); ok {
				return m, m.deleteSong(string(item))
			}
			return m, nil

		case "r":
			return m, m.refresh()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) refresh() tea.Cmd {
	store, station := m.store, m.station
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		songs, err := store.Songs(ctx, station)
		return SongsLoadedMsg{Songs: songs, Err: err}
	}
}

func (m *Model) deleteSong(song string) tea.Cmd {
	store, station := m.store, m.station
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return SongDeletedMsg{Song: song, Err: store.DeleteSong(ctx, station, song)}
	}
}

// View отображает модель
func (m *Model) View() string {
	view := m.list.View()
	if m.err != "" {
		view += "\n" + errorStyle.Render(m.err)
	}
	extraHelp := helpStyle.Render("Enter/a: в очередь • d: удалить • r: обновить • Esc: назад")
	return view + "\n" + extraHelp
}
