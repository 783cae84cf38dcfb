// Package station содержит модель экрана настроек станции для TUI
package station

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-radioctl/internal/data"
	"github.com/hazadus/go-radioctl/internal/radio"
)

const requestTimeout = 30 * time.Second

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Margin(1, 0)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(15)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Margin(1, 0)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Margin(1, 0)
)

// Updater отправляет изменения настроек станции
type Updater interface {
	UpdateStation(ctx context.Context, station string, update radio.StationUpdate) error
}

// SavedMsg приходит после попытки сохранения настроек
type SavedMsg struct {
	Record data.StationRecord
	Err    error
}

// GoBackMsg отправляется при выходе из редактора
type GoBackMsg struct{}

type fieldType int

const (
	titleField fieldType = iota
	descriptionField
	numFields
)

// Model представляет модель экрана настроек станции
type Model struct {
	record     data.StationRecord
	updater    Updater
	inputs     []textinput.Model
	focusIndex int
	err        string
	success    string
}

// NewModel создает редактор настроек, заполненный известными данными станции
func NewModel(record data.StationRecord, updater Updater) *Model {
	inputs := make([]textinput.Model, numFields)

	inputs[titleField] = textinput.New()
	inputs[titleField].Placeholder = "Название станции"
	inputs[titleField].SetValue(record.Title)
	inputs[titleField].Focus()
	inputs[titleField].PromptStyle = focusedStyle
	inputs[titleField].TextStyle = focusedStyle

	inputs[descriptionField] = textinput.New()
	inputs[descriptionField].Placeholder = "Описание станции"
	inputs[descriptionField].SetValue(record.Description)
	inputs[descriptionField].PromptStyle = blurredStyle
	inputs[descriptionField].TextStyle = blurredStyle

	return &Model{
		record:  record,
		updater: updater,
		inputs:  inputs,
	}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return GoBackMsg{} }

		case "ctrl+s":
			return m, m.save()

		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			if s == "enter" && m.focusIndex == len(m.inputs) {
				return m, m.save()
			}

			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}

			if m.focusIndex > len(m.inputs) {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs)
			}

			cmds := make([]tea.Cmd, len(m.inputs))
			for i := range m.inputs {
				if i == m.focusIndex {
					cmds[i] = m.inputs[i].Focus()
					m.inputs[i].PromptStyle = focusedStyle
					m.inputs[i].TextStyle = focusedStyle
				} else {
					m.inputs[i].Blur()
					m.inputs[i].PromptStyle = blurredStyle
					m.inputs[i].TextStyle = blurredStyle
				}
			}
			return m, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		for i := range m.inputs {
			m.inputs[i].Width = msg.Width - 20
		}
		return m, nil

	case SavedMsg:
		if msg.Err != nil {
			log.Printf("ошибка сохранения станции %s: %v", msg.Record.ID, msg.Err)
			m.err = fmt.Sprintf("Ошибка сохранения: %v", msg.Err)
			m.success = ""
			return m, nil
		}
		m.record = msg.Record
		m.err = ""
		m.success = "Настройки станции сохранены"
		return m, nil
	}

	if m.focusIndex < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
		return m, cmd
	}
	return m, nil
}

// save отправляет только измененные поля
func (m *Model) save() tea.Cmd {
	title := strings.TrimSpace(m.inputs[titleField].Value())
	description := strings.TrimSpace(m.inputs[descriptionField].Value())

	if title == "" {
		m.err = "Название станции не может быть пустым"
		m.success = ""
		return nil
	}

	update := radio.StationUpdate{}
	if title != m.record.Title {
		update.Title = &title
	}
	if description != m.record.Description {
		update.Description = &description
	}
	if update.Title == nil && update.Description == nil {
		m.err = ""
		m.success = "Изменений нет"
		return nil
	}

	record := m.record
	record.Title = title
	record.Description = description

	updater := m.updater
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return SavedMsg{Record: record, Err: updater.UpdateStation(ctx, record.ID, update)}
	}
}

// Record возвращает последние сохраненные настройки
func (m *Model) Record() data.StationRecord {
	return m.record
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Настройки станции %s", m.record.ID)))
	b.WriteString("\n\n")

	labels := []string{"Название:", "Описание:"}
	for i, input := range m.inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString(" ")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	saveButton := "[ Сохранить ]"
	if m.focusIndex == len(m.inputs) {
		saveButton = focusedStyle.Render(saveButton)
	} else {
		saveButton = blurredStyle.Render(saveButton)
	}
	b.WriteString(saveButton)
	b.WriteString("\n\n")

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}
	if m.success != "" {
		b.WriteString(successStyle.Render(m.success))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("Tab/Enter: следующее поле • Ctrl+S: сохранить • Esc: назад"))
	return b.String()
}
