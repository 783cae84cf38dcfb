// Package preview содержит модель экрана предварительного прослушивания песни
package preview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-radioctl/internal/player"
	"github.com/hazadus/go-radioctl/internal/streaming"
	"github.com/hazadus/go-radioctl/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000ff")).
			MarginBottom(1)

	trackInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)
)

// Playback - управление воспроизведением, которое нужно экрану
type Playback interface {
	Play(track *player.Track) error
	Pause()
	Stop()
	Progress() <-chan player.Status
	Done() <-chan bool
}

// ProgressMsg содержит обновления прогресса воспроизведения
type ProgressMsg struct {
	Status player.Status
}

// PlaybackStartedMsg отправляется после успешного запуска воспроизведения
type PlaybackStartedMsg struct{}

// PlaybackFinishedMsg отправляется при завершении воспроизведения
type PlaybackFinishedMsg struct{}

// PlaybackErrorMsg отправляется при ошибке воспроизведения
type PlaybackErrorMsg struct {
	Error error
}

// Model представляет модель экрана прослушивания
type Model struct {
	track       player.Track
	artist      string
	player      Playback
	progressBar progress.Model
	status      player.Status
	isPlaying   bool
	err         error
	width       int
}

// NewModel создает модель прослушивания трека
func NewModel(track player.Track, artist string, playback Playback) *Model {
	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40

	return &Model{
		track:       track,
		artist:      artist,
		player:      playback,
		progressBar: prog,
	}
}

// Init запускает воспроизведение
func (m *Model) Init() tea.Cmd {
	return m.startPlayback()
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = min(60, msg.Width-10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.player.Stop()
			return m, tea.Quit

		case " ":
			if m.err != nil {
				return m, nil
			}
			m.player.Pause()
			m.isPlaying = !m.isPlaying
			return m, nil
		}

	case PlaybackStartedMsg:
		m.isPlaying = true
		return m, m.listenForProgress()

	case ProgressMsg:
		m.status = msg.Status
		m.isPlaying = msg.Status.IsPlaying

		var percent float64
		if msg.Status.Total > 0 {
			percent = float64(msg.Status.Current) / float64(msg.Status.Total)
		}
		return m, tea.Batch(
			m.progressBar.SetPercent(percent),
			m.listenForProgress(),
		)

	case PlaybackFinishedMsg:
		m.isPlaying = false
		return m, tea.Quit

	case PlaybackErrorMsg:
		m.err = msg.Error
		m.isPlaying = false
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// Err возвращает ошибку воспроизведения, если она была
func (m *Model) Err() error {
	return m.err
}

// View отображает модель
func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf(
			"%s\n\n%s\n\n%s",
			titleStyle.Render("❌ Ошибка воспроизведения"),
			errorStyle.Render(m.err.Error()),
			controlsStyle.Render("Нажмите 'q' или 'esc' для выхода"),
		)
	}

	title := titleStyle.Render("🎵 Прослушивание")

	trackInfo := trackInfoStyle.Render(fmt.Sprintf(
		"🎤 %s\n🎵 %s\n📁 %s",
		m.artist,
		m.track.Title,
		utils.TruncateString(m.track.Source, 60),
	))

	statusIcon := "⏸️"
	if m.isPlaying {
		statusIcon = "▶️"
	}
	statusText := statusStyle.Render(fmt.Sprintf("%s %s", statusIcon, formatStatus(m.isPlaying, m.status.StuckCount)))

	timeText := fmt.Sprintf(
		"%s / %s",
		utils.FormatDuration(m.status.Current),
		utils.FormatDuration(m.status.Total),
	)

	controls := controlsStyle.Render("Пробел: пауза/воспроизведение • q/esc: выход")

	return fmt.Sprintf(
		"%s\n\n%s\n\n%s\n\n%s\n%s\n\n%s",
		title,
		trackInfo,
		statusText,
		m.progressBar.View(),
		timeText,
		controls,
	)
}

func (m *Model) startPlayback() tea.Cmd {
	playback, track := m.player, m.track
	return func() tea.Msg {
		if err := playback.Play(&track); err != nil {
			return PlaybackErrorMsg{Error: err}
		}
		return PlaybackStartedMsg{}
	}
}

func (m *Model) listenForProgress() tea.Cmd {
	playback := m.player
	return func() tea.Msg {
		select {
		case status := <-playback.Progress():
			return ProgressMsg{Status: status}
		case <-playback.Done():
			return PlaybackFinishedMsg{}
		}
	}
}

func formatStatus(isPlaying bool, stuckCount int) string {
	if !isPlaying {
		return "Пауза"
	}
	return streaming.GetStreamStatus(stuckCount)
}
