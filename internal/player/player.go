// Package player содержит компоненты для предварительного прослушивания песен
package player

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/hazadus/go-radioctl/internal/metadata"
	"github.com/hazadus/go-radioctl/internal/streaming"
)

const bufferSize = 256 * 1024

// Track - песня, которую можно прослушать: локальный файл или URL
type Track struct {
	Source string
	Title  string
}

// Status представляет текущий статус плеера
type Status struct {
	Current    time.Duration
	Total      time.Duration
	IsPlaying  bool
	StuckCount int // Сколько тиков подряд позиция не менялась
}

// Player управляет воспроизведением
type Player struct {
	progressChan chan Status
	doneChan     chan bool

	ctx           context.Context
	cancel        context.CancelFunc
	mutex         sync.RWMutex
	isInitialized bool
	isPaused      bool
	currentTrack  *Track

	streamer     beep.StreamSeekCloser
	ctrl         *beep.Ctrl
	streamReader *streaming.Reader
}

// NewPlayer создает новый экземпляр плеера
func NewPlayer() *Player {
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		progressChan: make(chan Status, 1),
		doneChan:     make(chan bool, 1),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Progress возвращает канал для получения обновлений прогресса
func (p *Player) Progress() <-chan Status {
	return p.progressChan
}

// Done возвращает канал, в который приходит сигнал о завершении трека
func (p *Player) Done() <-chan bool {
	return p.doneChan
}

// Play начинает воспроизведение трека, остановив текущий
func (p *Player) Play(track *Track) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.stopInternal()

	streamReader, err := streaming.NewReader(p.ctx, track.Source, bufferSize)
	if err != nil {
		return fmt.Errorf("ошибка открытия источника: %w", err)
	}

	streamer, format, err := metadata.Decode(streamReader.Name(), streamReader)
	if err != nil {
		streamReader.Close()
		return fmt.Errorf("ошибка декодирования %s: %w", filepath.Base(track.Source), err)
	}

	// speaker инициализируется один раз за время жизни процесса
	if !p.isInitialized {
		err = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/5))
		if err != nil {
			streamer.Close()
			streamReader.Close()
			return fmt.Errorf("ошибка инициализации динамиков: %w", err)
		}
		p.isInitialized = true
	}

	p.streamReader = streamReader
	p.streamer = streamer
	p.currentTrack = track
	p.ctrl = &beep.Ctrl{Streamer: streamer}
	p.isPaused = false

	speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
		select {
		case p.doneChan <- true:
		default:
		}
	})))

	go p.monitorProgress(format)

	return nil
}

// Pause приостанавливает или возобновляет воспроизведение
func (p *Player) Pause() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.ctrl != nil {
		speaker.Lock()
		p.isPaused = !p.isPaused
		p.ctrl.Paused = p.isPaused
		speaker.Unlock()
	}
}

// Stop останавливает воспроизведение
func (p *Player) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.stopInternal()
}

// stopInternal должен вызываться под мьютексом
func (p *Player) stopInternal() {
	if p.ctrl != nil {
		speaker.Clear()
		p.ctrl = nil
	}

	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}

	if p.streamReader != nil {
		p.streamReader.Close()
		p.streamReader = nil
	}

	p.currentTrack = nil
	p.isPaused = false
}

// Close закрывает плеер и освобождает ресурсы
func (p *Player) Close() error {
	p.cancel()
	p.Stop()
	return nil
}

// IsPlaying возвращает true, если трек воспроизводится
func (p *Player) IsPlaying() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.ctrl != nil && !p.isPaused
}

// IsPaused возвращает true, если трек загружен и стоит на паузе
func (p *Player) IsPaused() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.ctrl != nil && p.isPaused
}

// CurrentTrack возвращает текущий трек
func (p *Player) CurrentTrack() *Track {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.currentTrack
}

func (p *Player) monitorProgress(format beep.Format) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var lastPosition time.Duration
	stuckCount := 0

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.mutex.RLock()
			if p.streamer == nil || p.ctrl == nil {
				p.mutex.RUnlock()
				return
			}

			speaker.Lock()
			current := format.SampleRate.D(p.streamer.Position())
			total := format.SampleRate.D(p.streamer.Len())
			paused := p.isPaused
			speaker.Unlock()
			p.mutex.RUnlock()

			if !paused && current == lastPosition {
				stuckCount++
			} else {
				stuckCount = 0
			}
			lastPosition = current

			status := Status{
				Current:    current,
				Total:      total,
				IsPlaying:  !paused,
				StuckCount: stuckCount,
			}

			// Медленный получатель пропускает обновления
			select {
			case p.progressChan <- status:
			default:
			}
		}
	}
}
