package player

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFakeSong(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("not really audio"), 0644); err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}
	return path
}

func TestPlayInvalidFile(t *testing.T) {
	player := NewPlayer()
	defer player.Close()

	err := player.Play(&Track{Source: writeFakeSong(t, "song.mp3"), Title: "Song"})
	if err == nil {
		t.Fatal("Ожидалась ошибка при воспроизведении невалидного файла")
	}
	if !strings.Contains(err.Error(), "ошибка декодирования song.mp3") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
	if player.CurrentTrack() != nil {
		t.Error("Текущий трек не должен устанавливаться при ошибке")
	}
	if player.IsPlaying() {
		t.Error("Плеер не должен воспроизводить при ошибке")
	}
}

func TestPlayUnsupportedFormat(t *testing.T) {
	player := NewPlayer()
	defer player.Close()

	err := player.Play(&Track{Source: writeFakeSong(t, "song.ogg")})
	if err == nil || !strings.Contains(err.Error(), "не поддерживается") {
		t.Errorf("Ожидалась ошибка неподдерживаемого формата, получено: %v", err)
	}
}

func TestPlayMissingSource(t *testing.T) {
	player := NewPlayer()
	defer player.Close()

	err := player.Play(&Track{Source: "/non/existent/file.mp3"})
	if err == nil || !strings.Contains(err.Error(), "ошибка открытия источника") {
		t.Errorf("Неожиданная ошибка: %v", err)
	}

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	err = player.Play(&Track{Source: server.URL + "/rock/songs/a.mp3"})
	if err == nil || !strings.Contains(err.Error(), "ошибка HTTP") {
		t.Errorf("Неожиданная ошибка для URL: %v", err)
	}
}

func TestPauseWithoutTrack(t *testing.T) {
	player := NewPlayer()
	defer player.Close()

	player.Pause()
	if player.IsPlaying() || player.IsPaused() {
		t.Error("Пауза без трека не должна менять состояние")
	}

	player.Stop()
	if player.CurrentTrack() != nil {
		t.Error("Текущий трек должен быть nil после остановки")
	}
}

func TestPlayerChannels(t *testing.T) {
	player := NewPlayer()
	defer player.Close()

	if player.Progress() == nil || player.Done() == nil {
		t.Fatal("Каналы плеера не должны быть nil")
	}

	select {
	case <-player.Progress():
		t.Error("Канал прогресса не должен содержать обновлений изначально")
	case <-player.Done():
		t.Error("Канал завершения не должен содержать сигналов изначально")
	default:
	}
}

func TestPlayerConcurrentAccess(t *testing.T) {
	player := NewPlayer()
	defer player.Close()

	source := writeFakeSong(t, "song.mp3")
	done := make(chan bool, 3)

	go func() {
		_ = player.Play(&Track{Source: source})
		done <- true
	}()
	go func() {
		player.Pause()
		done <- true
	}()
	go func() {
		player.Stop()
		done <- true
	}()

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Таймаут при тестировании конкурентного доступа")
		}
	}

	if player.IsPlaying() {
		t.Error("Плеер не должен воспроизводить после конкурентных операций")
	}
}
