package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}
	return path
}

// writeWAV записывает тишину длиной samples отсчетов при 44100 Гц
func writeWAV(t *testing.T, name string, samples int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}
	defer file.Close()

	format := beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	if err := wav.Encode(file, beep.Silence(samples), format); err != nil {
		t.Fatalf("Ошибка записи WAV: %v", err)
	}
	return path
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"song.mp3", true},
		{"SONG.MP3", true},
		{"take.wav", true},
		{"cover.jpg", false},
		{"track.flac", false},
		{"noext", false},
	}

	for _, test := range tests {
		if got := IsSupported(test.name); got != test.expected {
			t.Errorf("IsSupported(%s) = %v; expected %v", test.name, got, test.expected)
		}
	}
}

func TestProbeUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "cover.jpg", []byte("not audio"))

	_, err := NewExtractor().Probe(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Ожидалась ошибка ErrUnsupportedFormat, получено: %v", err)
	}
}

func TestProbeInvalidAudio(t *testing.T) {
	path := writeFile(t, "Artist - Title.mp3", []byte("fake mp3 content"))

	report, err := NewExtractor().Probe(path)
	if err == nil {
		t.Fatal("Ожидалась ошибка для некорректного MP3 файла")
	}
	if report != nil {
		t.Error("report должен быть nil при ошибке")
	}
	if !strings.Contains(err.Error(), "ошибка получения длительности") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}

func TestExtractFromNoMetadataFile(t *testing.T) {
	path := writeFile(t, "Artist - Title.mp3", []byte("fake content"))

	metadata := NewExtractor().ExtractFromFile(path)

	if metadata.Artist != "Artist" {
		t.Errorf("Ожидался Artist: Artist, получено: %s", metadata.Artist)
	}
	if metadata.Title != "Title" {
		t.Errorf("Ожидался Title: Title, получено: %s", metadata.Title)
	}
}

func TestGetDefaultMetadata(t *testing.T) {
	extractor := NewExtractor()

	metadata := extractor.ExtractFromFile("/path/to/SimpleTrack.mp3")
	if metadata.Artist != "Unknown Artist" {
		t.Errorf("Ожидался Artist: Unknown Artist, получено: %s", metadata.Artist)
	}
	if metadata.Title != "SimpleTrack" {
		t.Errorf("Ожидался Title: SimpleTrack, получено: %s", metadata.Title)
	}

	metadata = extractor.ExtractFromFile("/path/to/Artist - Album - Title.mp3")
	if metadata.Artist != "Artist" {
		t.Errorf("Ожидался Artist: Artist, получено: %s", metadata.Artist)
	}
	if metadata.Title != "Album - Title" {
		t.Errorf("Ожидался Title: Album - Title, получено: %s", metadata.Title)
	}
}

func TestGetFileInfoErrors(t *testing.T) {
	extractor := NewExtractor()

	_, err := extractor.GetFileInfo("/non/existent/file.mp3")
	if err == nil || !strings.Contains(err.Error(), "ошибка получения информации о файле") {
		t.Errorf("Неожиданная ошибка для несуществующего файла: %v", err)
	}

	_, err = extractor.GetFileInfo(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "каталогом") {
		t.Errorf("Неожиданная ошибка для каталога: %v", err)
	}
}

func TestGetDuration(t *testing.T) {
	extractor := NewExtractor()

	path := writeFile(t, "test.mp3", []byte("test content"))
	duration, err := extractor.GetDuration(path)
	if err == nil || !strings.Contains(err.Error(), "ошибка декодирования аудио") {
		t.Errorf("Неожиданная ошибка для некорректного MP3: %v", err)
	}
	if duration != 0 {
		t.Errorf("Ожидалась длительность 0 при ошибке, получено: %v", duration)
	}

	_, err = extractor.GetDuration("/non/existent/file.mp3")
	if err == nil || !strings.Contains(err.Error(), "ошибка открытия файла") {
		t.Errorf("Неожиданная ошибка для несуществующего файла: %v", err)
	}
}

func TestGetDurationWAV(t *testing.T) {
	path := writeWAV(t, "take.wav", 44100)

	duration, err := NewExtractor().GetDuration(path)
	if err != nil {
		t.Fatalf("Ошибка получения длительности WAV: %v", err)
	}
	if duration != time.Second {
		t.Errorf("Ожидалась длительность 1s, получено: %v", duration)
	}
}

func TestProbeWAV(t *testing.T) {
	path := writeWAV(t, "Artist - Take.wav", 22050)

	report, err := NewExtractor().Probe(path)
	if err != nil {
		t.Fatalf("Ошибка проверки WAV: %v", err)
	}
	if report.FileInfo.Duration != 500*time.Millisecond {
		t.Errorf("Ожидалась длительность 500ms, получено: %v", report.FileInfo.Duration)
	}
	if report.FileInfo.Size == 0 {
		t.Error("Размер файла не должен быть нулевым")
	}
	if report.Metadata.Title != "Take" {
		t.Errorf("Ожидался Title: Take, получено: %s", report.Metadata.Title)
	}
}
