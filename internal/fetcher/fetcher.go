// Package fetcher скачивает аудио дорожки YouTube видео для последующей загрузки на станцию
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kkdai/youtube/v2"
)

// ErrNoAudioFormat возвращается, если у видео нет дорожки со звуком
var ErrNoAudioFormat = errors.New("аудио формат не найден")

var (
	videoIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`(?:youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`(?:youtube\.com/v/)([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`(?:youtube\.com/shorts/)([a-zA-Z0-9_-]{11})`),
	}
	bareVideoID     = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	invalidFileChar = regexp.MustCompile(`[<>:"/\\|?*]`)
)

const maxFileNameLen = 200

// VideoClient - часть youtube.Client, используемая при скачивании
type VideoClient interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

// Result описывает скачанный файл
type Result struct {
	VideoID string
	Title   string
	Author  string
	Path    string
	Size    int64
}

// Fetcher скачивает аудио в каталог загрузок
type Fetcher struct {
	client VideoClient
	dir    string
}

// New создает Fetcher, сохраняющий файлы в dir
func New(dir string) *Fetcher {
	return &Fetcher{
		client: &youtube.Client{},
		dir:    dir,
	}
}

// Download скачивает лучшую аудио дорожку видео. progress получает число
// скачанных байт и общий размер потока.
func (f *Fetcher) Download(ctx context.Context, url string, progress func(done, total int64)) (*Result, error) {
	videoID, err := ExtractVideoID(url)
	if err != nil {
		return nil, err
	}

	video, err := f.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о видео: %w", err)
	}

	format := FindBestAudioFormat(video.Formats)
	if format == nil {
		return nil, ErrNoAudioFormat
	}

	stream, total, err := f.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения потока: %w", err)
	}
	defer stream.Close()

	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории: %w", err)
	}

	fileName := SanitizeFileName(video.Title)
	if fileName == "" {
		fileName = videoID
	}
	filePath := filepath.Join(f.dir, fileName+ExtensionFor(format.MimeType))

	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания файла: %w", err)
	}

	var reader io.Reader = stream
	if progress != nil {
		reader = &progressReader{Reader: stream, total: total, onProgress: progress}
	}

	written, copyErr := io.Copy(file, reader)
	closeErr := file.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("ошибка скачивания: %w", copyErr)
	}

	return &Result{
		VideoID: videoID,
		Title:   video.Title,
		Author:  video.Author,
		Path:    filePath,
		Size:    written,
	}, nil
}

// ExtractVideoID извлекает ID видео из различных форматов YouTube URL
func ExtractVideoID(url string) (string, error) {
	for _, re := range videoIDPatterns {
		if matches := re.FindStringSubmatch(url); len(matches) > 1 {
			return matches[1], nil
		}
	}

	if bareVideoID.MatchString(url) {
		return url, nil
	}

	return "", fmt.Errorf("не удалось извлечь ID видео из URL: %s", url)
}

// FindBestAudioFormat находит лучший аудио формат для скачивания
func FindBestAudioFormat(formats youtube.FormatList) *youtube.Format {
	audioFormats := formats.Type("audio")
	if len(audioFormats) == 0 {
		// Видео со звуком подходят, если отдельной аудио дорожки нет
		withAudio := formats.WithAudioChannels()
		if len(withAudio) == 0 {
			return nil
		}
		return &withAudio[0]
	}

	best := &audioFormats[0]
	for i := range audioFormats {
		format := &audioFormats[i]
		// MP4 контейнер предпочтительнее при любом битрейте
		if isMP4(format.MimeType) != isMP4(best.MimeType) {
			if isMP4(format.MimeType) {
				best = format
			}
			continue
		}
		if format.Bitrate > best.Bitrate {
			best = format
		}
	}
	return best
}

// ExtensionFor возвращает расширение файла для MIME типа потока
func ExtensionFor(mimeType string) string {
	mediaType, _, _ := strings.Cut(mimeType, ";")
	switch strings.TrimSpace(mediaType) {
	case "audio/mpeg":
		return ".mp3"
	case "audio/mp4":
		return ".m4a"
	case "audio/webm":
		return ".webm"
	case "video/mp4":
		return ".mp4"
	default:
		return ".bin"
	}
}

// SanitizeFileName очищает имя файла от недопустимых символов
func SanitizeFileName(name string) string {
	name = invalidFileChar.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)

	runes := []rune(name)
	if len(runes) > maxFileNameLen {
		name = string(runes[:maxFileNameLen])
	}
	return name
}

func isMP4(mimeType string) bool {
	return strings.Contains(mimeType, "mp4")
}

type progressReader struct {
	io.Reader
	total      int64
	done       int64
	onProgress func(done, total int64)
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	r.done += int64(n)
	r.onProgress(r.done, r.total)
	return n, err
}
