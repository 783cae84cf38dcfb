// Package uploader загружает локальные аудио файлы на радиостанцию
package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazadus/go-radioctl/internal/metadata"
)

// ErrNoFileSelected возвращается, если путь к файлу не указан
var ErrNoFileSelected = errors.New("не выбран файл для загрузки")

// SongUploader отправляет файл песни на сервер
type SongUploader interface {
	UploadSong(ctx context.Context, station, filename string, r io.Reader) error
}

// Prober проверяет файл перед загрузкой
type Prober interface {
	Probe(filePath string) (*metadata.Report, error)
}

// Service управляет процессом загрузки песен
type Service struct {
	client SongUploader
	prober Prober
}

// NewService создает новый сервис загрузки
func NewService(client SongUploader) *Service {
	return &Service{
		client: client,
		prober: metadata.NewExtractor(),
	}
}

// UploadResult содержит результат загрузки
type UploadResult struct {
	Station  string
	SongName string
	Metadata metadata.TrackMetadata
	FileInfo *metadata.FileInfo
}

// UploadFile проверяет файл и загружает его на станцию под именем songName.
// Пустое songName означает имя исходного файла.
func (s *Service) UploadFile(ctx context.Context, station, filePath, songName string, progressCallback func(int64)) (*UploadResult, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, ErrNoFileSelected
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("файл не найден: %s", filePath)
	}

	report, err := s.prober.Probe(filePath)
	if err != nil {
		return nil, fmt.Errorf("файл не прошел проверку: %w", err)
	}

	songName = SongName(filePath, songName)

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if progressCallback != nil {
		reader = &ProgressReader{
			Reader:     file,
			Size:       report.FileInfo.Size,
			OnProgress: progressCallback,
		}
	}

	if err := s.client.UploadSong(ctx, station, songName, reader); err != nil {
		return nil, fmt.Errorf("ошибка загрузки на станцию %s: %w", station, err)
	}

	return &UploadResult{
		Station:  station,
		SongName: songName,
		Metadata: report.Metadata,
		FileInfo: report.FileInfo,
	}, nil
}

// SongName возвращает имя песни на сервере. Если name задано без расширения,
// добавляется расширение исходного файла.
func SongName(filePath, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return filepath.Base(filePath)
	}
	if filepath.Ext(name) == "" {
		return name + strings.ToLower(filepath.Ext(filePath))
	}
	return name
}

// ProgressReader структура для отслеживания прогресса чтения
type ProgressReader struct {
	io.Reader
	Size       int64
	OnProgress func(int64)
	bytesRead  int64
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	pr.bytesRead += int64(n)
	if pr.OnProgress != nil {
		pr.OnProgress(pr.bytesRead)
	}
	return n, err
}
