// Package s3 сохраняет резервные копии станций в Amazon S3
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// ErrNoBucket возвращается, если бакет для резервных копий не задан
var ErrNoBucket = errors.New("не указан бакет S3 для резервных копий")

// Config содержит настройки для S3
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	BucketName string
}

type objectUploader interface {
	UploadWithContext(ctx context.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

type objectDeleter interface {
	DeleteObjectWithContext(ctx context.Context, input *s3.DeleteObjectInput, opts ...request.Option) (*s3.DeleteObjectOutput, error)
}

// Archiver загружает снимки станций и файлы в бакет
type Archiver struct {
	uploader objectUploader
	client   objectDeleter
	config   *Config
}

// Snapshot - состояние станции на момент резервного копирования
type Snapshot struct {
	StationID string
	Order     []string
	Songs     []string
	TakenAt   time.Time
}

// NewArchiver создает архиватор по настройкам S3
func NewArchiver(config *Config) (*Archiver, error) {
	if config.BucketName == "" {
		return nil, ErrNoBucket
	}

	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
	}

	// Для S3-совместимых хранилищ используем path-style адреса
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	return &Archiver{
		uploader: s3manager.NewUploader(sess),
		client:   s3.New(sess),
		config:   config,
	}, nil
}

// StationPrefix возвращает префикс ключей станции в бакете
func StationPrefix(stationID string) string {
	return path.Join("stations", stationID)
}

// OrderKey возвращает ключ снимка порядка воспроизведения
func OrderKey(stationID string) string {
	return path.Join(StationPrefix(stationID), "order.json")
}

// SongsKey возвращает ключ снимка списка песен
func SongsKey(stationID string) string {
	return path.Join(StationPrefix(stationID), "songs.json")
}

// UploadFile загружает содержимое reader по ключу и возвращает URL объекта
func (a *Archiver) UploadFile(ctx context.Context, reader io.Reader, key string) (string, error) {
	_, err := a.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(a.config.BucketName),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType(key)),
	})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки %s: %w", key, err)
	}

	return fmt.Sprintf("%s/%s/%s", a.config.Endpoint, a.config.BucketName, key), nil
}

// DeleteFile удаляет объект из бакета
func (a *Archiver) DeleteFile(ctx context.Context, key string) error {
	_, err := a.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("ошибка удаления %s из S3: %w", key, err)
	}
	return nil
}

// SaveSnapshot записывает order.json и songs.json станции и возвращает их URL
func (a *Archiver) SaveSnapshot(ctx context.Context, snapshot Snapshot) ([]string, error) {
	if snapshot.StationID == "" {
		return nil, errors.New("не указан ID станции")
	}

	objects := []struct {
		key   string
		items []string
	}{
		{OrderKey(snapshot.StationID), snapshot.Order},
		{SongsKey(snapshot.StationID), snapshot.Songs},
	}

	urls := make([]string, 0, len(objects))
	for _, obj := range objects {
		items := obj.items
		if items == nil {
			items = []string{}
		}
		body, err := json.Marshal(items)
		if err != nil {
			return urls, fmt.Errorf("ошибка сериализации %s: %w", obj.key, err)
		}

		url, err := a.UploadFile(ctx, bytes.NewReader(body), obj.key)
		if err != nil {
			return urls, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// DeleteSnapshot удаляет снимки станции из бакета
func (a *Archiver) DeleteSnapshot(ctx context.Context, stationID string) error {
	for _, key := range []string{OrderKey(stationID), SongsKey(stationID)} {
		if err := a.DeleteFile(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func contentType(key string) string {
	switch path.Ext(key) {
	case ".json":
		return "application/json"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}
