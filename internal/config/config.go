// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Значения по умолчанию
const (
	DefaultServerURL   = "http://localhost:8080"
	DefaultDownloadDir = "~/Downloads"
	DefaultLogFile     = "~/.radioctl.log"
)

// Переменные окружения, переопределяющие значения из файла
const (
	EnvServerURL = "RADIOCTL_SERVER"
	EnvToken     = "RADIOCTL_TOKEN"
)

// Config структура для хранения конфигурации приложения
type Config struct {
	ServerURL     string `yaml:"server_url"`
	Token         string `yaml:"token"`
	DownloadDir   string `yaml:"download_dir"`
	LogFile       string `yaml:"log_file"`
	AwsBucketName string `yaml:"aws_bucket_name"`
	AwsAccessKey  string `yaml:"aws_access_key"`
	AwsSecretKey  string `yaml:"aws_secret_key"`
	AwsRegion     string `yaml:"aws_region"`
	AwsEndpoint   string `yaml:"aws_endpoint"`
}

// HasArchive сообщает, настроено ли хранилище S3 для резервных копий
func (c *Config) HasArchive() bool {
	return c.AwsBucketName != ""
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Если файла нет, используются значения по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := strings.Replace(filePath, "~", home, 1)

	config := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	case os.IsNotExist(err):
		// Работаем без файла конфигурации
	default:
		return nil, err
	}

	// Переменные окружения имеют приоритет над файлом
	if v := os.Getenv(EnvServerURL); v != "" {
		config.ServerURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		config.Token = v
	}

	// Устанавливаем значения по умолчанию, если они не заданы
	if config.ServerURL == "" {
		config.ServerURL = DefaultServerURL
	}
	if config.DownloadDir == "" {
		config.DownloadDir = DefaultDownloadDir
	}
	if config.LogFile == "" {
		config.LogFile = DefaultLogFile
	}

	// Раскрываем тильду в путях
	config.DownloadDir = strings.Replace(config.DownloadDir, "~", home, 1)
	config.LogFile = strings.Replace(config.LogFile, "~", home, 1)

	return config, nil
}
