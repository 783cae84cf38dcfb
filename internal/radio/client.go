// Package radio реализует HTTP клиент к серверу радиостанций
package radio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultUserAgent = "go-radioctl/1.0"
	maxErrorBody     = 512
)

// StationConfig - полная конфигурация станции при создании
type StationConfig struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// StationUpdate - частичное обновление станции, пустые поля не отправляются
type StationUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Client выполняет запросы к серверу радиостанций
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	logger     *log.Logger
	userAgent  string
}

// Option настраивает Client
type Option func(*Client)

// WithToken задает токен, который передается в заголовке Authorization без изменений
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient задает HTTP клиент
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger задает логгер для диагностических сообщений
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent задает заголовок User-Agent
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// NewClient создает клиента для сервера по адресу baseURL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("неверный адрес сервера: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("неверный адрес сервера: ожидается http или https, получено %q", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     log.New(io.Discard, "", 0),
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// HasToken сообщает, задан ли токен авторизации
func (c *Client) HasToken() bool {
	return c.token != ""
}

// Order возвращает текущий порядок воспроизведения станции
func (c *Client) Order(ctx context.Context, station string) ([]string, error) {
	var order []string
	if err := c.getJSON(ctx, stationPath(station, "order"), &order); err != nil {
		return nil, err
	}
	if order == nil {
		order = make([]string, 0)
	}
	return order, nil
}

// SetOrder сохраняет порядок воспроизведения станции
func (c *Client) SetOrder(ctx context.Context, station string, order []string) error {
	if order == nil {
		order = make([]string, 0)
	}
	return c.sendJSON(ctx, http.MethodPut, stationPath(station, "order"), order)
}

// Songs возвращает список песен станции
func (c *Client) Songs(ctx context.Context, station string) ([]string, error) {
	var songs []string
	if err := c.getJSON(ctx, stationPath(station, "songs"), &songs); err != nil {
		return nil, err
	}
	if songs == nil {
		songs = make([]string, 0)
	}
	return songs, nil
}

// UploadSong загружает файл песни как multipart поле "file"
func (c *Client) UploadSong(ctx context.Context, station, filename string, r io.Reader) error {
	if c.token == "" {
		return ErrMissingToken
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		part, err := form.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(form.Close())
	}()

	resp, err := c.do(ctx, http.MethodPut, stationPath(station, "songs", filename), pr, form.FormDataContentType(), true)
	if err != nil {
		pr.CloseWithError(err)
		return err
	}
	return drain(resp)
}

// DeleteSong удаляет песню станции
func (c *Client) DeleteSong(ctx context.Context, station, song string) error {
	resp, err := c.do(ctx, http.MethodDelete, stationPath(station, "songs", song), nil, "", true)
	if err != nil {
		return err
	}
	return drain(resp)
}

// UpdateStation изменяет название и описание станции
func (c *Client) UpdateStation(ctx context.Context, station string, update StationUpdate) error {
	return c.sendJSON(ctx, http.MethodPost, stationPath(station), update)
}

// AddStation создает новую станцию
func (c *Client) AddStation(ctx context.Context, station string, cfg StationConfig) error {
	return c.sendJSON(ctx, http.MethodPut, stationPath(station), cfg)
}

// RemoveStation удаляет станцию
func (c *Client) RemoveStation(ctx context.Context, station string) error {
	resp, err := c.do(ctx, http.MethodDelete, stationPath(station), nil, "", true)
	if err != nil {
		return err
	}
	return drain(resp)
}

// DeleteUser удаляет текущего пользователя
func (c *Client) DeleteUser(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, "/auth/user", nil, "", true)
	if err != nil {
		return err
	}
	return drain(resp)
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "", false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("ошибка разбора ответа %s: %w", path, err)
	}
	return nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	resp, err := c.do(ctx, method, path, bytes.NewReader(payload), "application/json", true)
	if err != nil {
		return err
	}
	return drain(resp)
}

// do выполняет запрос и возвращает ответ только при успешном статусе
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, auth bool) (*http.Response, error) {
	if auth && c.token == "" {
		return nil, ErrMissingToken
	}

	u := *c.baseURL
	u.RawPath = c.baseURL.EscapedPath() + path
	u.Path, _ = url.PathUnescape(u.RawPath)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth {
		req.Header.Set("Authorization", c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("%s %s [%s]: %v", method, path, requestID, err)
		return nil, fmt.Errorf("ошибка выполнения запроса %s %s: %w", method, path, err)
	}
	c.logger.Printf("%s %s [%s]: %d за %s", method, path, requestID, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}
	return resp, nil
}

// drain дочитывает и закрывает тело ответа
func drain(resp *http.Response) error {
	defer resp.Body.Close()
	_, err := io.Copy(io.Discard, resp.Body)
	return err
}

// stationPath строит путь /{station}/{segments...} с экранированием сегментов
func stationPath(station string, segments ...string) string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(url.PathEscape(station))
	for _, s := range segments {
		b.WriteString("/")
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
