package radio

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "header.payload.signature"

// recordedRequest запоминает запрос, полученный фейковым сервером
type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	RequestID     string
	Body          string
}

// fakeBackend имитирует сервер радиостанций в памяти
type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest

	stateMu  sync.Mutex
	stations map[string]*fakeStation
	uploads  map[string][]byte
}

type fakeStation struct {
	config StationConfig
	songs  []string
	order  []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		stations: map[string]*fakeStation{
			"test": {
				config: StationConfig{Title: "Test", Description: "This is a test station"},
				songs:  []string{"a.mp3", "b.mp3"},
				order:  []string{"b.mp3", "a.mp3"},
			},
		},
		uploads: make(map[string][]byte),
	}
}

func (f *fakeBackend) record(c echo.Context, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := c.Request()
	f.requests = append(f.requests, recordedRequest{
		Method:        r.Method,
		Path:          r.URL.EscapedPath(),
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		RequestID:     r.Header.Get("X-Request-ID"),
		Body:          body,
	})
}

func (f *fakeBackend) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeBackend) station(c echo.Context) (*fakeStation, error) {
	st, ok := f.stations[c.Param("radio")]
	if !ok {
		return nil, c.String(http.StatusNotFound, "Couldn't find Page")
	}
	return st, nil
}

func (f *fakeBackend) authorized(c echo.Context) bool {
	return c.Request().Header.Get("Authorization") == testToken
}

func (f *fakeBackend) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			f.stateMu.Lock()
			defer f.stateMu.Unlock()
			return next(c)
		}
	})

	e.GET("/:radio/order", func(c echo.Context) error {
		f.record(c, "")
		st, err := f.station(c)
		if st == nil {
			return err
		}
		return c.JSON(http.StatusOK, st.order)
	})

	e.PUT("/:radio/order", func(c echo.Context) error {
		body, _ := io.ReadAll(c.Request().Body)
		f.record(c, string(body))
		if !f.authorized(c) {
			return c.String(http.StatusBadRequest, "Authentication error")
		}
		st, err := f.station(c)
		if st == nil {
			return err
		}
		var order []string
		if err := json.Unmarshal(body, &order); err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		st.order = order
		return c.String(http.StatusOK, "Update song order")
	})

	e.GET("/:radio/songs", func(c echo.Context) error {
		f.record(c, "")
		st, err := f.station(c)
		if st == nil {
			return err
		}
		return c.JSON(http.StatusOK, st.songs)
	})

	e.PUT("/:radio/songs/:song", func(c echo.Context) error {
		f.record(c, "")
		if !f.authorized(c) {
			return c.String(http.StatusBadRequest, "Authentication error")
		}
		st, err := f.station(c)
		if st == nil {
			return err
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return c.String(http.StatusBadRequest, "Error handling multipart data")
		}
		src, err := fh.Open()
		if err != nil {
			return err
		}
		defer src.Close()
		data, _ := io.ReadAll(src)

		f.uploads[fh.Filename] = data
		st.songs = append(st.songs, c.Param("song"))
		return c.String(http.StatusOK, "uploaded")
	})

	e.DELETE("/:radio/songs/:song", func(c echo.Context) error {
		f.record(c, "")
		if !f.authorized(c) {
			return c.String(http.StatusBadRequest, "Authentication error")
		}
		st, err := f.station(c)
		if st == nil {
			return err
		}
		song := c.Param("song")
		for i, s := range st.songs {
			if s == song {
				st.songs = append(st.songs[:i], st.songs[i+1:]...)
				return c.String(http.StatusOK, "removed")
			}
		}
		return c.String(http.StatusNotFound, "Couldn't find Page")
	})

	e.POST("/:radio", func(c echo.Context) error {
		body, _ := io.ReadAll(c.Request().Body)
		f.record(c, string(body))
		st, err := f.station(c)
		if st == nil {
			return err
		}
		var upd StationUpdate
		if err := json.Unmarshal(body, &upd); err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		if upd.Title != nil {
			st.config.Title = *upd.Title
		}
		if upd.Description != nil {
			st.config.Description = *upd.Description
		}
		return c.String(http.StatusOK, "Edited")
	})

	e.PUT("/:radio", func(c echo.Context) error {
		body, _ := io.ReadAll(c.Request().Body)
		f.record(c, string(body))
		id := c.Param("radio")
		if _, ok := f.stations[id]; ok {
			return c.String(http.StatusNotFound, "Couldn't find Page")
		}
		var cfg StationConfig
		if err := json.Unmarshal(body, &cfg); err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		f.stations[id] = &fakeStation{config: cfg}
		return c.String(http.StatusCreated, "Radio added with ID: "+id)
	})

	e.DELETE("/:radio", func(c echo.Context) error {
		f.record(c, "")
		st, err := f.station(c)
		if st == nil {
			return err
		}
		delete(f.stations, c.Param("radio"))
		return c.String(http.StatusOK, "removed")
	})

	e.DELETE("/auth/user", func(c echo.Context) error {
		f.record(c, "")
		if !f.authorized(c) {
			return c.String(http.StatusUnauthorized, "Authentication error")
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
	})

	e.GET("/broken/order", func(c echo.Context) error {
		f.record(c, "")
		return c.String(http.StatusOK, "{not json")
	})

	e.GET("/crash/order", func(c echo.Context) error {
		f.record(c, "")
		return c.String(http.StatusInternalServerError, "Internal server error")
	})

	return e
}

// config возвращает конфигурацию станции или nil
func (f *fakeBackend) config(id string) *StationConfig {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	st, ok := f.stations[id]
	if !ok {
		return nil
	}
	cfg := st.config
	return &cfg
}

func (f *fakeBackend) upload(name string) []byte {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	return f.uploads[name]
}

func newTestClient(t *testing.T, token string) (*Client, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	server := httptest.NewServer(backend.router())
	t.Cleanup(server.Close)

	var opts []Option
	if token != "" {
		opts = append(opts, WithToken(token))
	}
	client, err := NewClient(server.URL+"/", opts...)
	require.NoError(t, err)
	return client, backend
}

func TestNewClientRejectsInvalidURL(t *testing.T) {
	_, err := NewClient("ftp://example.com")
	assert.Error(t, err)

	_, err = NewClient("://bad")
	assert.Error(t, err)
}

func TestOrder(t *testing.T) {
	client, backend := newTestClient(t, "")

	order, err := client.Order(context.Background(), "test")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.mp3", "a.mp3"}, order)

	reqs := backend.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "/test/order", reqs[0].Path)
	assert.Empty(t, reqs[0].Authorization)
	assert.NotEmpty(t, reqs[0].RequestID)
}

func TestSetOrderIssuesSinglePut(t *testing.T) {
	client, backend := newTestClient(t, testToken)

	err := client.SetOrder(context.Background(), "test", []string{"x", "y"})
	require.NoError(t, err)

	reqs := backend.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/test/order", reqs[0].Path)
	assert.JSONEq(t, `["x","y"]`, reqs[0].Body)
	assert.Equal(t, testToken, reqs[0].Authorization)
	assert.Equal(t, "application/json", reqs[0].ContentType)
}

func TestSetOrderEmptySendsArray(t *testing.T) {
	client, backend := newTestClient(t, testToken)

	require.NoError(t, client.SetOrder(context.Background(), "test", nil))

	reqs := backend.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "[]", reqs[0].Body)
}

func TestMutatingRequestWithoutToken(t *testing.T) {
	client, backend := newTestClient(t, "")
	ctx := context.Background()

	assert.ErrorIs(t, client.SetOrder(ctx, "test", []string{"a"}), ErrMissingToken)
	assert.ErrorIs(t, client.DeleteSong(ctx, "test", "a.mp3"), ErrMissingToken)
	assert.ErrorIs(t, client.UploadSong(ctx, "test", "c.mp3", strings.NewReader("data")), ErrMissingToken)
	assert.ErrorIs(t, client.DeleteUser(ctx), ErrMissingToken)
	assert.False(t, client.HasToken())

	assert.Empty(t, backend.recorded())
}

func TestSongsAndDelete(t *testing.T) {
	client, _ := newTestClient(t, testToken)
	ctx := context.Background()

	songs, err := client.Songs(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3", "b.mp3"}, songs)

	require.NoError(t, client.DeleteSong(ctx, "test", "a.mp3"))

	songs, err = client.Songs(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.mp3"}, songs)

	err = client.DeleteSong(ctx, "test", "missing.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadSong(t *testing.T) {
	client, backend := newTestClient(t, testToken)

	err := client.UploadSong(context.Background(), "test", "new song.mp3", strings.NewReader("ID3 audio"))
	require.NoError(t, err)

	reqs := backend.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/test/songs/new%20song.mp3", reqs[0].Path)
	assert.True(t, strings.HasPrefix(reqs[0].ContentType, "multipart/form-data"))
	assert.Equal(t, []byte("ID3 audio"), backend.upload("new song.mp3"))
}

func TestUpdateStationSendsOnlySetFields(t *testing.T) {
	client, backend := newTestClient(t, testToken)

	title := "New title"
	err := client.UpdateStation(context.Background(), "test", StationUpdate{Title: &title})
	require.NoError(t, err)

	reqs := backend.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/test", reqs[0].Path)
	assert.JSONEq(t, `{"title":"New title"}`, reqs[0].Body)
	cfg := backend.config("test")
	require.NotNil(t, cfg)
	assert.Equal(t, "New title", cfg.Title)
	assert.Equal(t, "This is a test station", cfg.Description)
}

func TestAddAndRemoveStation(t *testing.T) {
	client, backend := newTestClient(t, testToken)
	ctx := context.Background()

	err := client.AddStation(ctx, "jazz", StationConfig{Title: "Jazz", Description: "Smooth"})
	require.NoError(t, err)
	cfg := backend.config("jazz")
	require.NotNil(t, cfg)
	assert.Equal(t, "Jazz", cfg.Title)

	reqs := backend.recorded()
	assert.JSONEq(t, `{"title":"Jazz","description":"Smooth"}`, reqs[0].Body)

	err = client.AddStation(ctx, "jazz", StationConfig{Title: "Again"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, client.RemoveStation(ctx, "jazz"))
	assert.Nil(t, backend.config("jazz"))

	assert.ErrorIs(t, client.RemoveStation(ctx, "jazz"), ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	client, backend := newTestClient(t, testToken)

	require.NoError(t, client.DeleteUser(context.Background()))

	reqs := backend.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodDelete, reqs[0].Method)
	assert.Equal(t, "/auth/user", reqs[0].Path)
	assert.Equal(t, testToken, reqs[0].Authorization)
}

func TestRejectedTokenMapsToError(t *testing.T) {
	client, _ := newTestClient(t, "wrong-token")

	err := client.DeleteUser(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = client.SetOrder(context.Background(), "test", []string{"a"})
	assert.ErrorIs(t, err, ErrBadRequest)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "Authentication error", statusErr.Body)
}

func TestErrorResponses(t *testing.T) {
	client, _ := newTestClient(t, "")
	ctx := context.Background()

	_, err := client.Order(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.Order(ctx, "crash")
	assert.ErrorIs(t, err, ErrServer)

	_, err = client.Order(ctx, "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка разбора ответа")
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{Method: "PUT", Path: "/x/order", StatusCode: 400, Body: "bad"}
	assert.Equal(t, "PUT /x/order: HTTP 400: bad", err.Error())

	err = &StatusError{Method: "GET", Path: "/x/order", StatusCode: 302}
	assert.Equal(t, "GET /x/order: HTTP 302", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestStationPathEscapes(t *testing.T) {
	assert.Equal(t, "/my%20radio/songs/a%2Fb.mp3", stationPath("my radio", "songs", "a/b.mp3"))
	assert.Equal(t, "/test", stationPath("test"))
}
