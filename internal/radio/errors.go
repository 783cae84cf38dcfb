package radio

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound - станция, песня или страница не найдены
	ErrNotFound = errors.New("не найдено")
	// ErrBadRequest - сервер отклонил запрос (неверные данные, неподдерживаемый файл)
	ErrBadRequest = errors.New("некорректный запрос")
	// ErrUnauthorized - токен отсутствует или не принят сервером
	ErrUnauthorized = errors.New("ошибка авторизации")
	// ErrServer - внутренняя ошибка сервера
	ErrServer = errors.New("ошибка сервера")
	// ErrMissingToken - изменяющий запрос без токена
	ErrMissingToken = errors.New("токен авторизации не задан")
)

// StatusError описывает ответ сервера с неуспешным статусом
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
}

// Unwrap сопоставляет статус ответа с одной из ошибок пакета
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case e.StatusCode >= 500:
		return ErrServer
	case e.StatusCode >= 400:
		return ErrBadRequest
	default:
		return nil
	}
}
