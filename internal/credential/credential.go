// Package credential позволяет посмотреть содержимое токена авторизации.
// Токен не проверяется и не изменяется: на сервер он уходит как есть.
package credential

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ErrEmptyToken возвращается для пустого токена
var ErrEmptyToken = errors.New("токен не задан")

// Info содержит сведения, извлеченные из токена
type Info struct {
	Subject   string
	ExpiresAt time.Time
	HasExpiry bool
}

// Expired сообщает, истек ли срок действия токена на момент now
func (i Info) Expired(now time.Time) bool {
	return i.HasExpiry && !now.Before(i.ExpiresAt)
}

// Inspect разбирает токен без проверки подписи
func Inspect(token string) (*Info, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrEmptyToken
	}

	claims := jwt.MapClaims{}
	parser := &jwt.Parser{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("ошибка разбора токена: %w", err)
	}

	info := &Info{}
	if sub, ok := claims["sub"].(string); ok {
		info.Subject = sub
	} else if userID, ok := claims["user_id"].(string); ok {
		info.Subject = userID
	}

	switch exp := claims["exp"].(type) {
	case float64:
		info.ExpiresAt = time.Unix(int64(exp), 0)
		info.HasExpiry = true
	case int64:
		info.ExpiresAt = time.Unix(exp, 0)
		info.HasExpiry = true
	}

	return info, nil
}

// Mask скрывает большую часть токена для вывода в лог
func Mask(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", 4) + token[len(token)-4:]
}
