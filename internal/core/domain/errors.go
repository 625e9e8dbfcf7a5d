package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Определяем переменные-ошибки, которые могут быть возвращены из Use Cases.
var (
	ErrAuthRequired    = errors.New("authentication required")
	ErrSessionExpired  = errors.New("session expired")
	ErrTokenInvalid    = errors.New("invalid jwt token")
	ErrNotOwner        = errors.New("only the listing owner can modify it")
	ErrFavoritePending = errors.New("favorite change is already in progress")
	ErrInvalidListing  = errors.New("invalid listing data")
	ErrListingNotFound = errors.New("listing not found")
	ErrInvalidFilter   = errors.New("invalid filter value")
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidEmail    = errors.New("invalid email address")
)

// APIError - ошибка, которую вернул бэкенд маркетплейса.
// Message пригоден для показа пользователю.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("marketplace api error (status %d): %s", e.StatusCode, e.Message)
}

// Is позволяет сравнивать 401 от бэкенда с ErrAuthRequired через errors.Is.
func (e *APIError) Is(target error) bool {
	return target == ErrAuthRequired && e.StatusCode == http.StatusUnauthorized
}

// UserMessage извлекает из ошибки текст для уведомления пользователя.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
