package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"rental-client/internal/contracts"
	"rental-client/internal/core/domain"
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// statusForError сопоставляет ошибку ядра с HTTP-статусом ответа представлению.
func statusForError(err error) int {
	var apiErr *domain.APIError
	var validationErr *contracts.ValidationError

	switch {
	case errors.Is(err, domain.ErrAuthRequired),
		errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrListingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrFavoritePending):
		return http.StatusConflict
	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrInvalidListing),
		errors.Is(err, domain.ErrInvalidFilter),
		errors.Is(err, domain.ErrInvalidPage),
		errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeUseCaseError отвечает статусом по ошибке и сообщением, пригодным для пользователя.
func writeUseCaseError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := domain.UserMessage(err)
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	WriteJSONError(w, status, message)
}
