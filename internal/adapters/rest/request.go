package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"rental-client/internal/contracts"
)

const maxBodyBytes = 1 << 20

// decodeValidated читает тело запроса, проверяет его по JSON-схеме и декодирует в dst.
func decodeValidated(r *http.Request, schemaKey string, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if err := contracts.Validate(schemaKey, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &contracts.ValidationError{Schema: schemaKey, Cause: err}
	}
	return nil
}
