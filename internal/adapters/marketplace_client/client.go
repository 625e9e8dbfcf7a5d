package marketplace_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"rental-client/internal/contextkeys"
	"rental-client/internal/core/domain"
	"rental-client/internal/core/port"
	"strings"
	"time"
)

// tokenSource - часть SessionPort, которая нужна клиенту.
type tokenSource interface {
	Token() (string, bool)
	End()
}

// MarketplaceAPIClient - клиент REST API маркетплейса (объявления, избранное, аккаунт, рекомендации).
type MarketplaceAPIClient struct {
	baseURL    string // Например, "http://localhost:3000/api"
	httpClient *http.Client
	session    tokenSource
}

// NewMarketplaceAPIClient - конструктор. session может быть nil, тогда запросы идут без токена.
func NewMarketplaceAPIClient(baseURL string, timeout time.Duration, session tokenSource) *MarketplaceAPIClient {
	return &MarketplaceAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    session,
	}
}

// doRequest - внутренний хелпер для выполнения запросов
func (c *MarketplaceAPIClient) doRequest(ctx context.Context, method, path string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(contextkeys.TraceHeader, contextkeys.TraceID(ctx))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.session != nil {
		if token, ok := c.session.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to marketplace api failed: %w", err)
	}
	return resp, nil
}

// call выполняет запрос, проверяет статус и декодирует тело ответа в out (если out != nil).
func (c *MarketplaceAPIClient) call(ctx context.Context, logger port.LoggerPort, method, path string, payload, out interface{}) error {
	ctx, traceID, created := contextkeys.EnsureTraceID(ctx)
	if created {
		logger = logger.WithFields(port.Fields{"trace_id": traceID})
	}

	resp, err := c.doRequest(ctx, method, path, payload)
	if err != nil {
		logger.Error("Failed to perform request to marketplace api", err, port.Fields{"path": path})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := c.errorFromResponse(resp)
		logger.Error("Received non-OK response from marketplace api", apiErr, port.Fields{
			"status_code": resp.StatusCode,
			"path":        path,
		})
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		logger.Error("Failed to decode response from marketplace api", err, port.Fields{"path": path})
		return fmt.Errorf("failed to decode marketplace api response: %w", err)
	}
	return nil
}

// errorFromResponse превращает ответ с ошибкой в *domain.APIError.
// 401 означает, что бэкенд больше не принимает токен, и сессия завершается.
func (c *MarketplaceAPIClient) errorFromResponse(resp *http.Response) *domain.APIError {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body errorResponse
	message := ""
	if err := json.Unmarshal(bodyBytes, &body); err == nil {
		message = body.text()
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized && c.session != nil {
		c.session.End()
	}
	return &domain.APIError{StatusCode: resp.StatusCode, Message: message}
}

func (c *MarketplaceAPIClient) loggerFor(ctx context.Context, method string, fields port.Fields) port.LoggerPort {
	l := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "MarketplaceAPIClient",
		"method":    method,
	})
	if len(fields) > 0 {
		l = l.WithFields(fields)
	}
	return l
}
