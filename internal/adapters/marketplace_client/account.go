package marketplace_api_client

import (
	"context"
	"errors"
	"net/http"
	"rental-client/internal/core/domain"
	"rental-client/internal/core/port"
)

var errEmptyToken = errors.New("marketplace api returned no token")

// Login реализует порт AuthAPIPort.
func (c *MarketplaceAPIClient) Login(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	return c.authenticate(ctx, "Login", "/auth/login", creds)
}

func (c *MarketplaceAPIClient) Register(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	return c.authenticate(ctx, "Register", "/auth/register", creds)
}

func (c *MarketplaceAPIClient) authenticate(ctx context.Context, method, path string, creds domain.Credentials) (domain.AuthResult, error) {
	clientLogger := c.loggerFor(ctx, method, port.Fields{"email": creds.Email})

	var apiResponse authResponse
	req := credentialsRequest{Email: creds.Email, Password: creds.Password}
	if err := c.call(ctx, clientLogger, http.MethodPost, path, req, &apiResponse); err != nil {
		return domain.AuthResult{}, err
	}
	if apiResponse.Token == "" {
		clientLogger.Error("Auth response has no token", errEmptyToken, nil)
		return domain.AuthResult{}, errEmptyToken
	}

	return domain.AuthResult{Token: apiResponse.Token, User: apiResponse.Data.User.toDomain()}, nil
}

// GetProfile реализует порт ProfileAPIPort.
func (c *MarketplaceAPIClient) GetProfile(ctx context.Context) (domain.Profile, error) {
	clientLogger := c.loggerFor(ctx, "GetProfile", nil)

	var apiResponse profileEnvelope
	if err := c.call(ctx, clientLogger, http.MethodGet, "/users/me", nil, &apiResponse); err != nil {
		return domain.Profile{}, err
	}
	return apiResponse.toDomain(), nil
}

func (c *MarketplaceAPIClient) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.Profile, error) {
	clientLogger := c.loggerFor(ctx, "UpdateProfile", nil)

	req := profileUpdateRequest{FullName: update.FullName, Email: update.Email, Phone: update.Phone}
	var apiResponse profileEnvelope
	if err := c.call(ctx, clientLogger, http.MethodPut, "/users/me", req, &apiResponse); err != nil {
		return domain.Profile{}, err
	}
	return apiResponse.toDomain(), nil
}

// ListReceived реализует порт RecommendationsAPIPort.
func (c *MarketplaceAPIClient) ListReceived(ctx context.Context) (domain.ReceivedRecommendations, error) {
	clientLogger := c.loggerFor(ctx, "ListReceived", nil)

	var apiResponse receivedRecommendationsResponse
	if err := c.call(ctx, clientLogger, http.MethodGet, "/recommendations/received", nil, &apiResponse); err != nil {
		return domain.ReceivedRecommendations{}, err
	}
	return apiResponse.toDomain(), nil
}

func (c *MarketplaceAPIClient) Send(ctx context.Context, draft domain.RecommendationDraft) error {
	clientLogger := c.loggerFor(ctx, "Send", port.Fields{"listing_id": draft.ListingID})

	req := sendRecommendationRequest{
		RecipientEmail: draft.RecipientEmail,
		PropertyID:     draft.ListingID,
		Message:        draft.Message,
	}
	return c.call(ctx, clientLogger, http.MethodPost, "/recommendations", req, nil)
}
