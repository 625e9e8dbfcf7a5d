package marketplace_api_client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"rental-client/internal/core/domain"
	"rental-client/internal/core/port"
	"strings"
)

// ListListings реализует порт ListingAPIPort.
func (c *MarketplaceAPIClient) ListListings(ctx context.Context, query domain.Query) (domain.ListingPage, error) {
	encoded := query.Encode()
	clientLogger := c.loggerFor(ctx, "ListListings", port.Fields{"query": encoded})

	path := "/properties"
	if encoded != "" {
		path += "?" + encoded
	}

	var apiResponse propertyListResponse
	if err := c.call(ctx, clientLogger, http.MethodGet, path, nil, &apiResponse); err != nil {
		return domain.ListingPage{}, err
	}

	page := domain.ListingPage{
		Items:      make([]domain.Listing, 0, len(apiResponse.Data)),
		TotalCount: apiResponse.Total,
		Page:       apiResponse.Page,
		TotalPages: apiResponse.Pages,
	}
	for _, p := range apiResponse.Data {
		page.Items = append(page.Items, p.toDomain())
	}

	clientLogger.Debug("Listings fetched", port.Fields{"count": len(page.Items), "total": page.TotalCount})
	return page, nil
}

func (c *MarketplaceAPIClient) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	clientLogger := c.loggerFor(ctx, "GetListing", port.Fields{"listing_id": id})

	var apiResponse propertyEnvelope
	if err := c.call(ctx, clientLogger, http.MethodGet, "/properties/"+url.PathEscape(id), nil, &apiResponse); err != nil {
		if isNotFound(err) {
			return domain.Listing{}, fmt.Errorf("%w: %s", domain.ErrListingNotFound, id)
		}
		return domain.Listing{}, err
	}
	return apiResponse.toDomain(), nil
}

func (c *MarketplaceAPIClient) CreateListing(ctx context.Context, draft domain.ListingDraft) (domain.Listing, error) {
	clientLogger := c.loggerFor(ctx, "CreateListing", nil)

	var apiResponse propertyEnvelope
	if err := c.call(ctx, clientLogger, http.MethodPost, "/properties/create", toPropertyRequest(draft), &apiResponse); err != nil {
		return domain.Listing{}, err
	}

	created := apiResponse.toDomain()
	clientLogger.Info("Listing created", port.Fields{"listing_id": created.ID})
	return created, nil
}

func (c *MarketplaceAPIClient) UpdateListing(ctx context.Context, id string, draft domain.ListingDraft) (domain.Listing, error) {
	clientLogger := c.loggerFor(ctx, "UpdateListing", port.Fields{"listing_id": id})

	var apiResponse propertyEnvelope
	if err := c.call(ctx, clientLogger, http.MethodPut, "/properties/"+url.PathEscape(id), toPropertyRequest(draft), &apiResponse); err != nil {
		return domain.Listing{}, err
	}

	updated := apiResponse.toDomain()
	if updated.ID == "" {
		updated.ID = id
	}
	return updated, nil
}

func (c *MarketplaceAPIClient) DeleteListing(ctx context.Context, id string) error {
	clientLogger := c.loggerFor(ctx, "DeleteListing", port.Fields{"listing_id": id})
	return c.call(ctx, clientLogger, http.MethodDelete, "/properties/"+url.PathEscape(id), nil, nil)
}

func isNotFound(err error) bool {
	var apiErr *domain.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// trimID нужен для ID из путей, которые пришли из представления.
func trimID(id string) string {
	return strings.TrimSpace(id)
}
