package marketplace_api_client

import (
	"context"
	"net/http"
	"net/url"
	"rental-client/internal/core/domain"
	"rental-client/internal/core/port"
)

// ListFavorites реализует порт FavoritesAPIPort.
func (c *MarketplaceAPIClient) ListFavorites(ctx context.Context) ([]domain.Favorite, error) {
	clientLogger := c.loggerFor(ctx, "ListFavorites", nil)

	var apiResponse []favoriteDTO
	if err := c.call(ctx, clientLogger, http.MethodGet, "/favorites", nil, &apiResponse); err != nil {
		return nil, err
	}

	favorites := make([]domain.Favorite, 0, len(apiResponse))
	for _, f := range apiResponse {
		fav := f.toDomain()
		if fav.ListingID == "" {
			clientLogger.Warn("Favorite without property skipped", port.Fields{"favorite_id": fav.ID})
			continue
		}
		favorites = append(favorites, fav)
	}
	return favorites, nil
}

func (c *MarketplaceAPIClient) AddFavorite(ctx context.Context, listingID string) (domain.Favorite, error) {
	clientLogger := c.loggerFor(ctx, "AddFavorite", port.Fields{"listing_id": listingID})

	var apiResponse favoriteEnvelope
	if err := c.call(ctx, clientLogger, http.MethodPost, "/favorites", addFavoriteRequest{PropertyID: trimID(listingID)}, &apiResponse); err != nil {
		return domain.Favorite{}, err
	}

	fav := apiResponse.toDomain()
	if fav.ListingID == "" {
		fav.ListingID = listingID
	}
	if fav.ID == "" {
		clientLogger.Warn("Favorite created without id in response", nil)
	}
	return fav, nil
}

func (c *MarketplaceAPIClient) RemoveFavorite(ctx context.Context, favoriteID string) error {
	clientLogger := c.loggerFor(ctx, "RemoveFavorite", port.Fields{"favorite_id": favoriteID})
	return c.call(ctx, clientLogger, http.MethodDelete, "/favorites/"+url.PathEscape(trimID(favoriteID)), nil, nil)
}
