package port

import (
	"context"
	"rental-client/internal/core/domain"
)

// FavoritesAPIPort - внешний сервис избранного текущего пользователя.
type FavoritesAPIPort interface {
	ListFavorites(ctx context.Context) ([]domain.Favorite, error)
	AddFavorite(ctx context.Context, listingID string) (domain.Favorite, error)
	RemoveFavorite(ctx context.Context, favoriteID string) error
}

// FavoriteTrackerPort позволяет сценариям вне списка объявлений
// синхронизировать локальное множество избранного.
type FavoriteTrackerPort interface {
	ForgetFavorite(ctx context.Context, favoriteID string)
}
