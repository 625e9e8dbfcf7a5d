package usecases_port

import (
	"context"
	"rental-client/internal/core/domain"
)

type GetFavoritesUseCasePort interface {
	Execute(ctx context.Context) ([]domain.Favorite, error)
}

type RemoveFavoriteUseCasePort interface {
	Execute(ctx context.Context, favoriteID string) error
}
