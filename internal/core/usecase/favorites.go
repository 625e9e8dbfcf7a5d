package usecase

import (
	"context"
	"rental-client/internal/contextkeys"
	"rental-client/internal/core/domain"
	"rental-client/internal/core/port"
)

// GetFavoritesUseCase возвращает избранное пользователя вместе с объявлениями.
type GetFavoritesUseCase struct {
	favorites port.FavoritesAPIPort
	session   port.SessionPort
}

func NewGetFavoritesUseCase(favorites port.FavoritesAPIPort, session port.SessionPort) *GetFavoritesUseCase {
	return &GetFavoritesUseCase{favorites: favorites, session: session}
}

func (uc *GetFavoritesUseCase) Execute(ctx context.Context) ([]domain.Favorite, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "GetFavorites"})
	ucLogger.Info("Use case started", nil)

	if _, ok := uc.session.CurrentUser(); !ok {
		ucLogger.Warn("Rejected: no active session", nil)
		return nil, domain.ErrAuthRequired
	}

	favorites, err := uc.favorites.ListFavorites(ctx)
	if err != nil {
		ucLogger.Error("Favorites API returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"favorites_count": len(favorites)})
	return favorites, nil
}

// RemoveFavoriteUseCase удаляет запись избранного по её ID и синхронизирует экран списка.
type RemoveFavoriteUseCase struct {
	favorites port.FavoritesAPIPort
	session   port.SessionPort
	tracker   port.FavoriteTrackerPort
}

func NewRemoveFavoriteUseCase(favorites port.FavoritesAPIPort, session port.SessionPort, tracker port.FavoriteTrackerPort) *RemoveFavoriteUseCase {
	return &RemoveFavoriteUseCase{favorites: favorites, session: session, tracker: tracker}
}

func (uc *RemoveFavoriteUseCase) Execute(ctx context.Context, favoriteID string) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "RemoveFavorite",
		"favorite_id": favoriteID,
	})
	ucLogger.Info("Use case started", nil)

	if _, ok := uc.session.CurrentUser(); !ok {
		ucLogger.Warn("Rejected: no active session", nil)
		return domain.ErrAuthRequired
	}

	if err := uc.favorites.RemoveFavorite(ctx, favoriteID); err != nil {
		ucLogger.Error("Favorites API returned an error", err, nil)
		return err
	}
	uc.tracker.ForgetFavorite(ctx, favoriteID)

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
