package rest

import (
	"net/http"
	"rental-client/internal/contextkeys"
	"rental-client/internal/core/port"
	"rental-client/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// FavoritesHandler обслуживает страницу избранного.
type FavoritesHandler struct {
	getUC    usecases_port.GetFavoritesUseCasePort
	removeUC usecases_port.RemoveFavoriteUseCasePort
}

func NewFavoritesHandler(getUC usecases_port.GetFavoritesUseCasePort, removeUC usecases_port.RemoveFavoriteUseCasePort) *FavoritesHandler {
	return &FavoritesHandler{getUC: getUC, removeUC: removeUC}
}

// GetFavorites обрабатывает GET /api/favorites
func (h *FavoritesHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetFavorites"})

	favorites, err := h.getUC.Execute(r.Context())
	if err != nil {
		logger.Error("Get favorites use case failed", err, nil)
		writeUseCaseError(w, err)
		return
	}

	logger.Info("Successfully retrieved favorites", port.Fields{"count": len(favorites)})
	RespondWithJSON(w, http.StatusOK, toFavoriteResponses(favorites))
}

// RemoveFavorite обрабатывает DELETE /api/favorites/{favoriteID}
func (h *FavoritesHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	favoriteID := chi.URLParam(r, "favoriteID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":     "RemoveFavorite",
		"favorite_id": favoriteID,
	})

	if err := h.removeUC.Execute(r.Context(), favoriteID); err != nil {
		logger.Error("Remove favorite use case failed", err, nil)
		writeUseCaseError(w, err)
		return
	}

	logger.Info("Successfully removed favorite", nil)
	w.WriteHeader(http.StatusNoContent)
}
