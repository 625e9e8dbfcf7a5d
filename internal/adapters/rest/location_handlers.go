package rest

import (
	"net/http"
	"rental-client/internal/core/domain"

	"github.com/go-chi/chi/v5"
)

// ListStates обрабатывает GET /api/locations/states
func ListStates(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, StatesResponse{
		States:    domain.States(),
		TopCities: domain.TopCities(),
	})
}

// ListCities обрабатывает GET /api/locations/states/{state}/cities
func ListCities(w http.ResponseWriter, r *http.Request) {
	state, ok := domain.NormalizeState(chi.URLParam(r, "state"))
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "Unknown state")
		return
	}
	RespondWithJSON(w, http.StatusOK, CitiesResponse{State: state, Cities: domain.CitiesOf(state)})
}
