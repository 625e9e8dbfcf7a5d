package rest

import (
	"encoding/json"
	"net/http"
	"rental-client/internal/adapters/view_dto"
	"rental-client/internal/contextkeys"
	"rental-client/internal/contracts"
	"rental-client/internal/core/port"
	"rental-client/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// ListingsHandler переводит HTTP-запросы представления в события экрана списка объявлений.
type ListingsHandler struct {
	browser usecases_port.ListingBrowserPort
}

func NewListingsHandler(browser usecases_port.ListingBrowserPort) *ListingsHandler {
	return &ListingsHandler{browser: browser}
}

// GetState обрабатывает GET /api/state
func (h *ListingsHandler) GetState(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, view_dto.ToViewStateDTO(h.browser.Snapshot()))
}

// UpdateFilters обрабатывает PATCH /api/filters
func (h *ListingsHandler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateFilters"})

	var req FilterPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode filter patch", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch, err := req.toDomain()
	if err != nil {
		logger.Warn("Invalid filter value", port.Fields{"error": err.Error()})
		writeUseCaseError(w, err)
		return
	}

	state := h.browser.UpdateFilters(r.Context(), patch)
	RespondWithJSON(w, http.StatusAccepted, view_dto.ToViewStateDTO(state))
}

// ClearFilters обрабатывает DELETE /api/filters
func (h *ListingsHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	state := h.browser.ClearFilters(r.Context())
	RespondWithJSON(w, http.StatusAccepted, view_dto.ToViewStateDTO(state))
}

// SetPage обрабатывает PUT /api/page
func (h *ListingsHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SetPage"})

	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode page request", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := h.browser.SetPage(r.Context(), req.Page)
	if err != nil {
		logger.Warn("Page change rejected", port.Fields{"page": req.Page, "error": err.Error()})
		writeUseCaseError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusAccepted, view_dto.ToViewStateDTO(state))
}

// Refresh обрабатывает POST /api/refresh
func (h *ListingsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	state := h.browser.Refresh(r.Context())
	RespondWithJSON(w, http.StatusAccepted, view_dto.ToViewStateDTO(state))
}

// CreateListing обрабатывает POST /api/listings
func (h *ListingsHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateListing"})

	var req ListingDraftRequest
	if err := decodeValidated(r, contracts.ListingDraftSchema, &req); err != nil {
		logger.Warn("Invalid listing draft", port.Fields{"error": err.Error()})
		writeUseCaseError(w, err)
		return
	}
	draft, err := req.toDomain()
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	created, err := h.browser.CreateListing(r.Context(), draft)
	if err != nil {
		logger.Error("Create listing failed", err, nil)
		writeUseCaseError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, view_dto.ToListingDTO(created))
}

// UpdateListing обрабатывает PUT /api/listings/{id}
func (h *ListingsHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":    "UpdateListing",
		"listing_id": listingID,
	})

	var req ListingDraftRequest
	if err := decodeValidated(r, contracts.ListingDraftSchema, &req); err != nil {
		logger.Warn("Invalid listing draft", port.Fields{"error": err.Error()})
		writeUseCaseError(w, err)
		return
	}
	draft, err := req.toDomain()
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	updated, err := h.browser.UpdateListing(r.Context(), listingID, draft)
	if err != nil {
		logger.Error("Update listing failed", err, nil)
		writeUseCaseError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, view_dto.ToListingDTO(updated))
}

// DeleteListing обрабатывает DELETE /api/listings/{id}
func (h *ListingsHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":    "DeleteListing",
		"listing_id": listingID,
	})

	if err := h.browser.DeleteListing(r.Context(), listingID); err != nil {
		logger.Error("Delete listing failed", err, nil)
		writeUseCaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleFavorite обрабатывает POST /api/listings/{id}/favorite
func (h *ListingsHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":    "ToggleFavorite",
		"listing_id": listingID,
	})

	isFavorite, err := h.browser.ToggleFavorite(r.Context(), listingID)
	if err != nil {
		logger.Warn("Toggle favorite failed", port.Fields{"error": err.Error()})
		writeUseCaseError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, ToggleFavoriteResponse{ListingID: listingID, IsFavorite: isFavorite})
}

// OpenCreateForm обрабатывает POST /api/forms/create
func (h *ListingsHandler) OpenCreateForm(w http.ResponseWriter, r *http.Request) {
	if err := h.browser.OpenCreateForm(r.Context()); err != nil {
		writeUseCaseError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, view_dto.ToViewStateDTO(h.browser.Snapshot()))
}

// OpenEditForm обрабатывает POST /api/forms/edit/{id}
func (h *ListingsHandler) OpenEditForm(w http.ResponseWriter, r *http.Request) {
	if err := h.browser.OpenEditForm(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, view_dto.ToViewStateDTO(h.browser.Snapshot()))
}

// CloseForm обрабатывает DELETE /api/forms
func (h *ListingsHandler) CloseForm(w http.ResponseWriter, r *http.Request) {
	h.browser.CloseForm(r.Context())
	RespondWithJSON(w, http.StatusOK, view_dto.ToViewStateDTO(h.browser.Snapshot()))
}
