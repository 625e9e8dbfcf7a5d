package rest

import (
	"net/http"
	"rental-client/internal/contextkeys"
	"rental-client/internal/contracts"
	"rental-client/internal/core/domain"
	"rental-client/internal/core/port"
	"rental-client/internal/core/port/usecases_port"
)

type RecommendationsHandler struct {
	getUC  usecases_port.GetReceivedRecommendationsUseCasePort
	sendUC usecases_port.SendRecommendationUseCasePort
}

func NewRecommendationsHandler(getUC usecases_port.GetReceivedRecommendationsUseCasePort, sendUC usecases_port.SendRecommendationUseCasePort) *RecommendationsHandler {
	return &RecommendationsHandler{getUC: getUC, sendUC: sendUC}
}

// GetReceived обрабатывает GET /api/recommendations
func (h *RecommendationsHandler) GetReceived(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetReceivedRecommendations"})

	received, err := h.getUC.Execute(r.Context())
	if err != nil {
		logger.Error("Get recommendations use case failed", err, nil)
		writeUseCaseError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toReceivedRecommendationsResponse(received))
}

// Send обрабатывает POST /api/recommendations
func (h *RecommendationsHandler) Send(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SendRecommendation"})

	var req RecommendationRequest
	if err := decodeValidated(r, contracts.RecommendationSchema, &req); err != nil {
		logger.Warn("Invalid recommendation request", port.Fields{"error": err.Error()})
		writeUseCaseError(w, err)
		return
	}

	err := h.sendUC.Execute(r.Context(), domain.RecommendationDraft{
		RecipientEmail: req.RecipientEmail,
		ListingID:      req.PropertyID,
		Message:        req.Message,
	})
	if err != nil {
		logger.Error("Send recommendation use case failed", err, nil)
		writeUseCaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}
