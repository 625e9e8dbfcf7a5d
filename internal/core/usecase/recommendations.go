package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"rental-client/internal/contextkeys"
	"rental-client/internal/core/domain"
	"rental-client/internal/core/port"
	"strings"
)

// unknownSenderSeed - seed аватара, когда у отправителя нет идентификатора.
const unknownSenderSeed = "unknown"

// GetReceivedRecommendationsUseCase возвращает входящие рекомендации с аватарами отправителей.
type GetReceivedRecommendationsUseCase struct {
	recommendations port.RecommendationsAPIPort
	session         port.SessionPort
}

func NewGetReceivedRecommendationsUseCase(recommendations port.RecommendationsAPIPort, session port.SessionPort) *GetReceivedRecommendationsUseCase {
	return &GetReceivedRecommendationsUseCase{recommendations: recommendations, session: session}
}

func (uc *GetReceivedRecommendationsUseCase) Execute(ctx context.Context) (domain.ReceivedRecommendations, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "GetReceivedRecommendations"})
	ucLogger.Info("Use case started", nil)

	if _, ok := uc.session.CurrentUser(); !ok {
		ucLogger.Warn("Rejected: no active session", nil)
		return domain.ReceivedRecommendations{}, domain.ErrAuthRequired
	}

	received, err := uc.recommendations.ListReceived(ctx)
	if err != nil {
		ucLogger.Error("Recommendations API returned an error", err, nil)
		return domain.ReceivedRecommendations{}, err
	}

	for i := range received.Items {
		seed := received.Items[i].Sender.ID
		if seed == "" {
			seed = unknownSenderSeed
		}
		received.Items[i].Sender.Avatar = domain.AvatarFor(seed)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"recommendations": len(received.Items),
		"deleted_count":   received.DeletedListingsCount,
	})
	return received, nil
}

// SendRecommendationUseCase советует объявление другому пользователю по email.
type SendRecommendationUseCase struct {
	recommendations port.RecommendationsAPIPort
	session         port.SessionPort
}

func NewSendRecommendationUseCase(recommendations port.RecommendationsAPIPort, session port.SessionPort) *SendRecommendationUseCase {
	return &SendRecommendationUseCase{recommendations: recommendations, session: session}
}

func (uc *SendRecommendationUseCase) Execute(ctx context.Context, draft domain.RecommendationDraft) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "SendRecommendation",
		"listing_id": draft.ListingID,
	})
	ucLogger.Info("Use case started", nil)

	user, ok := uc.session.CurrentUser()
	if !ok {
		ucLogger.Warn("Rejected: no active session", nil)
		return domain.ErrAuthRequired
	}

	draft.RecipientEmail = strings.TrimSpace(draft.RecipientEmail)
	if _, err := mail.ParseAddress(draft.RecipientEmail); err != nil {
		ucLogger.Warn("Invalid recipient email", port.Fields{"recipient": draft.RecipientEmail})
		return fmt.Errorf("%w: %s", domain.ErrInvalidEmail, draft.RecipientEmail)
	}
	if strings.EqualFold(draft.RecipientEmail, user.Email) {
		return fmt.Errorf("%w: cannot recommend a property to yourself", domain.ErrInvalidEmail)
	}
	if draft.ListingID == "" {
		return domain.ErrListingNotFound
	}

	if err := uc.recommendations.Send(ctx, draft); err != nil {
		ucLogger.Error("Recommendations API returned an error", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
