package port

import (
	"context"
	"rental-client/internal/core/domain"
)

type RecommendationsAPIPort interface {
	ListReceived(ctx context.Context) (domain.ReceivedRecommendations, error)
	Send(ctx context.Context, draft domain.RecommendationDraft) error
}
