package usecases_port

import (
	"context"
	"rental-client/internal/core/domain"
)

type GetReceivedRecommendationsUseCasePort interface {
	Execute(ctx context.Context) (domain.ReceivedRecommendations, error)
}

type SendRecommendationUseCasePort interface {
	Execute(ctx context.Context, draft domain.RecommendationDraft) error
}
