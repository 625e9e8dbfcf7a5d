package usecases_port

import (
	"context"
	"rental-client/internal/core/domain"
)

type GetProfileUseCasePort interface {
	Execute(ctx context.Context) (domain.Profile, error)
}

type UpdateProfileUseCasePort interface {
	Execute(ctx context.Context, update domain.ProfileUpdate) (domain.Profile, error)
}
