package port

import (
	"context"
	"rental-client/internal/core/domain"
)

type ProfileAPIPort interface {
	GetProfile(ctx context.Context) (domain.Profile, error)
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.Profile, error)
}
