package usecases_port

import (
	"context"
	"rental-client/internal/core/domain"
)

type LoginUseCasePort interface {
	Execute(ctx context.Context, creds domain.Credentials) (*domain.User, error)
}

type RegisterUseCasePort interface {
	Execute(ctx context.Context, creds domain.Credentials) (*domain.User, error)
}

type LogoutUseCasePort interface {
	Execute(ctx context.Context)
}
