package port

import (
	"context"
	"rental-client/internal/core/domain"
)

type AuthAPIPort interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error)
	Register(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error)
}

// SessionPort - явная сессия пользователя вместо токена в глобальном хранилище.
// Срок действия проверяется при каждом обращении, истёкшая сессия завершается.
type SessionPort interface {
	// CurrentUser не делает сетевых запросов.
	CurrentUser() (*domain.User, bool)
	Token() (string, bool)
	Start(token string) (*domain.User, error)
	End()
}

// SessionListenerPort получает события начала и конца сессии.
type SessionListenerPort interface {
	OnSessionStarted(ctx context.Context)
	OnSessionEnded(ctx context.Context)
}
