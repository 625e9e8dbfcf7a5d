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

// LoginUseCase выполняет вход и открывает сессию.
type LoginUseCase struct {
	auth     port.AuthAPIPort
	session  port.SessionPort
	listener port.SessionListenerPort
}

func NewLoginUseCase(auth port.AuthAPIPort, session port.SessionPort, listener port.SessionListenerPort) *LoginUseCase {
	return &LoginUseCase{auth: auth, session: session, listener: listener}
}

func (uc *LoginUseCase) Execute(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "Login",
		"email":    creds.Email,
	})
	ucLogger.Info("Use case started", nil)

	creds, err := normalizeCredentials(creds)
	if err != nil {
		ucLogger.Warn("Invalid credentials format", port.Fields{"error": err.Error()})
		return nil, err
	}

	result, err := uc.auth.Login(ctx, creds)
	if err != nil {
		ucLogger.Error("Auth API returned an error", err, nil)
		return nil, err
	}

	user, err := startSession(ctx, uc.session, uc.listener, result)
	if err != nil {
		ucLogger.Error("Failed to start session", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"user_id": user.ID})
	return user, nil
}

// RegisterUseCase регистрирует пользователя и сразу открывает сессию.
type RegisterUseCase struct {
	auth     port.AuthAPIPort
	session  port.SessionPort
	listener port.SessionListenerPort
}

func NewRegisterUseCase(auth port.AuthAPIPort, session port.SessionPort, listener port.SessionListenerPort) *RegisterUseCase {
	return &RegisterUseCase{auth: auth, session: session, listener: listener}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "Register",
		"email":    creds.Email,
	})
	ucLogger.Info("Use case started", nil)

	creds, err := normalizeCredentials(creds)
	if err != nil {
		ucLogger.Warn("Invalid credentials format", port.Fields{"error": err.Error()})
		return nil, err
	}

	result, err := uc.auth.Register(ctx, creds)
	if err != nil {
		ucLogger.Error("Auth API returned an error", err, nil)
		return nil, err
	}

	user, err := startSession(ctx, uc.session, uc.listener, result)
	if err != nil {
		ucLogger.Error("Failed to start session", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"user_id": user.ID})
	return user, nil
}

// LogoutUseCase завершает сессию и очищает пользовательские данные экрана.
type LogoutUseCase struct {
	session  port.SessionPort
	listener port.SessionListenerPort
}

func NewLogoutUseCase(session port.SessionPort, listener port.SessionListenerPort) *LogoutUseCase {
	return &LogoutUseCase{session: session, listener: listener}
}

func (uc *LogoutUseCase) Execute(ctx context.Context) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "Logout"})
	ucLogger.Info("Use case started", nil)

	uc.session.End()
	uc.listener.OnSessionEnded(ctx)

	ucLogger.Info("Use case finished successfully", nil)
}

func normalizeCredentials(creds domain.Credentials) (domain.Credentials, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if _, err := mail.ParseAddress(creds.Email); err != nil {
		return creds, fmt.Errorf("%w: %s", domain.ErrInvalidEmail, creds.Email)
	}
	if creds.Password == "" {
		return creds, fmt.Errorf("password must not be empty")
	}
	return creds, nil
}

func startSession(ctx context.Context, session port.SessionPort, listener port.SessionListenerPort, result domain.AuthResult) (*domain.User, error) {
	user, err := session.Start(result.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	// В токене может не оказаться email, тогда берём его из ответа.
	if user.Email == "" {
		user.Email = result.User.Email
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = result.User.CreatedAt
	}
	listener.OnSessionStarted(ctx)
	return user, nil
}
