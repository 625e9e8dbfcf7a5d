package usecase

import (
	"context"
	"rental-client/internal/contextkeys"
	"rental-client/internal/core/domain"
	"rental-client/internal/core/port"
	"strings"
)

type GetProfileUseCase struct {
	profiles port.ProfileAPIPort
	session  port.SessionPort
}

func NewGetProfileUseCase(profiles port.ProfileAPIPort, session port.SessionPort) *GetProfileUseCase {
	return &GetProfileUseCase{profiles: profiles, session: session}
}

func (uc *GetProfileUseCase) Execute(ctx context.Context) (domain.Profile, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "GetProfile"})
	ucLogger.Info("Use case started", nil)

	if _, ok := uc.session.CurrentUser(); !ok {
		ucLogger.Warn("Rejected: no active session", nil)
		return domain.Profile{}, domain.ErrAuthRequired
	}

	profile, err := uc.profiles.GetProfile(ctx)
	if err != nil {
		ucLogger.Error("Profile API returned an error", err, nil)
		return domain.Profile{}, err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return profile, nil
}

// UpdateProfileUseCase сохраняет профиль и возвращает его актуальную версию с сервера.
type UpdateProfileUseCase struct {
	profiles port.ProfileAPIPort
	session  port.SessionPort
}

func NewUpdateProfileUseCase(profiles port.ProfileAPIPort, session port.SessionPort) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{profiles: profiles, session: session}
}

func (uc *UpdateProfileUseCase) Execute(ctx context.Context, update domain.ProfileUpdate) (domain.Profile, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "UpdateProfile"})
	ucLogger.Info("Use case started", nil)

	user, ok := uc.session.CurrentUser()
	if !ok {
		ucLogger.Warn("Rejected: no active session", nil)
		return domain.Profile{}, domain.ErrAuthRequired
	}

	update.FullName = strings.TrimSpace(update.FullName)
	update.Email = strings.TrimSpace(update.Email)
	update.Phone = strings.TrimSpace(update.Phone)

	if _, err := uc.profiles.UpdateProfile(ctx, update); err != nil {
		ucLogger.Error("Profile API failed to update profile", err, port.Fields{"user_id": user.ID})
		return domain.Profile{}, err
	}

	// Перечитываем профиль, чтобы получить серверные поля (updatedAt и т.п.).
	profile, err := uc.profiles.GetProfile(ctx)
	if err != nil {
		ucLogger.Error("Profile API failed to reload profile", err, port.Fields{"user_id": user.ID})
		return domain.Profile{}, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"user_id": user.ID})
	return profile, nil
}
