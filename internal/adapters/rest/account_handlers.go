package rest

import (
	"context"
	"net/http"
	"rental-client/internal/adapters/view_dto"
	"rental-client/internal/contextkeys"
	"rental-client/internal/contracts"
	"rental-client/internal/core/domain"
	"rental-client/internal/core/port"
	"rental-client/internal/core/port/usecases_port"
)

// AccountHandler обслуживает вход, регистрацию, выход и профиль.
type AccountHandler struct {
	loginUC         usecases_port.LoginUseCasePort
	registerUC      usecases_port.RegisterUseCasePort
	logoutUC        usecases_port.LogoutUseCasePort
	getProfileUC    usecases_port.GetProfileUseCasePort
	updateProfileUC usecases_port.UpdateProfileUseCasePort
	session         port.SessionPort
}

func NewAccountHandler(
	loginUC usecases_port.LoginUseCasePort,
	registerUC usecases_port.RegisterUseCasePort,
	logoutUC usecases_port.LogoutUseCasePort,
	getProfileUC usecases_port.GetProfileUseCasePort,
	updateProfileUC usecases_port.UpdateProfileUseCasePort,
	session port.SessionPort,
) *AccountHandler {
	return &AccountHandler{
		loginUC:         loginUC,
		registerUC:      registerUC,
		logoutUC:        logoutUC,
		getProfileUC:    getProfileUC,
		updateProfileUC: updateProfileUC,
		session:         session,
	}
}

// Login обрабатывает POST /api/auth/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, "Login", h.loginUC.Execute, http.StatusOK)
}

// Register обрабатывает POST /api/auth/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, "Register", h.registerUC.Execute, http.StatusCreated)
}

type authFunc func(ctx context.Context, creds domain.Credentials) (*domain.User, error)

func (h *AccountHandler) authenticate(w http.ResponseWriter, r *http.Request, handler string, execute authFunc, status int) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": handler})

	var req CredentialsRequest
	if err := decodeValidated(r, contracts.CredentialsSchema, &req); err != nil {
		logger.Warn("Invalid credentials request", port.Fields{"error": err.Error()})
		writeUseCaseError(w, err)
		return
	}

	user, err := execute(r.Context(), domain.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		logger.Warn("Authentication failed", port.Fields{"error": err.Error()})
		writeUseCaseError(w, err)
		return
	}

	RespondWithJSON(w, status, view_dto.ToUserDTO(user))
}

// Logout обрабатывает POST /api/auth/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.logoutUC.Execute(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Me обрабатывает GET /api/auth/me. Сетевых запросов не делает.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.session.CurrentUser()
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Not signed in")
		return
	}
	RespondWithJSON(w, http.StatusOK, view_dto.ToUserDTO(user))
}

// GetProfile обрабатывает GET /api/profile
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetProfile"})

	profile, err := h.getProfileUC.Execute(r.Context())
	if err != nil {
		logger.Error("Get profile use case failed", err, nil)
		writeUseCaseError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile обрабатывает PUT /api/profile
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateProfile"})

	var req ProfileUpdateRequest
	if err := decodeValidated(r, contracts.ProfileUpdateSchema, &req); err != nil {
		logger.Warn("Invalid profile update", port.Fields{"error": err.Error()})
		writeUseCaseError(w, err)
		return
	}

	profile, err := h.updateProfileUC.Execute(r.Context(), domain.ProfileUpdate{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		logger.Error("Update profile use case failed", err, nil)
		writeUseCaseError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toProfileResponse(profile))
}
