package session_adapter

import (
	"errors"
	"fmt"
	"os"
	"rental-client/internal/core/domain"
	"rental-client/internal/core/port"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config - настройки сессии.
type Config struct {
	// FilePath - файл для хранения токена между запусками. Пусто - только память.
	FilePath string
	// Now подменяет часы в тестах.
	Now func() time.Time
}

// sessionClaims - поля токена, которые выдаёт бэкенд.
// Идентификатор пользователя может прийти в user_id, id или sub.
type sessionClaims struct {
	UserID string `json:"user_id"`
	ID     string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *sessionClaims) userID() string {
	switch {
	case c.UserID != "":
		return c.UserID
	case c.ID != "":
		return c.ID
	default:
		return c.Subject
	}
}

// JWTSession реализует SessionPort: хранит bearer-токен и проверяет срок его действия
// при каждом обращении. Подпись не проверяется - это делает бэкенд.
type JWTSession struct {
	mu        sync.Mutex
	token     string
	user      *domain.User
	expiresAt time.Time

	filePath string
	now      func() time.Time
	parser   *jwt.Parser
	logger   port.LoggerPort
}

// NewJWTSession создает сессию и восстанавливает токен из файла, если он есть и не истёк.
func NewJWTSession(cfg Config, baseLogger port.LoggerPort) *JWTSession {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &JWTSession{
		filePath: cfg.FilePath,
		now:      cfg.Now,
		parser:   jwt.NewParser(),
		logger:   baseLogger.WithFields(port.Fields{"component": "JWTSession"}),
	}
	s.restore()
	return s
}

func (s *JWTSession) restore() {
	if s.filePath == "" {
		return
	}
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Could not read persisted session", port.Fields{"path": s.filePath, "error": err.Error()})
		}
		return
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return
	}
	if _, err := s.Start(token); err != nil {
		s.logger.Warn("Persisted session is not usable, discarding", port.Fields{"error": err.Error()})
		s.removeFile()
		return
	}
	s.logger.Info("Session restored from file", nil)
}

// Start открывает сессию с новым токеном. Истёкший или нечитаемый токен отклоняется.
func (s *JWTSession) Start(token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims := &sessionClaims{}
	if _, _, err := s.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
		if !s.now().Before(expiresAt) {
			return nil, domain.ErrSessionExpired
		}
	}

	user := &domain.User{
		ID:    claims.userID(),
		Email: claims.Email,
		Role:  claims.Role,
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: token has no user id", domain.ErrTokenInvalid)
	}
	if claims.IssuedAt != nil {
		user.CreatedAt = claims.IssuedAt.Time
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.expiresAt = expiresAt
	s.mu.Unlock()

	s.persist(token)
	s.logger.Info("Session started", port.Fields{"user_id": user.ID, "expires_at": expiresAt})

	u := *user
	return &u, nil
}

// CurrentUser возвращает пользователя без сетевых запросов. Истёкшая сессия завершается.
func (s *JWTSession) CurrentUser() (*domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.activeLocked() {
		return nil, false
	}
	u := *s.user
	return &u, true
}

// Token возвращает bearer-токен активной сессии.
func (s *JWTSession) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.activeLocked() {
		return "", false
	}
	return s.token, true
}

// End завершает сессию и удаляет сохранённый токен.
func (s *JWTSession) End() {
	s.mu.Lock()
	hadSession := s.token != ""
	s.clearLocked()
	s.mu.Unlock()

	if hadSession {
		s.logger.Info("Session ended", nil)
	}
}

func (s *JWTSession) activeLocked() bool {
	if s.token == "" {
		return false
	}
	if !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt) {
		s.logger.Warn("Session expired, signing out", port.Fields{"user_id": s.user.ID})
		s.clearLocked()
		return false
	}
	return true
}

func (s *JWTSession) clearLocked() {
	s.token = ""
	s.user = nil
	s.expiresAt = time.Time{}
	s.removeFile()
}

func (s *JWTSession) persist(token string) {
	if s.filePath == "" {
		return
	}
	if err := os.WriteFile(s.filePath, []byte(token), 0o600); err != nil {
		s.logger.Warn("Could not persist session", port.Fields{"path": s.filePath, "error": err.Error()})
	}
}

func (s *JWTSession) removeFile() {
	if s.filePath == "" {
		return
	}
	if err := os.Remove(s.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Could not remove persisted session", port.Fields{"path": s.filePath, "error": err.Error()})
	}
}
