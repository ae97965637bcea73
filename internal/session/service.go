// Package session wraps the identity provider and persists the resulting
// session (user + token) to a key-value store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"

	apperrors "elite-customer/internal/common/errors"
	"elite-customer/internal/common/logger"
	"elite-customer/internal/models"
	"elite-customer/internal/supabase"
)

// Storage keys.
const (
	userKey     = "elite_customer_user"
	tokenKey    = "elite_customer_token"
	darkModeKey = "darkMode"
)

// Service owns the current session. It implements api.TokenSource so the
// gateway reads the token from here instead of carrying its own mutable
// copy.
type Service struct {
	provider *supabase.Client // nil when no identity provider is configured
	store    Store
	log      logger.Logger

	mu      sync.RWMutex
	current *models.Session
}

// NewService builds the service and restores any persisted session from
// the store. A corrupt stored user is discarded, not surfaced.
func NewService(ctx context.Context, provider *supabase.Client, store Store, log logger.Logger) *Service {
	s := &Service{provider: provider, store: store, log: log}
	s.restore(ctx)
	return s
}

func (s *Service) restore(ctx context.Context) {
	userJSON, err := s.store.Get(ctx, userKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("session restore failed", map[string]interface{}{"error": err.Error()})
		}
		return
	}

	var user models.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		s.log.Warn("discarding corrupt stored session", map[string]interface{}{"error": err.Error()})
		_ = s.store.Delete(ctx, userKey, tokenKey)
		return
	}

	token, err := s.store.Get(ctx, tokenKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Warn("session restore failed", map[string]interface{}{"error": err.Error()})
		return
	}

	s.mu.Lock()
	s.current = &models.Session{User: user, Token: token}
	s.mu.Unlock()
	s.log.Info("session restored", map[string]interface{}{"user_id": user.ID})
}

// Token implements api.TokenSource.
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// CurrentUser returns the signed-in user, nil when logged out.
func (s *Service) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	user := s.current.User
	return &user
}

// IsLoggedIn reports whether a session is active.
func (s *Service) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// SignInWithEmail authenticates with email/password.
func (s *Service) SignInWithEmail(ctx context.Context, email, password string) (*models.Session, error) {
	if s.provider == nil {
		return nil, apperrors.NewNotConfiguredError("identity provider")
	}

	auth, err := s.provider.Auth().SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, apperrors.NewAuthFailedError(err.Error())
	}
	return s.establish(ctx, auth)
}

// Register creates an account with a display name and signs in.
func (s *Service) Register(ctx context.Context, email, password, name string) (*models.Session, error) {
	if s.provider == nil {
		return nil, apperrors.NewNotConfiguredError("identity provider")
	}

	auth, err := s.provider.Auth().SignUp(ctx, supabase.SignUpRequest{
		Email:    email,
		Password: password,
		Data:     map[string]interface{}{"name": name},
	})
	if err != nil {
		return nil, apperrors.NewAuthFailedError(err.Error())
	}
	return s.establish(ctx, auth)
}

// RequestPhoneOTP asks the provider to text a one-time password.
func (s *Service) RequestPhoneOTP(ctx context.Context, phone string) error {
	if s.provider == nil {
		return apperrors.NewNotConfiguredError("identity provider")
	}
	if err := s.provider.Auth().SendPhoneOTP(ctx, phone); err != nil {
		return apperrors.NewAuthFailedError(err.Error())
	}
	return nil
}

// ConfirmPhoneOTP exchanges a received OTP for a session.
func (s *Service) ConfirmPhoneOTP(ctx context.Context, phone, code string) (*models.Session, error) {
	if s.provider == nil {
		return nil, apperrors.NewNotConfiguredError("identity provider")
	}

	auth, err := s.provider.Auth().VerifyPhoneOTP(ctx, phone, code)
	if err != nil {
		return nil, apperrors.NewAuthFailedError(err.Error())
	}
	return s.establish(ctx, auth)
}

// Refresh exchanges the stored refresh token for a new session.
func (s *Service) Refresh(ctx context.Context) (*models.Session, error) {
	if s.provider == nil {
		return nil, apperrors.NewNotConfiguredError("identity provider")
	}

	s.mu.RLock()
	var refreshToken string
	if s.current != nil {
		refreshToken = s.current.RefreshToken
	}
	s.mu.RUnlock()

	if refreshToken == "" {
		return nil, apperrors.NewAuthFailedError("no refresh token")
	}

	auth, err := s.provider.Auth().RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.NewAuthFailedError(err.Error())
	}
	return s.establish(ctx, auth)
}

// LoginDemo establishes a fixed local session without any provider.
func (s *Service) LoginDemo(ctx context.Context) (*models.Session, error) {
	session := &models.Session{
		User: models.User{
			ID:    "demo-user",
			Name:  "Rajesh Kumar",
			Phone: "+91 98765 43210",
			Email: "rajesh@example.com",
		},
		Token: "demo-token",
	}
	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Logout revokes the provider session if any, then clears local state.
// Store failures during cleanup are logged, not returned; the local
// session is always dropped.
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	current := s.current
	s.current = nil
	s.mu.Unlock()

	if s.provider != nil && current != nil && current.Token != "" && current.Token != "demo-token" {
		if err := s.provider.Auth().SignOut(ctx, current.Token); err != nil {
			s.log.Warn("provider sign-out failed", map[string]interface{}{"error": err.Error()})
		}
	}

	if err := s.store.Delete(ctx, userKey, tokenKey); err != nil {
		s.log.Warn("session cleanup failed", map[string]interface{}{"error": err.Error()})
	}
}

// establish converts a provider auth result into the canonical session
// and persists it.
func (s *Service) establish(ctx context.Context, auth *supabase.Session) (*models.Session, error) {
	if auth == nil || auth.AccessToken == "" {
		return nil, apperrors.NewAuthFailedError("provider returned no token")
	}

	user := models.User{}
	if auth.User != nil {
		user.ID = auth.User.ID
		user.Email = auth.User.Email
		user.Phone = auth.User.Phone
		if name, ok := auth.User.UserMetadata["name"].(string); ok {
			user.Name = name
		}
		if avatar, ok := auth.User.UserMetadata["avatar"].(string); ok {
			user.Avatar = avatar
		}
	}

	session := &models.Session{
		User:         user,
		Token:        auth.AccessToken,
		RefreshToken: auth.RefreshToken,
	}
	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) persist(ctx context.Context, session *models.Session) error {
	userJSON, err := json.Marshal(session.User)
	if err != nil {
		return apperrors.NewSessionStoreError(err)
	}
	if err := s.store.Set(ctx, userKey, string(userJSON)); err != nil {
		return apperrors.NewSessionStoreError(err)
	}
	if err := s.store.Set(ctx, tokenKey, session.Token); err != nil {
		return apperrors.NewSessionStoreError(err)
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	s.log.Info("session established", map[string]interface{}{"user_id": session.User.ID})
	return nil
}

// DarkMode reads the persisted UI preference, defaulting to light.
func (s *Service) DarkMode(ctx context.Context) bool {
	value, err := s.store.Get(ctx, darkModeKey)
	if err != nil {
		return false
	}
	enabled, _ := strconv.ParseBool(value)
	return enabled
}

// SetDarkMode persists the UI preference.
func (s *Service) SetDarkMode(ctx context.Context, enabled bool) error {
	if err := s.store.Set(ctx, darkModeKey, strconv.FormatBool(enabled)); err != nil {
		return apperrors.NewSessionStoreError(err)
	}
	return nil
}
