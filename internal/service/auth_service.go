package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"lingoplay/internal/api"
	"lingoplay/internal/apiclient"
	"lingoplay/internal/metrics"
	"lingoplay/internal/models"
	"lingoplay/internal/security"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoToken         = errors.New("sign-in response carried no access token")
)

// SessionStore persists client sessions
type SessionStore interface {
	CreateSession(session *models.ClientSession) error
	GetSession(sessionID string) (*models.ClientSession, error)
	UpdateTokens(sessionID, accessToken, refreshToken string) error
	UpdateAccessToken(sessionID, accessToken string) error
	ClearTokens(sessionID string) error
	SetLocale(sessionID, locale string) error
	MarkCheckIn(sessionID, day string) error
	MarkSkip(sessionID, day string) error
	DeleteSession(sessionID string) error
	DeleteExpiredSessions() error
}

// AuthService owns the browser session: its tokens, sign-in state and daily stamps
type AuthService struct {
	api             *api.API
	store           SessionStore
	sessionDuration time.Duration
	now             func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(a *api.API, store SessionStore, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		api:             a,
		store:           store,
		sessionDuration: sessionDuration,
		now:             time.Now,
	}
}

// StartSession creates an anonymous session for a browser that has none
func (s *AuthService) StartSession(locale string) (*models.ClientSession, error) {
	now := s.now()
	session := &models.ClientSession{
		ID:        security.RandomID(),
		Locale:    locale,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}
	if err := s.store.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return session, nil
}

// LoadSession returns the stored session for id. Expired sessions are removed
// and reported as ErrSessionNotFound.
func (s *AuthService) LoadSession(sessionID string) (*models.ClientSession, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.ExpiresAt.Before(s.now()) {
		_ = s.store.DeleteSession(sessionID)
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Bind returns ctx carrying the session's tokens for API calls
func (s *AuthService) Bind(ctx context.Context, session *models.ClientSession) context.Context {
	return apiclient.WithTokens(ctx, &sessionTokens{store: s.store, session: session})
}

// Login signs in with email and password and stores the resulting tokens
func (s *AuthService) Login(ctx context.Context, session *models.ClientSession, email, password string) (*models.User, error) {
	result, err := s.api.Login(ctx, strings.TrimSpace(email), password)
	return s.completeSignIn(session, "password", result, err)
}

// Register creates an account and signs the browser in
func (s *AuthService) Register(ctx context.Context, session *models.ClientSession, input api.RegisterInput) (*models.User, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	result, err := s.api.Register(ctx, input)
	return s.completeSignIn(session, "register", result, err)
}

// LoginWithGoogle exchanges a Google ID token for backend tokens
func (s *AuthService) LoginWithGoogle(ctx context.Context, session *models.ClientSession, idToken string) (*models.User, error) {
	result, err := s.api.LoginWithGoogle(ctx, idToken)
	return s.completeSignIn(session, "google", result, err)
}

func (s *AuthService) completeSignIn(session *models.ClientSession, method string, result *api.AuthResult, err error) (*models.User, error) {
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failure", method).Inc()
		return nil, err
	}
	if result.AccessToken == "" {
		metrics.LoginAttempts.WithLabelValues("failure", method).Inc()
		return nil, ErrNoToken
	}
	if err := s.store.UpdateTokens(session.ID, result.AccessToken, result.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}
	session.AccessToken = result.AccessToken
	session.RefreshToken = result.RefreshToken
	metrics.LoginAttempts.WithLabelValues("success", method).Inc()

	if claims, err := ParseTokenClaims(result.AccessToken); err == nil && !claims.ExpiresAt.IsZero() {
		log.Printf("Signed in %s via %s (token expires %s)", claims.Subject, method, claims.ExpiresAt.Format(time.RFC3339))
	}
	return result.User, nil
}

// Logout revokes the session on the server and forgets its tokens.
// The server call is best effort; local tokens are always cleared.
func (s *AuthService) Logout(ctx context.Context, session *models.ClientSession) error {
	if session.HasToken() {
		if err := s.api.Logout(s.Bind(ctx, session)); err != nil {
			log.Printf("Logout request failed: %v", err)
		}
	}
	if err := s.store.ClearTokens(session.ID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	session.AccessToken = ""
	session.RefreshToken = ""
	return nil
}

// CheckIn records today's check-in on the server and stamps the session
func (s *AuthService) CheckIn(ctx context.Context, session *models.ClientSession) (*models.CheckInResult, error) {
	result, err := s.api.CheckIn(s.Bind(ctx, session))
	if err != nil {
		return nil, err
	}
	day := s.now().Format(models.DateStamp)
	if err := s.store.MarkCheckIn(session.ID, day); err != nil {
		return nil, fmt.Errorf("failed to stamp check-in: %w", err)
	}
	session.LastCheckIn = day
	return result, nil
}

// SkipCheckIn hides the check-in prompt for the rest of today
func (s *AuthService) SkipCheckIn(session *models.ClientSession) error {
	day := s.now().Format(models.DateStamp)
	if err := s.store.MarkSkip(session.ID, day); err != nil {
		return fmt.Errorf("failed to stamp skip: %w", err)
	}
	session.LastSkip = day
	return nil
}

// NeedsCheckIn reports whether the daily prompt should show now
func (s *AuthService) NeedsCheckIn(session *models.ClientSession) bool {
	return session.NeedsCheckIn(s.now())
}

// SetLocale stores the session's language
func (s *AuthService) SetLocale(session *models.ClientSession, locale string) error {
	if err := s.store.SetLocale(session.ID, locale); err != nil {
		return fmt.Errorf("failed to set locale: %w", err)
	}
	session.Locale = locale
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.store.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}
