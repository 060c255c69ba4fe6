package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lingoplay/internal/models"
)

// sessionTokens writes token changes made by the API client back to the session store
type sessionTokens struct {
	mu      sync.Mutex
	store   SessionStore
	session *models.ClientSession
}

func (t *sessionTokens) AccessToken() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.AccessToken
}

func (t *sessionTokens) RefreshToken() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.RefreshToken
}

func (t *sessionTokens) SetAccessToken(token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.store.UpdateAccessToken(t.session.ID, token); err != nil {
		return err
	}
	t.session.AccessToken = token
	return nil
}

func (t *sessionTokens) SetRefreshToken(token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.store.UpdateTokens(t.session.ID, t.session.AccessToken, token); err != nil {
		return err
	}
	t.session.RefreshToken = token
	return nil
}

func (t *sessionTokens) ClearAccessToken() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session.AccessToken = ""
	return t.store.UpdateAccessToken(t.session.ID, "")
}

// TokenClaims is the readable part of a backend access token
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// ParseTokenClaims reads the claims of a JWT without verifying it. The backend
// holds the signing key; the values are only used for display and logging.
func ParseTokenClaims(token string) (TokenClaims, error) {
	if token == "" {
		return TokenClaims{}, errors.New("empty token")
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenClaims{}, fmt.Errorf("failed to parse token claims: %w", err)
	}
	out := TokenClaims{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
