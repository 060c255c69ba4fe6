package service

import (
	"context"
	"sync"

	"lingoplay/internal/api"
	"lingoplay/internal/models"
)

// AuthState resolves the current user at most once per request
type AuthState struct {
	once    sync.Once
	session *models.ClientSession
	load    func(ctx context.Context) (*models.User, error)
	user    *models.User
	err     error
}

// NewAuthState creates the per-request auth state for session. ctx passed to
// User must carry the session's tokens.
func (s *AuthService) NewAuthState(session *models.ClientSession) *AuthState {
	return newAuthState(session, s.api)
}

func newAuthState(session *models.ClientSession, a *api.API) *AuthState {
	return &AuthState{session: session, load: a.Me}
}

// Session returns the browser session the state belongs to
func (st *AuthState) Session() *models.ClientSession {
	return st.session
}

// HasToken reports whether the session holds an access token
func (st *AuthState) HasToken() bool {
	return st.session.HasToken()
}

// User returns the signed-in user, or nil when there is no token.
// The profile is fetched on first use only.
func (st *AuthState) User(ctx context.Context) (*models.User, error) {
	st.once.Do(func() {
		if !st.session.HasToken() {
			return
		}
		st.user, st.err = st.load(ctx)
	})
	return st.user, st.err
}

type authStateKey struct{}

// WithAuthState attaches st to ctx
func WithAuthState(ctx context.Context, st *AuthState) context.Context {
	return context.WithValue(ctx, authStateKey{}, st)
}

// AuthStateFrom returns the auth state attached to ctx, or nil
func AuthStateFrom(ctx context.Context) *AuthState {
	st, _ := ctx.Value(authStateKey{}).(*AuthState)
	return st
}
