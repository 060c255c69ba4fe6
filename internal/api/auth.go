package api

import (
	"context"
	"net/http"

	"lingoplay/internal/apiclient"
	"lingoplay/internal/models"
)

// AuthResult is what a successful sign-in yields
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// RegisterInput is the signup form
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authPayload struct {
	AccessToken string       `json:"accessToken"`
	User        *models.User `json:"user"`
}

func (a *API) signIn(ctx context.Context, path string, body interface{}) (*AuthResult, error) {
	var payload authPayload
	resp, err := a.client.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: path, Body: body, Public: true}, &payload)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken:  payload.AccessToken,
		RefreshToken: resp.Cookie(apiclient.RefreshCookieName),
		User:         payload.User,
	}, nil
}

// Login signs in with email and password
func (a *API) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return a.signIn(ctx, "/auth/login", map[string]string{"email": email, "password": password})
}

// Register creates an account and signs it in
func (a *API) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	return a.signIn(ctx, "/auth/register", input)
}

// LoginWithGoogle exchanges a Google ID token for a session
func (a *API) LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	return a.signIn(ctx, "/auth/google", map[string]string{"idToken": idToken})
}

// Logout revokes the refresh token on the server
func (a *API) Logout(ctx context.Context) error {
	_, err := a.post(ctx, "/auth/logout", nil, nil)
	return err
}

// ForgotPassword asks the server to e-mail a one-time code
func (a *API) ForgotPassword(ctx context.Context, email string) error {
	_, err := a.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/forgot-password",
		Body:   map[string]string{"email": email},
		Public: true,
	}, nil)
	return err
}

// VerifyOTP checks the e-mailed code and returns a password-reset token
func (a *API) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	var payload struct {
		ResetToken string `json:"resetToken"`
	}
	_, err := a.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/verify-otp",
		Body:   map[string]string{"email": email, "otp": otp},
		Public: true,
	}, &payload)
	return payload.ResetToken, err
}

// ResetPassword sets a new password using a reset token
func (a *API) ResetPassword(ctx context.Context, resetToken, password string) error {
	_, err := a.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/reset-password",
		Body:   map[string]string{"resetToken": resetToken, "password": password},
		Public: true,
	}, nil)
	return err
}
