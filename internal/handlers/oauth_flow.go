package handlers

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"lingoplay/internal/apiclient"
	"lingoplay/internal/security"
	"lingoplay/internal/views"
)

// NewGoogleConfig returns the OAuth client configuration for Google sign-in,
// or nil when no credentials are set
func NewGoogleConfig(clientID, clientSecret string) *oauth2.Config {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

// StartGoogle redirects to Google's consent screen
func (h *AuthHandler) StartGoogle(w http.ResponseWriter, r *http.Request) {
	config, ok := h.googleFor(r)
	if !ok {
		h.oauthError(w, r, "Google sign-in is not configured")
		return
	}

	state := security.RandomID()
	http.SetCookie(w, security.CreateTempCookie(r, OAuthStateCookieName, state, oauthStateTTL))
	http.Redirect(w, r, config.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

// GoogleCallback trades the authorization code for Google's ID token and
// passes that to the backend, which answers with LingoPlay tokens
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	config, ok := h.googleFor(r)
	if !ok {
		h.oauthError(w, r, "Google sign-in is not configured")
		return
	}

	query := r.URL.Query()
	if query.Get("code") == "" {
		h.oauthError(w, r, "Missing authorization code")
		return
	}
	if saved, err := r.Cookie(OAuthStateCookieName); err != nil || saved.Value == "" || saved.Value != query.Get("state") {
		h.oauthError(w, r, "Invalid OAuth state")
		return
	}
	http.SetCookie(w, security.CreateDeleteCookie(r, OAuthStateCookieName))

	ctx, cancel := context.WithTimeout(r.Context(), googleExchangeTimeout)
	defer cancel()

	token, err := config.Exchange(ctx, query.Get("code"))
	if err != nil {
		log.Printf("Google code exchange failed: %v", err)
		h.oauthError(w, r, "Failed to exchange OAuth code")
		return
	}
	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		h.oauthError(w, r, "Google did not return an ID token")
		return
	}

	user, err := h.authService.LoginWithGoogle(ctx, currentSession(r.Context()), idToken)
	if err != nil {
		log.Printf("Google sign-in rejected: %v", err)
		h.oauthError(w, r, apiclient.UserMessage(err))
		return
	}

	h.rd.Flash(w, r, views.ToastSuccess, "Welcome!")
	http.Redirect(w, r, landingPath(user), http.StatusSeeOther)
}

// googleFor copies the Google config with a callback URL on the host the
// browser used, unless a public base URL is configured
func (h *AuthHandler) googleFor(r *http.Request) (oauth2.Config, bool) {
	if !h.googleEnabled() {
		return oauth2.Config{}, false
	}
	base := strings.TrimSpace(h.oauthRedirectBaseURL)
	if base == "" {
		u := url.URL{Scheme: "http", Host: r.Host}
		if security.IsSecureRequest(r) {
			u.Scheme = "https"
		}
		base = u.String()
	}
	config := *h.google
	config.RedirectURL = strings.TrimRight(base, "/") + "/auth/google/callback"
	return config, true
}

func (h *AuthHandler) oauthError(w http.ResponseWriter, r *http.Request, message string) {
	h.rd.RenderStatus(w, http.StatusBadRequest, "login.tmpl", LoginViewData{
		Page:          h.rd.Page(w, r, pageTitle("Login")),
		GoogleEnabled: h.googleEnabled(),
		Error:         message,
	})
}
