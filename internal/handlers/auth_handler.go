package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"lingoplay/internal/api"
	"lingoplay/internal/apiclient"
	"lingoplay/internal/models"
	"lingoplay/internal/security"
	"lingoplay/internal/service"
	"lingoplay/internal/validation"
	"lingoplay/internal/views"
)

// AuthHandler handles sign-in, signup, logout and password recovery
type AuthHandler struct {
	rd                   *Renderer
	authService          *service.AuthService
	api                  *api.API
	google               *oauth2.Config
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler. google may be nil when Google
// sign-in is not configured.
func NewAuthHandler(rd *Renderer, authService *service.AuthService, a *api.API, google *oauth2.Config, oauthRedirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		rd:                   rd,
		authService:          authService,
		api:                  a,
		google:               google,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

func (h *AuthHandler) googleEnabled() bool {
	return h.google != nil && h.google.ClientID != "" && h.google.ClientSecret != ""
}

func signedIn(r *http.Request) bool {
	st := service.AuthStateFrom(r.Context())
	return st != nil && st.HasToken()
}

// landingPath is where a user goes right after signing in
func landingPath(user *models.User) string {
	if user.IsAdmin() {
		return "/admin"
	}
	return "/"
}

// ShowLogin displays the login page
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if signedIn(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, "", "")
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, email, errMsg string) {
	h.rd.Render(w, "login.tmpl", LoginViewData{
		Page:          h.rd.Page(w, r, pageTitle("Login")),
		GoogleEnabled: h.googleEnabled(),
		Error:         errMsg,
		Email:         email,
	})
}

// Login handles email and password sign-in
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, "", ErrInvalidFormData)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if err := validation.ValidateEmail(email); err != nil {
		h.renderLogin(w, r, email, err.Error())
		return
	}
	if err := validation.Required("password", password); err != nil {
		h.renderLogin(w, r, email, err.Error())
		return
	}

	user, err := h.authService.Login(r.Context(), currentSession(r.Context()), email, password)
	if err != nil {
		log.Printf("Login failed for %s: %v", email, err)
		h.renderLogin(w, r, email, apiclient.UserMessage(err))
		return
	}

	h.rd.Flash(w, r, views.ToastSuccess, "Welcome back!")
	http.Redirect(w, r, landingPath(user), http.StatusSeeOther)
}

// ShowSignup displays the signup page
func (h *AuthHandler) ShowSignup(w http.ResponseWriter, r *http.Request) {
	if signedIn(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderSignup(w, r, "", "", "")
}

func (h *AuthHandler) renderSignup(w http.ResponseWriter, r *http.Request, name, email, errMsg string) {
	h.rd.Render(w, "signup.tmpl", SignupViewData{
		Page:          h.rd.Page(w, r, pageTitle("Sign up")),
		GoogleEnabled: h.googleEnabled(),
		Error:         errMsg,
		Email:         email,
		Name:          name,
	})
}

// Signup creates an account and signs it in
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderSignup(w, r, "", "", ErrInvalidFormData)
		return
	}

	input := api.RegisterInput{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	confirm := r.FormValue("confirm_password")

	for _, err := range []error{
		validation.ValidateName(input.Name),
		validation.ValidateEmail(input.Email),
		validation.ValidatePassword(input.Password),
		validation.ValidateConfirmation(input.Password, confirm),
	} {
		if err != nil {
			h.renderSignup(w, r, input.Name, input.Email, err.Error())
			return
		}
	}

	user, err := h.authService.Register(r.Context(), currentSession(r.Context()), input)
	if err != nil {
		log.Printf("Signup failed for %s: %v", input.Email, err)
		h.renderSignup(w, r, input.Name, input.Email, apiclient.UserMessage(err))
		return
	}

	h.rd.Flash(w, r, views.ToastSuccess, "Your account is ready!")
	http.Redirect(w, r, landingPath(user), http.StatusSeeOther)
}

// Logout signs the browser out
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), currentSession(r.Context())); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Logout failed", err)
		return
	}
	h.rd.Flash(w, r, views.ToastInfo, "You have been signed out")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ShowForgotPassword displays the forgot password page
func (h *AuthHandler) ShowForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.rd.Render(w, "forgot_password.tmpl", ForgotPasswordViewData{
		Page: h.rd.Page(w, r, pageTitle("Forgot password")),
	})
}

// ForgotPassword requests a one-time code by e-mail
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	renderErr := func(msg string) {
		h.rd.Render(w, "forgot_password.tmpl", ForgotPasswordViewData{
			Page:  h.rd.Page(w, r, pageTitle("Forgot password")),
			Error: msg,
			Email: email,
		})
	}

	if err := validation.ValidateEmail(email); err != nil {
		renderErr(err.Error())
		return
	}
	if err := h.api.ForgotPassword(r.Context(), email); err != nil {
		log.Printf("Forgot password request failed for %s: %v", email, err)
		renderErr(apiclient.UserMessage(err))
		return
	}

	h.rd.Flash(w, r, views.ToastInfo, "We sent a 6-digit code to your e-mail")
	http.Redirect(w, r, "/verify-otp?"+url.Values{"email": {email}}.Encode(), http.StatusSeeOther)
}

// ShowVerifyOTP displays the code entry page
func (h *AuthHandler) ShowVerifyOTP(w http.ResponseWriter, r *http.Request) {
	h.rd.Render(w, "verify_otp.tmpl", VerifyOTPViewData{
		Page:  h.rd.Page(w, r, pageTitle("Verify code")),
		Email: r.URL.Query().Get("email"),
	})
}

// VerifyOTP exchanges the e-mailed code for a short-lived reset token
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	otp := strings.TrimSpace(r.FormValue("otp"))
	renderErr := func(msg string) {
		h.rd.Render(w, "verify_otp.tmpl", VerifyOTPViewData{
			Page:  h.rd.Page(w, r, pageTitle("Verify code")),
			Error: msg,
			Email: email,
		})
	}

	if err := validation.ValidateEmail(email); err != nil {
		renderErr(err.Error())
		return
	}
	if err := validation.ValidateOTP(otp); err != nil {
		renderErr(err.Error())
		return
	}

	resetToken, err := h.api.VerifyOTP(r.Context(), email, otp)
	if err != nil {
		log.Printf("OTP verification failed for %s: %v", email, err)
		renderErr(apiclient.UserMessage(err))
		return
	}

	http.SetCookie(w, security.CreateTempCookie(r, ResetTokenCookieName, resetToken, resetTokenTTL))
	http.Redirect(w, r, "/reset-password", http.StatusSeeOther)
}

func resetToken(r *http.Request) string {
	cookie, err := r.Cookie(ResetTokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ShowResetPassword displays the new password form
func (h *AuthHandler) ShowResetPassword(w http.ResponseWriter, r *http.Request) {
	if resetToken(r) == "" {
		h.rd.Flash(w, r, views.ToastError, "Your reset code has expired, please request a new one")
		http.Redirect(w, r, "/forgot-password", http.StatusSeeOther)
		return
	}
	h.rd.Render(w, "reset_password.tmpl", ResetPasswordViewData{
		Page: h.rd.Page(w, r, pageTitle("Reset password")),
	})
}

// ResetPassword sets a new password with the stored reset token
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := resetToken(r)
	if token == "" {
		h.rd.Flash(w, r, views.ToastError, "Your reset code has expired, please request a new one")
		http.Redirect(w, r, "/forgot-password", http.StatusSeeOther)
		return
	}

	password := r.FormValue("password")
	renderErr := func(msg string) {
		h.rd.Render(w, "reset_password.tmpl", ResetPasswordViewData{
			Page:  h.rd.Page(w, r, pageTitle("Reset password")),
			Error: msg,
		})
	}

	if err := validation.ValidatePassword(password); err != nil {
		renderErr(err.Error())
		return
	}
	if err := validation.ValidateConfirmation(password, r.FormValue("confirm_password")); err != nil {
		renderErr(err.Error())
		return
	}

	if err := h.api.ResetPassword(r.Context(), token, password); err != nil {
		log.Printf("Password reset failed: %v", err)
		if apiclient.IsStatus(err, http.StatusBadRequest) || apiclient.IsStatus(err, http.StatusUnauthorized) || errors.Is(err, apiclient.ErrSessionExpired) {
			http.SetCookie(w, security.CreateDeleteCookie(r, ResetTokenCookieName))
		}
		renderErr(apiclient.UserMessage(err))
		return
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, ResetTokenCookieName))
	h.rd.Flash(w, r, views.ToastSuccess, "Password updated, please sign in")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
