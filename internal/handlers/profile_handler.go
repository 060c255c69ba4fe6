package handlers

import (
	"net/http"
	"strings"

	"lingoplay/internal/api"
	"lingoplay/internal/models"
	"lingoplay/internal/queries"
	"lingoplay/internal/service"
	"lingoplay/internal/validation"
	"lingoplay/internal/views"
)

// ProfileHandler serves the signed-in user's profile
type ProfileHandler struct {
	rd          *Renderer
	authService *service.AuthService
	api         *api.API
	queries     *queries.Queries
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(rd *Renderer, authService *service.AuthService, a *api.API, q *queries.Queries) *ProfileHandler {
	return &ProfileHandler{
		rd:          rd,
		authService: authService,
		api:         a,
		queries:     q,
	}
}

// ShowProfile displays the profile, streak and password forms
func (h *ProfileHandler) ShowProfile(w http.ResponseWriter, r *http.Request) {
	user, err := service.AuthStateFrom(r.Context()).User(r.Context())
	if err != nil {
		h.rd.pageLoadFailed(w, r, "Failed to load profile", err)
		return
	}

	data := ProfileViewData{
		Page:    h.rd.Page(w, r, pageTitle(views.T(localeFrom(r), "profile.title"))),
		Profile: user,
	}
	if claims, err := service.ParseTokenClaims(currentSession(r.Context()).AccessToken); err == nil {
		data.TokenExpiresAt = claims.ExpiresAt
	}
	h.rd.Render(w, "profile.tmpl", data)
}

// UpdateProfile saves the editable profile fields
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	update := models.ProfileUpdate{
		Name:      strings.TrimSpace(r.FormValue("name")),
		Avatar:    strings.TrimSpace(r.FormValue("avatar")),
		Locale:    r.FormValue("locale"),
		Gender:    r.FormValue("gender"),
		Birthdate: r.FormValue("birthdate"),
		Bio:       strings.TrimSpace(r.FormValue("bio")),
		Location:  strings.TrimSpace(r.FormValue("location")),
	}

	if err := validation.ValidateName(update.Name); err != nil {
		h.rd.Flash(w, r, views.ToastError, err.Error())
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	locale, localeOK := views.NormalizeLocale(update.Locale)
	if !localeOK {
		update.Locale = ""
	}

	if _, err := h.queries.UpdateProfile(r.Context(), update); err != nil {
		h.rd.failAndRedirect(w, r, "/profile", "Failed to update profile", err)
		return
	}
	if localeOK {
		if err := h.authService.SetLocale(currentSession(r.Context()), locale); err != nil {
			h.rd.failAndRedirect(w, r, "/profile", "Failed to store locale", err)
			return
		}
	}

	h.rd.Flash(w, r, views.ToastSuccess, "Profile updated")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// ChangePassword updates the account password
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	change := models.PasswordChange{
		CurrentPassword: r.FormValue("current_password"),
		NewPassword:     r.FormValue("new_password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}
	if err := validation.ValidatePasswordChange(change); err != nil {
		h.rd.Flash(w, r, views.ToastError, err.Error())
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	if err := h.api.ChangePassword(r.Context(), change); err != nil {
		h.rd.failAndRedirect(w, r, "/profile", "Failed to change password", err)
		return
	}

	h.rd.Flash(w, r, views.ToastSuccess, "Password changed")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
