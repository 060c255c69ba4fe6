package handlers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"lingoplay/internal/api"
	"lingoplay/internal/models"
	"lingoplay/internal/queries"
	"lingoplay/internal/service"
	"lingoplay/internal/views"
)

// HomeHandler serves the lesson list, the daily check-in and the locale switch
type HomeHandler struct {
	rd          *Renderer
	authService *service.AuthService
	queries     *queries.Queries
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(rd *Renderer, authService *service.AuthService, q *queries.Queries) *HomeHandler {
	return &HomeHandler{
		rd:          rd,
		authService: authService,
		queries:     q,
	}
}

// pageParam reads a positive page number from the query string
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Home lists lessons, optionally filtered by level and search text
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	level := query.Get("level")
	if !models.Level(level).Valid() {
		level = ""
	}
	search := strings.TrimSpace(query.Get("search"))

	lessons, err := h.queries.Lessons(r.Context(), api.LessonFilter{
		Level:  models.Level(level),
		Search: search,
		Page:   pageParam(r),
		Limit:  lessonPageSize,
	})
	if err != nil {
		h.rd.pageLoadFailed(w, r, "Failed to load lessons", err)
		return
	}

	page := h.rd.Page(w, r, pageTitle(views.T(localeFrom(r), "home.title")))
	h.rd.Render(w, "home.tmpl", HomeViewData{
		Page:       page,
		Lessons:    lessons.Items,
		Pagination: lessons.Pagination,
		Levels:     models.Levels,
		Level:      level,
		Search:     search,
	})
}

// CheckIn records today's check-in and reports the streak
func (h *HomeHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	result, err := h.authService.CheckIn(r.Context(), currentSession(r.Context()))
	if err != nil {
		h.rd.failAndRedirect(w, r, returnPath(r), "Check-in failed", err)
		return
	}
	h.rd.Flash(w, r, views.ToastSuccess, fmt.Sprintf("Checked in! Your streak is %d days", result.Streak))
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// SkipCheckIn hides the check-in prompt until tomorrow
func (h *HomeHandler) SkipCheckIn(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.SkipCheckIn(currentSession(r.Context())); err != nil {
		log.Printf("Failed to skip check-in: %v", err)
	}
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// SetLocale switches the session language
func (h *HomeHandler) SetLocale(w http.ResponseWriter, r *http.Request) {
	locale, ok := views.NormalizeLocale(r.FormValue("locale"))
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Unsupported language", "", nil)
		return
	}
	if err := h.authService.SetLocale(currentSession(r.Context()), locale); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to set locale", err)
		return
	}
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// returnPath reads the local path a form wants to come back to
func returnPath(r *http.Request) string {
	next := r.FormValue("next")
	u, err := url.Parse(next)
	if next == "" || err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
