package handlers

import (
	"html/template"
	"log"
	"net/http"
	"net/url"

	"lingoplay/internal/models"
	"lingoplay/internal/security"
	"lingoplay/internal/service"
	"lingoplay/internal/views"
)

// Page carries the fields every layout needs
type Page struct {
	Title       string
	Locale      string
	Locales     []string
	User        *models.User
	CSRFToken   string
	Toasts      []views.Toast
	Path        string
	Query       url.Values
	ShowCheckIn bool
	// Refresh reloads the page after this many seconds when positive
	Refresh int
}

// Renderer executes page templates and owns the per-request page chrome
type Renderer struct {
	templates *template.Template
	flasher   *views.Flasher
	csrf      *security.CSRFGenerator
	auth      *service.AuthService
}

// NewRenderer creates a renderer
func NewRenderer(templates *template.Template, flasher *views.Flasher, csrf *security.CSRFGenerator, auth *service.AuthService) *Renderer {
	return &Renderer{
		templates: templates,
		flasher:   flasher,
		csrf:      csrf,
		auth:      auth,
	}
}

// Page builds the common page fields. Pending toasts are consumed here, so it
// must run before anything is written to w.
func (rd *Renderer) Page(w http.ResponseWriter, r *http.Request, title string) Page {
	page := Page{
		Title:   title,
		Locale:  localeFrom(r),
		Locales: views.Locales,
		Path:    r.URL.Path,
		Query:   r.URL.Query(),
		Toasts:  rd.flasher.Pop(w, r),
	}

	st := service.AuthStateFrom(r.Context())
	if st == nil {
		return page
	}

	session := st.Session()
	if token, err := rd.csrf.GenerateToken(session.ID); err == nil {
		page.CSRFToken = token
	} else {
		log.Printf("Failed to generate CSRF token: %v", err)
	}

	if st.HasToken() {
		user, err := st.User(r.Context())
		if err != nil {
			log.Printf("Failed to load current user: %v", err)
		}
		page.User = user
		page.ShowCheckIn = rd.auth != nil && rd.auth.NeedsCheckIn(session)
	}
	return page
}

// Render executes a named template
func (rd *Renderer) Render(w http.ResponseWriter, name string, data interface{}) {
	rd.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus executes a named template with a non-200 status
func (rd *Renderer) RenderStatus(w http.ResponseWriter, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := rd.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}

// Flash queues a toast for the next rendered page
func (rd *Renderer) Flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	rd.flasher.Add(w, r, kind, message)
}

// pageTitle appends the product name to a page title
func pageTitle(title string) string {
	if title == "" {
		return "LingoPlay"
	}
	return title + " - LingoPlay"
}

func localeFrom(r *http.Request) string {
	if st := service.AuthStateFrom(r.Context()); st != nil {
		if locale, ok := views.NormalizeLocale(st.Session().Locale); ok {
			return locale
		}
	}
	return views.Locales[0]
}
