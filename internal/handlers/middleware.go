package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"lingoplay/internal/models"
	"lingoplay/internal/queries"
	"lingoplay/internal/security"
	"lingoplay/internal/service"
	"lingoplay/internal/views"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService   *service.AuthService
	csrf          *security.CSRFGenerator
	limiter       *security.RateLimiter
	defaultLocale string
	uploadMaxSize int64
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, csrf *security.CSRFGenerator, limiter *security.RateLimiter, defaultLocale string, uploadMaxSize int64) *Middleware {
	return &Middleware{
		authService:   authService,
		csrf:          csrf,
		limiter:       limiter,
		defaultLocale: defaultLocale,
		uploadMaxSize: uploadMaxSize,
	}
}

// LoadSession attaches the browser session, its API tokens and the lazy auth
// state to every request. Browsers without a valid session get a new one.
func (m *Middleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/static/") || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.sessionFromCookie(r)
		if err != nil {
			locale := views.NegotiateLocale(r.Header.Get("Accept-Language"), m.defaultLocale)
			session, err = m.authService.StartSession(locale)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to start session", err)
				return
			}
			http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
		}

		ctx := m.authService.Bind(r.Context(), session)
		ctx = queries.WithScope(ctx, session.ID)
		ctx = service.WithAuthState(ctx, m.authService.NewAuthState(session))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) sessionFromCookie(r *http.Request) (*models.ClientSession, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, service.ErrSessionNotFound
	}
	session, err := m.authService.LoadSession(cookie.Value)
	if err != nil && !errors.Is(err, service.ErrSessionNotFound) {
		log.Printf("Error loading session: %v", err)
	}
	return session, err
}

// RequireToken sends browsers without an access token to the login page
// before any data request is made
func (m *Middleware) RequireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := service.AuthStateFrom(r.Context())
		if st == nil || !st.HasToken() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// RequireRole only lets users holding one of roles through. A user that
// cannot be resolved or lacks the role is sent to the login page.
func (m *Middleware) RequireRole(roles ...models.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return m.RequireToken(func(w http.ResponseWriter, r *http.Request) {
			user, err := service.AuthStateFrom(r.Context()).User(r.Context())
			if err != nil {
				log.Printf("Role check failed: %v", err)
			}
			if err != nil || !user.HasRole(roles...) {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next(w, r)
		})
	}
}

// RequireAdmin is RequireRole for the admin role
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireRole(models.RoleAdmin)(next)
}

// CSRFProtect rejects state-changing requests without a token bound to the
// session. Multipart bodies are capped and parsed here so the token field is
// readable.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next(w, r)
			return
		}

		st := service.AuthStateFrom(r.Context())
		if st == nil {
			respondWithError(w, http.StatusForbidden, ErrInvalidCSRF, "", nil)
			return
		}

		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			r.Body = http.MaxBytesReader(w, r.Body, m.uploadMaxSize+1<<20)
			if err := r.ParseMultipartForm(m.uploadMaxSize); err != nil {
				respondWithError(w, http.StatusRequestEntityTooLarge, "File is too large", "Failed to parse upload", err)
				return
			}
		}

		if !m.csrf.ValidateRequest(r, st.Session().ID) {
			log.Printf("CSRF validation failed for %s %s", r.Method, r.URL.Path)
			respondWithError(w, http.StatusForbidden, ErrInvalidCSRF, "", nil)
			return
		}
		next(w, r)
	}
}

// RateLimit throttles a handler per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(security.GetClientIP(r)) {
			respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware tags each request with an ID and logs it
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, reqID)

		next.ServeHTTP(w, r)

		log.Printf("[%s] %s %s %s", reqID, r.Method, r.URL.Path, time.Since(start))
	})
}

// currentSession returns the browser session attached by LoadSession
func currentSession(ctx context.Context) *models.ClientSession {
	if st := service.AuthStateFrom(ctx); st != nil {
		return st.Session()
	}
	return nil
}
