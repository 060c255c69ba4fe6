package handlers

import (
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"lingoplay/internal/api"
	"lingoplay/internal/apiclient"
	"lingoplay/internal/cache"
	"lingoplay/internal/database"
	"lingoplay/internal/models"
	"lingoplay/internal/queries"
	"lingoplay/internal/repository"
	"lingoplay/internal/security"
	"lingoplay/internal/service"
	"lingoplay/internal/views"
)

const testTemplates = `
{{define "login.tmpl"}}login:{{.Email}}:{{.Error}}{{end}}
{{define "ok.tmpl"}}ok:{{.Title}}:{{.CSRFToken}}{{end}}
`

type testEnv struct {
	auth     *service.AuthService
	sessions *repository.ClientSessionRepository
	mw       *Middleware
	rd       *Renderer
	csrf     *security.CSRFGenerator
	api      *api.API
	q        *queries.Queries
	calls    *atomic.Int32
}

func writeData(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
}

func newTestEnv(t *testing.T, backend http.HandlerFunc) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping handler test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "handlers_test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	sealer, err := security.NewSealer("handler-secret")
	if err != nil {
		t.Fatalf("NewSealer() error = %v", err)
	}

	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		backend(w, r)
	}))
	t.Cleanup(server.Close)

	a := api.New(apiclient.New(server.URL, 5*time.Second))
	sessions := repository.NewClientSessionRepository(db, sealer)
	authService := service.NewAuthService(a, sessions, time.Hour)
	csrf := security.NewCSRFGenerator("handler-secret")
	tmpl := template.Must(template.New("").Funcs(views.FuncMap()).Parse(testTemplates))

	return &testEnv{
		auth:     authService,
		sessions: sessions,
		mw:       NewMiddleware(authService, csrf, security.NewRateLimiter(2, time.Minute), "en", 1<<20),
		rd:       NewRenderer(tmpl, views.NewFlasher("handler-secret", false), csrf, authService),
		csrf:     csrf,
		api:      a,
		q:        queries.New(a, cache.NewMemory(), time.Minute),
		calls:    calls,
	}
}

// newSession stores a session, signed in when access is non-empty
func (e *testEnv) newSession(t *testing.T, access string) *models.ClientSession {
	t.Helper()
	session, err := e.auth.StartSession("en")
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if access != "" {
		if err := e.sessions.UpdateTokens(session.ID, access, "refresh"); err != nil {
			t.Fatalf("UpdateTokens() error = %v", err)
		}
		session.AccessToken = access
	}
	return session
}

func withSession(r *http.Request, session *models.ClientSession) *http.Request {
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.ID})
	return r
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func TestLoadSessionStartsSession(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})

	var seen *models.ClientSession
	handler := env.mw.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = currentSession(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "vi-VN,vi;q=0.9")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen == nil {
		t.Fatal("expected a session in the request context")
	}
	if seen.Locale != "vi" {
		t.Errorf("Locale = %q, want vi", seen.Locale)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != seen.ID {
		t.Fatalf("session cookie = %v, want value %q", cookie, seen.ID)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
}

func TestLoadSessionReusesCookie(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})
	session := env.newSession(t, "access-1")

	var seen *models.ClientSession
	handler := env.mw.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = currentSession(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/", nil), session))

	if seen == nil || seen.ID != session.ID {
		t.Fatalf("session = %+v, want %s", seen, session.ID)
	}
	if seen.AccessToken != "access-1" {
		t.Errorf("AccessToken = %q, want access-1", seen.AccessToken)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("an existing session should not be re-issued")
	}
}

func TestLoadSessionSkipsStatic(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})

	handler := env.mw.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentSession(r.Context()) != nil {
			t.Error("static requests should not carry a session")
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/styles.css", nil))
	if len(rec.Result().Cookies()) != 0 {
		t.Error("static requests should not set cookies")
	}
}

func TestRequireTokenRedirectsWithoutRequest(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call %s", r.URL.Path)
	})
	session := env.newSession(t, "")

	handler := env.mw.LoadSession(env.mw.RequireToken(okHandler))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/profile", nil), session))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
	if env.calls.Load() != 0 {
		t.Errorf("backend calls = %d, want 0", env.calls.Load())
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		failMe   bool
		status   int
		location string
	}{
		{"admin passes", "admin", false, http.StatusOK, ""},
		{"learner sent to login", "user", false, http.StatusSeeOther, "/login"},
		{"unresolved user sent to login", "", true, http.StatusSeeOther, "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/users/me" {
					t.Errorf("path = %s, want /users/me", r.URL.Path)
				}
				if r.Header.Get("Authorization") != "Bearer access-1" {
					t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
				}
				if tt.failMe {
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "database down"})
					return
				}
				writeData(w, map[string]string{"id": "u1", "name": "An", "role": tt.role})
			})
			session := env.newSession(t, "access-1")

			handler := env.mw.LoadSession(env.mw.RequireAdmin(okHandler))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/admin", nil), session))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if loc := rec.Header().Get("Location"); loc != tt.location {
				t.Errorf("Location = %q, want %q", loc, tt.location)
			}
		})
	}
}

func TestRequireAdminExpiredToken(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "jwt expired"})
	})
	session := env.newSession(t, "stale")

	handler := env.mw.LoadSession(env.mw.RequireAdmin(okHandler))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/admin", nil), session))

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Errorf("got %d to %q, want redirect to /login", rec.Code, rec.Header().Get("Location"))
	}
}

func TestCSRFProtect(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})
	session := env.newSession(t, "")
	token, err := env.csrf.GenerateToken(session.ID)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name   string
		method string
		token  string
		want   int
	}{
		{"get passes", http.MethodGet, "", http.StatusOK},
		{"post without token", http.MethodPost, "", http.StatusForbidden},
		{"post with wrong token", http.MethodPost, "nope", http.StatusForbidden},
		{"post with token", http.MethodPost, token, http.StatusOK},
	}

	handler := env.mw.LoadSession(http.HandlerFunc(env.mw.CSRFProtect(okHandler)))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			if tt.token != "" {
				form.Set(security.CSRFFieldName, tt.token)
			}
			req := httptest.NewRequest(tt.method, "/locale", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, withSession(req, session))

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})
	handler := env.mw.RateLimit(okHandler)

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		rec := httptest.NewRecorder()
		handler(rec, req)
		codes[i] = rec.Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first requests = %v, want 200s", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want %d", codes[2], http.StatusTooManyRequests)
	}
}

func TestLoginRedirectsByRole(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"admin", "/admin"},
		{"user", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/login" {
					t.Errorf("path = %s, want /auth/login", r.URL.Path)
				}
				http.SetCookie(w, &http.Cookie{Name: apiclient.RefreshCookieName, Value: "refresh-1"})
				writeData(w, map[string]interface{}{
					"accessToken": "access-1",
					"user":        map[string]string{"id": "u1", "name": "An", "role": tt.role},
				})
			})
			session := env.newSession(t, "")
			h := NewAuthHandler(env.rd, env.auth, env.api, nil, "http://localhost")

			form := url.Values{"email": {"an@example.com"}, "password": {"secret123"}}
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			env.mw.LoadSession(http.HandlerFunc(h.Login)).ServeHTTP(rec, withSession(req, session))

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
			}
			if loc := rec.Header().Get("Location"); loc != tt.want {
				t.Errorf("Location = %q, want %q", loc, tt.want)
			}

			stored, err := env.auth.LoadSession(session.ID)
			if err != nil {
				t.Fatalf("LoadSession() error = %v", err)
			}
			if stored.AccessToken != "access-1" || stored.RefreshToken != "refresh-1" {
				t.Errorf("tokens = %q/%q, want access-1/refresh-1", stored.AccessToken, stored.RefreshToken)
			}
		})
	}
}

func TestLoginRejectsInvalidEmail(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call %s", r.URL.Path)
	})
	session := env.newSession(t, "")
	h := NewAuthHandler(env.rd, env.auth, env.api, nil, "http://localhost")

	form := url.Values{"email": {"not-an-email"}, "password": {"secret123"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.mw.LoadSession(http.HandlerFunc(h.Login)).ServeHTTP(rec, withSession(req, session))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := rec.Body.String(); !strings.HasPrefix(body, "login:not-an-email:") || body == "login:not-an-email:" {
		t.Errorf("body = %q, want the login page with an error", body)
	}
}

func TestPageCarriesCSRFToken(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})
	session := env.newSession(t, "")
	want, _ := env.csrf.GenerateToken(session.ID)

	handler := env.mw.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.rd.Render(w, "ok.tmpl", env.rd.Page(w, r, pageTitle("Home")))
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/", nil), session))

	if got := rec.Body.String(); got != "ok:Home - LingoPlay:"+want {
		t.Errorf("body = %q", got)
	}
}

func TestReturnPath(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/"},
		{"/lessons/l1", "/lessons/l1"},
		{"/?level=beginner", "/?level=beginner"},
		{"https://evil.example.com/", "/"},
		{"//evil.example.com", "/"},
		{"relative", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			form := url.Values{"next": {tt.next}}
			req := httptest.NewRequest(http.MethodPost, "/locale", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if got := returnPath(req); got != tt.want {
				t.Errorf("returnPath(%q) = %q, want %q", tt.next, got, tt.want)
			}
		})
	}
}

func TestPageParam(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"page=3", 3},
		{"page=0", 1},
		{"page=-2", 1},
		{"page=abc", 1},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		if got := pageParam(req); got != tt.want {
			t.Errorf("pageParam(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestQuestionFromForm(t *testing.T) {
	t.Run("choice", func(t *testing.T) {
		form := url.Values{
			"content":     {" Which one is a fruit? "},
			"option_0":    {"Apple"},
			"option_id_0": {"o1"},
			"option_1":    {""},
			"option_2":    {"Chair"},
			"correct":     {"0"},
		}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		q := questionFromForm(req, models.GameMultipleChoice)
		if q.Content != "Which one is a fruit?" {
			t.Errorf("Content = %q", q.Content)
		}
		if len(q.Options) != 2 {
			t.Fatalf("len(Options) = %d, want 2", len(q.Options))
		}
		if !q.Options[0].IsCorrect || q.Options[0].ID != "o1" {
			t.Errorf("Options[0] = %+v, want correct o1", q.Options[0])
		}
		if q.Options[1].Text != "Chair" || q.Options[1].IsCorrect {
			t.Errorf("Options[1] = %+v", q.Options[1])
		}
	})

	t.Run("arrange", func(t *testing.T) {
		form := url.Values{"sentence": {"  I   like green tea "}}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		q := questionFromForm(req, models.GameArrange)
		want := []string{"I", "like", "green", "tea"}
		if strings.Join(q.Words, "|") != strings.Join(want, "|") {
			t.Errorf("Words = %v, want %v", q.Words, want)
		}
		if q.Content != "I like green tea" {
			t.Errorf("Content = %q, want the joined sentence", q.Content)
		}
	})
}

func TestOptionSlots(t *testing.T) {
	if got := len(optionSlots(nil)); got != minOptionSlots {
		t.Errorf("len(optionSlots(nil)) = %d, want %d", got, minOptionSlots)
	}
	q := &models.Question{Options: make([]models.Option, minOptionSlots+2)}
	if got := len(optionSlots(q)); got != minOptionSlots+2 {
		t.Errorf("len(optionSlots(6 options)) = %d, want %d", got, minOptionSlots+2)
	}
}

func TestLoggingSetsRequestID(t *testing.T) {
	handler := Logging(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a generated request ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "req-42" {
		t.Errorf("request ID = %q, want req-42", got)
	}
}

func TestGoogleCallbackURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		target  string
		forward string
		want    string
	}{
		{"request host", "", "http://learn.local:8080/auth/google", "", "http://learn.local:8080/auth/google/callback"},
		{"behind tls proxy", "", "http://learn.local/auth/google", "https", "https://learn.local/auth/google/callback"},
		{"configured base", "https://lingoplay.example/", "http://internal:8080/auth/google", "", "https://lingoplay.example/auth/google/callback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &AuthHandler{google: NewGoogleConfig("client", "secret"), oauthRedirectBaseURL: tt.base}
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.forward != "" {
				req.Header.Set("X-Forwarded-Proto", tt.forward)
			}
			config, ok := h.googleFor(req)
			if !ok {
				t.Fatal("googleFor() should be enabled")
			}
			if config.RedirectURL != tt.want {
				t.Errorf("RedirectURL = %q, want %q", config.RedirectURL, tt.want)
			}
		})
	}

	if _, ok := (&AuthHandler{}).googleFor(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Error("googleFor() without credentials should be disabled")
	}
}
