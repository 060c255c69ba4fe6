package main

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"lingoplay/internal/api"
	"lingoplay/internal/apiclient"
	"lingoplay/internal/cache"
	"lingoplay/internal/config"
	"lingoplay/internal/database"
	"lingoplay/internal/game"
	"lingoplay/internal/handlers"
	"lingoplay/internal/importer"
	"lingoplay/internal/metrics"
	"lingoplay/internal/queries"
	"lingoplay/internal/repository"
	"lingoplay/internal/security"
	"lingoplay/internal/service"
	"lingoplay/internal/views"
)

const (
	loginBurst   = 10
	loginWindow  = time.Minute
	draftTTL     = 2 * time.Hour
	cleanupEvery = 1 * time.Hour
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	log.Println("Templates loaded successfully")

	// Repositories
	sealer, err := security.NewSealer(cfg.SessionSecret)
	if err != nil {
		log.Fatalf("Failed to initialize token sealer: %v", err)
	}
	sessionRepo := repository.NewClientSessionRepository(db, sealer)
	settingsRepo := repository.NewSettingsRepository(db)

	// Remote API and query cache
	client := apiclient.New(cfg.APIBaseURL, cfg.APITimeout)
	client.Debug = cfg.Debug
	backend := api.New(client)

	queryCache, closeCache := newCache(cfg)
	defer closeCache()
	q := queries.New(backend, queryCache, cfg.CacheTTL)

	// Services
	authService := service.NewAuthService(backend, sessionRepo, cfg.SessionDuration)
	games := game.NewStore(cfg.GameSessionTTL)
	imports := importer.New(backend, q, importer.NewStore(draftTTL), cfg.UploadMaxSize)

	secure := !cfg.Debug
	flasher := views.NewFlasher(cfg.SessionSecret, secure)
	csrf := security.NewCSRFGenerator(cfg.SessionSecret)
	limiter := security.NewRateLimiter(loginBurst, loginWindow)

	// Handlers
	rd := handlers.NewRenderer(templates, flasher, csrf, authService)
	middleware := handlers.NewMiddleware(authService, csrf, limiter, cfg.DefaultLocale, cfg.UploadMaxSize)
	google := handlers.NewGoogleConfig(cfg.GoogleClientID, cfg.GoogleClientSecret)
	authHandler := handlers.NewAuthHandler(rd, authService, backend, google, cfg.OAuthRedirectBaseURL)
	homeHandler := handlers.NewHomeHandler(rd, authService, q)
	profileHandler := handlers.NewProfileHandler(rd, authService, backend, q)
	lessonHandler := handlers.NewLessonHandler(rd, q)
	quizHandler := handlers.NewQuizHandler(rd, q, games, cfg.ArrangeAdvanceDelay)
	adminHandler := handlers.NewAdminHandler(rd, q, settingsRepo, cfg.GameTypeCap)
	contentHandler := handlers.NewContentHandler(rd, q)
	importHandler := handlers.NewImportHandler(rd, imports, q, settingsRepo, cfg.GameTypeCap, cfg.UploadMaxSize)

	auth := middleware.RequireToken
	admin := middleware.RequireAdmin
	csrfProtect := middleware.CSRFProtect

	mux := http.NewServeMux()

	// Static files and metrics
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))
	mux.Handle("GET /metrics", metrics.Handler())

	// Public routes
	mux.HandleFunc("GET /login", authHandler.ShowLogin)
	mux.HandleFunc("POST /login", middleware.RateLimit(csrfProtect(authHandler.Login)))
	mux.HandleFunc("GET /signup", authHandler.ShowSignup)
	mux.HandleFunc("POST /signup", middleware.RateLimit(csrfProtect(authHandler.Signup)))
	mux.HandleFunc("POST /logout", csrfProtect(authHandler.Logout))
	mux.HandleFunc("GET /forgot-password", authHandler.ShowForgotPassword)
	mux.HandleFunc("POST /forgot-password", middleware.RateLimit(csrfProtect(authHandler.ForgotPassword)))
	mux.HandleFunc("GET /verify-otp", authHandler.ShowVerifyOTP)
	mux.HandleFunc("POST /verify-otp", middleware.RateLimit(csrfProtect(authHandler.VerifyOTP)))
	mux.HandleFunc("GET /reset-password", authHandler.ShowResetPassword)
	mux.HandleFunc("POST /reset-password", middleware.RateLimit(csrfProtect(authHandler.ResetPassword)))
	mux.HandleFunc("GET /auth/google/start", authHandler.StartGoogle)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)
	mux.HandleFunc("POST /locale", csrfProtect(homeHandler.SetLocale))

	// Learner routes
	mux.HandleFunc("GET /{$}", auth(homeHandler.Home))
	mux.HandleFunc("POST /checkin", auth(csrfProtect(homeHandler.CheckIn)))
	mux.HandleFunc("POST /checkin/skip", auth(csrfProtect(homeHandler.SkipCheckIn)))
	mux.HandleFunc("GET /profile", auth(profileHandler.ShowProfile))
	mux.HandleFunc("POST /profile", auth(csrfProtect(profileHandler.UpdateProfile)))
	mux.HandleFunc("POST /profile/password", auth(csrfProtect(profileHandler.ChangePassword)))
	mux.HandleFunc("GET /lessons/{id}", auth(lessonHandler.ShowLesson))
	mux.HandleFunc("GET /lessons/{id}/video", auth(lessonHandler.ShowVideo))
	mux.HandleFunc("GET /lessons/{id}/games", auth(lessonHandler.ShowGames))
	mux.HandleFunc("GET /games/{mode}/{gameName}/{lessonId}", auth(quizHandler.ShowQuiz))
	mux.HandleFunc("POST /games/{mode}/{gameName}/{lessonId}/{action}", auth(csrfProtect(quizHandler.QuizAction)))

	// Admin routes
	mux.HandleFunc("GET /admin", admin(adminHandler.ShowDashboard))
	mux.HandleFunc("POST /admin/settings/caps", admin(csrfProtect(adminHandler.UpdateCaps)))

	mux.HandleFunc("GET /admin/lessons", admin(adminHandler.ShowLessons))
	mux.HandleFunc("POST /admin/lessons", admin(csrfProtect(adminHandler.SaveLesson)))
	mux.HandleFunc("POST /admin/lessons/{id}", admin(csrfProtect(adminHandler.SaveLesson)))
	mux.HandleFunc("POST /admin/lessons/{id}/delete", admin(csrfProtect(adminHandler.DeleteLesson)))

	mux.HandleFunc("GET /admin/users", admin(adminHandler.ShowUsers))
	mux.HandleFunc("POST /admin/users", admin(csrfProtect(adminHandler.SaveUser)))
	mux.HandleFunc("POST /admin/users/{id}", admin(csrfProtect(adminHandler.SaveUser)))
	mux.HandleFunc("POST /admin/users/{id}/delete", admin(csrfProtect(adminHandler.DeleteUser)))

	mux.HandleFunc("GET /admin/topics", admin(adminHandler.ShowTopics))
	mux.HandleFunc("POST /admin/topics", admin(csrfProtect(adminHandler.SaveTopic)))
	mux.HandleFunc("POST /admin/topics/{id}", admin(csrfProtect(adminHandler.SaveTopic)))
	mux.HandleFunc("POST /admin/topics/{id}/delete", admin(csrfProtect(adminHandler.DeleteTopic)))

	mux.HandleFunc("GET /admin/vocabularies", admin(contentHandler.ShowVocabularies))
	mux.HandleFunc("POST /admin/vocabularies", admin(csrfProtect(contentHandler.SaveVocabulary)))
	mux.HandleFunc("POST /admin/vocabularies/{id}", admin(csrfProtect(contentHandler.SaveVocabulary)))
	mux.HandleFunc("POST /admin/vocabularies/{id}/delete", admin(csrfProtect(contentHandler.DeleteVocabulary)))

	mux.HandleFunc("GET /admin/games", admin(contentHandler.ShowQuestions))
	mux.HandleFunc("POST /admin/questions/{mode}", admin(csrfProtect(contentHandler.SaveQuestion)))
	mux.HandleFunc("POST /admin/questions/{mode}/{id}", admin(csrfProtect(contentHandler.SaveQuestion)))
	mux.HandleFunc("POST /admin/questions/{mode}/{id}/delete", admin(csrfProtect(contentHandler.DeleteQuestion)))

	// Spreadsheet imports
	mux.HandleFunc("GET /admin/vocabularies/template.xlsx", admin(importHandler.Template))
	for _, base := range []string{"/admin/games/import/{mode}", "/admin/vocabularies/import"} {
		mux.HandleFunc("GET "+base, admin(importHandler.ShowImport))
		mux.HandleFunc("GET "+base+"/template.xlsx", admin(importHandler.Template))
		mux.HandleFunc("POST "+base, admin(csrfProtect(importHandler.Upload)))
		mux.HandleFunc("POST "+base+"/rows/{row}", admin(csrfProtect(importHandler.EditRow)))
		mux.HandleFunc("POST "+base+"/rows/{row}/delete", admin(csrfProtect(importHandler.RemoveRow)))
		mux.HandleFunc("POST "+base+"/commit", admin(csrfProtect(importHandler.Commit)))
		mux.HandleFunc("POST "+base+"/discard", admin(csrfProtect(importHandler.Discard)))
	}

	handler := handlers.Logging(middleware.LoadSession(mux))

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan struct{})
	go runCleanup(stop, authService, limiter, games, imports.Drafts(), queryCache)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

// newCache returns the query cache selected by CACHE_BACKEND. Redis falls back
// to memory when it cannot be reached at startup.
func newCache(cfg *config.Config) (cache.Cache, func()) {
	if cfg.CacheBackend == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err == nil {
			log.Printf("Query cache: redis at %s", cfg.RedisAddr)
			return r, func() {
				if err := r.Close(); err != nil {
					log.Printf("Error closing redis: %v", err)
				}
			}
		}
		log.Printf("Warning: redis unavailable, using in-memory cache: %v", err)
	}
	log.Println("Query cache: in-memory")
	return cache.NewMemory(), func() {}
}

// loadTemplates loads all template files
func loadTemplates(templatesPath string) (*template.Template, error) {
	baseTemplate := filepath.Join(templatesPath, "base.tmpl")

	patterns := []string{
		filepath.Join(templatesPath, "auth/*.tmpl"),
		filepath.Join(templatesPath, "learner/*.tmpl"),
		filepath.Join(templatesPath, "admin/*.tmpl"),
		filepath.Join(templatesPath, "components/*.tmpl"),
	}

	var files []string
	files = append(files, baseTemplate)

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}

	tmpl, err := template.New("").Funcs(views.FuncMap()).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return tmpl, nil
}

// runCleanup periodically drops expired sessions, idle games, stale drafts
// and expired cache entries
func runCleanup(stop <-chan struct{}, authService *service.AuthService, limiter *security.RateLimiter, games *game.Store, drafts *importer.Store, queryCache cache.Cache) {
	ticker := time.NewTicker(cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			if err := authService.CleanupExpiredSessions(); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			} else {
				log.Println("Expired client sessions cleaned up")
			}

			limiter.Cleanup(now)
			games.Cleanup()
			drafts.Cleanup()

			if mem, ok := queryCache.(*cache.Memory); ok {
				removed := mem.Cleanup()
				log.Printf("Query cache: removed %d expired entries, %d remain", removed, mem.Len())
			}
		}
	}
}
