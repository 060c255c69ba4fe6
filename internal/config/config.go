package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	Debug           bool
	DatabaseType    string
	DatabasePath    string
	DatabaseURL     string
	SessionSecret   string
	SessionDuration time.Duration
	UploadMaxSize   int64
	StaticFilesPath string
	TemplatesPath   string
	MigrationsPath  string

	// Remote REST backend
	APIBaseURL string
	APITimeout time.Duration

	// Query cache
	CacheBackend  string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Quiz behaviour
	GameSessionTTL      time.Duration
	ArrangeAdvanceDelay time.Duration
	GameTypeCap         int

	DefaultLocale string

	// OAuth
	OAuthRedirectBaseURL string
	GoogleClientID       string
	GoogleClientSecret   string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		Debug:           getEnvBool("DEBUG", false),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./lingoplay.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SessionSecret:   getEnv("SESSION_SECRET", "change-me-in-production"),
		SessionDuration: getEnvDuration("SESSION_DURATION", 7*24*time.Hour),
		UploadMaxSize:   int64(getEnvInt("UPLOAD_MAX_SIZE", 5*1024*1024)), // 5MB
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		TemplatesPath:   getEnv("TEMPLATES_PATH", "./internal/templates"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),

		APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3000/api"), "/"),
		APITimeout: getEnvDuration("API_TIMEOUT", 15*time.Second),

		CacheBackend:  getEnv("CACHE_BACKEND", "memory"),
		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		GameSessionTTL:      getEnvDuration("GAME_SESSION_TTL", 2*time.Hour),
		ArrangeAdvanceDelay: getEnvDuration("ARRANGE_ADVANCE_DELAY", 1500*time.Millisecond),
		GameTypeCap:         getEnvInt("GAME_TYPE_CAP", 1),

		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),

		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", ""),
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer for %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvDuration accepts Go duration strings ("90s", "2h")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
