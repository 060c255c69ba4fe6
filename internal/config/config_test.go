package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("GAME_TYPE_CAP", "")
	t.Setenv("ARRANGE_ADVANCE_DELAY", "")

	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %v, want %v", cfg.ServerPort, "8080")
	}
	if cfg.APIBaseURL != "http://localhost:3000/api" {
		t.Errorf("APIBaseURL = %v, want %v", cfg.APIBaseURL, "http://localhost:3000/api")
	}
	if cfg.GameTypeCap != 1 {
		t.Errorf("GameTypeCap = %v, want %v", cfg.GameTypeCap, 1)
	}
	if cfg.ArrangeAdvanceDelay != 1500*time.Millisecond {
		t.Errorf("ArrangeAdvanceDelay = %v, want %v", cfg.ArrangeAdvanceDelay, 1500*time.Millisecond)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/v1/")
	t.Setenv("GAME_TYPE_CAP", "3")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("DEBUG", "true")

	cfg := Load()

	if cfg.APIBaseURL != "https://api.example.com/v1" {
		t.Errorf("APIBaseURL = %v, want trailing slash trimmed", cfg.APIBaseURL)
	}
	if cfg.GameTypeCap != 3 {
		t.Errorf("GameTypeCap = %v, want %v", cfg.GameTypeCap, 3)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v, want %v", cfg.CacheTTL, 30*time.Second)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name string
		key  string
		got  func(*Config) interface{}
		want interface{}
	}{
		{"bad int", "REDIS_DB", func(c *Config) interface{} { return c.RedisDB }, 0},
		{"bad duration", "API_TIMEOUT", func(c *Config) interface{} { return c.APITimeout }, 15 * time.Second},
		{"bad bool", "DEBUG", func(c *Config) interface{} { return c.Debug }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, "not-a-value")
			cfg := Load()
			if got := tt.got(cfg); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}
