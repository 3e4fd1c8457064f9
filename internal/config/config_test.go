package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q", cfg.GinMode)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Errorf("APIBasePath = %q", cfg.APIBasePath)
	}
	if cfg.DBPath != "homefix.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.MaxChatRunes != 2000 {
		t.Errorf("MaxChatRunes = %d", cfg.MaxChatRunes)
	}
	if cfg.Calls.RingDelay != 1*time.Second || cfg.Calls.ConnectDelay != 3*time.Second {
		t.Errorf("call delays = %+v", cfg.Calls)
	}
	if cfg.Calls.EndClear != 2*time.Second || cfg.Calls.RejectClear != 1*time.Second {
		t.Errorf("clear windows = %+v", cfg.Calls)
	}
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Errorf("rate limits = %v / %d", cfg.RateRPS, cfg.RateBurst)
	}
	if cfg.OTEL.Enabled {
		t.Errorf("OTEL should default to disabled")
	}
	if cfg.OTEL.ServiceName != "go-homefix-backend" {
		t.Errorf("OTEL.ServiceName = %q", cfg.OTEL.ServiceName)
	}
	if len(cfg.CORS.AllowedOrigins) != 0 {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "WARNING") // normalized to warn
	t.Setenv("GIN_MODE", "weird")    // coerced to release
	t.Setenv("API_BASE_PATH", "api/v2/")
	t.Setenv("MAX_CHAT_RUNES", "500")
	t.Setenv("CALL_RING_DELAY", "100ms")
	t.Setenv("CALL_CONNECT_DELAY", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , https://b.example ,")
	t.Setenv("RATE_RPS", "2.5")
	t.Setenv("OTEL_ENABLED", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q", cfg.GinMode)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Errorf("APIBasePath = %q (leading slash added, trailing stripped)", cfg.APIBasePath)
	}
	if cfg.MaxChatRunes != 500 {
		t.Errorf("MaxChatRunes = %d", cfg.MaxChatRunes)
	}
	if cfg.Calls.RingDelay != 100*time.Millisecond || cfg.Calls.ConnectDelay != 250*time.Millisecond {
		t.Errorf("call delays = %+v", cfg.Calls)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[0] != "https://a.example" {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.RateRPS != 2.5 {
		t.Errorf("RateRPS = %v", cfg.RateRPS)
	}
	if !cfg.OTEL.Enabled {
		t.Errorf("OTEL_ENABLED=yes should enable")
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		k, v string
		want string
	}{
		{"bad log level", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"zero chat runes", "MAX_CHAT_RUNES", "0", "MAX_CHAT_RUNES"},
		{"negative rps", "RATE_RPS", "-1", "RATE_RPS"},
		{"zero burst", "RATE_BURST", "0", "RATE_BURST"},
		{"sampler out of range", "OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
		{"negative ring delay", "CALL_RING_DELAY", "-1s", "call delays"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.k, tc.v)
			_, err := Load()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoad_ConnectMustExceedRing(t *testing.T) {
	t.Setenv("CALL_RING_DELAY", "3s")
	t.Setenv("CALL_CONNECT_DELAY", "3s")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "CALL_CONNECT_DELAY") {
		t.Fatalf("expected connect-delay validation error, got %v", err)
	}
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":         "/",
		"/":        "/",
		"api":      "/api",
		"/api/":    "/api",
		"/api/v1/": "/api/v1",
		"  /x  ":   "/x",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Errorf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHelpers(t *testing.T) {
	t.Setenv("X_STR", "")
	if got := getenv("X_STR", "def"); got != "def" {
		t.Errorf("empty env should fall back, got %q", got)
	}

	t.Setenv("X_INT", "not-a-number")
	if got := getint("X_INT", 7); got != 7 {
		t.Errorf("bad int should fall back, got %d", got)
	}

	t.Setenv("X_BOOL", "ON")
	if !getbool("X_BOOL", false) {
		t.Errorf("ON should parse as true")
	}
	t.Setenv("X_BOOL", "maybe")
	if getbool("X_BOOL", false) {
		t.Errorf("unparseable bool should fall back")
	}

	t.Setenv("X_DUR", "1h30m")
	if got := getdur("X_DUR", time.Second); got != 90*time.Minute {
		t.Errorf("getdur = %v", got)
	}

	if got := splitCSV(" , , "); got != nil && len(got) != 0 {
		t.Errorf("splitCSV of blanks = %v", got)
	}
}
