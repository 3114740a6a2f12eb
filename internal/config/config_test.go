package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "6123" {
		t.Errorf("port = %s", cfg.ServerPort)
	}
	if cfg.UpstreamBaseURL != "https://www.nseindia.com/" {
		t.Errorf("base url = %s", cfg.UpstreamBaseURL)
	}
	if cfg.UpstreamTimeout != 6*time.Second {
		t.Errorf("timeout = %s", cfg.UpstreamTimeout)
	}
	if cfg.MaxAttempts != 4 {
		t.Errorf("max attempts = %d", cfg.MaxAttempts)
	}
	if len(cfg.CorsAllowOrigins) != 1 || cfg.CorsAllowOrigins[0] != "*" {
		t.Errorf("cors = %v", cfg.CorsAllowOrigins)
	}
	if cfg.PostgresEnabled() || cfg.RedisEnabled() {
		t.Error("stores should be disabled by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MB_NSE_SERVER_PORT", "8080")
	t.Setenv("MB_NSE_UPSTREAM_BASE_URL", "http://localhost:9000")
	t.Setenv("MB_NSE_UPSTREAM_TIMEOUT", "1500ms")
	t.Setenv("MB_NSE_MAX_ATTEMPTS", "2")
	t.Setenv("MB_NSE_CORS_ALLOW_ORIGINS", "http://localhost:5173, https://app.example ,")
	t.Setenv("MB_NSE_REDIS_HOST", "redis")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "8080" || cfg.MaxAttempts != 2 || cfg.UpstreamTimeout != 1500*time.Millisecond {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.UpstreamBaseURL != "http://localhost:9000/" {
		t.Errorf("base url = %s", cfg.UpstreamBaseURL)
	}
	if got := strings.Join(cfg.CorsAllowOrigins, "|"); got != "http://localhost:5173|https://app.example" {
		t.Errorf("cors = %s", got)
	}
	if !cfg.RedisEnabled() {
		t.Error("redis should be enabled")
	}
}

func TestLoadFromFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	data := []byte("server_port: \"7000\"\nmax_attempts: 3\nupstream_timeout: 2s\ncors_allow_origins:\n  - http://a.example\n  - http://b.example\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigFileEnv, path)
	t.Setenv("MB_NSE_MAX_ATTEMPTS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "7000" {
		t.Errorf("port = %s", cfg.ServerPort)
	}
	if cfg.MaxAttempts != 5 {
		t.Errorf("env should override file, max attempts = %d", cfg.MaxAttempts)
	}
	if cfg.UpstreamTimeout != 2*time.Second {
		t.Errorf("timeout = %s", cfg.UpstreamTimeout)
	}
	if len(cfg.CorsAllowOrigins) != 2 {
		t.Errorf("cors = %v", cfg.CorsAllowOrigins)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"MB_NSE_MAX_ATTEMPTS":     "zero",
		"MB_NSE_UPSTREAM_TIMEOUT": "soon",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", key, value)
			}
		})
	}

	t.Run("attempt bound", func(t *testing.T) {
		t.Setenv("MB_NSE_MAX_ATTEMPTS", "0")
		if _, err := Load(); err == nil {
			t.Error("expected error for zero attempts")
		}
	})
}

func TestStringMasksSecrets(t *testing.T) {
	cfg := &Config{PostgresDsn: "host=db user=gw password=hunter2", RedisPassword: "s3cret", ServerPort: "6123"}
	out := cfg.String()
	if strings.Contains(out, "hunter2") || strings.Contains(out, "s3cret") {
		t.Errorf("secrets leaked:\n%s", out)
	}
	if !strings.Contains(out, "ServerPort:  6123") {
		t.Errorf("port missing:\n%s", out)
	}
}
