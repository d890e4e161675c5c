package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/careercoach-backend/internal/services"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"MODEL_PROVIDER", "OPENAI_API_KEY", "GEMINI_API_KEY", "MAX_UPLOAD_MB", "ACCESS_TOKEN_TTL", "DB_DRIVER", "RESUME_STORE"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(nil)
	if cfg.ModelProvider != "openai" {
		t.Fatalf("ModelProvider=%q", cfg.ModelProvider)
	}
	if cfg.DBDriver != "sqlite" || cfg.SQLitePath != "career_coach.db" {
		t.Fatalf("db defaults: %q %q", cfg.DBDriver, cfg.SQLitePath)
	}
	if cfg.ResumeStore != "local" {
		t.Fatalf("ResumeStore=%q", cfg.ResumeStore)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("MaxUploadBytes=%d", cfg.MaxUploadBytes)
	}
	if cfg.AccessTokenTTL != services.DefaultAccessTTL {
		t.Fatalf("AccessTokenTTL=%s", cfg.AccessTokenTTL)
	}
	if cfg.BulkSelectThreshold != services.DefaultSelectThreshold {
		t.Fatalf("BulkSelectThreshold=%d", cfg.BulkSelectThreshold)
	}
}

func TestLoadConfigPicksGeminiWhenOnlyItsKeyIsSet(t *testing.T) {
	t.Setenv("MODEL_PROVIDER", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "g-key")
	if got := LoadConfig(nil).ModelProvider; got != "gemini" {
		t.Fatalf("ModelProvider=%q want gemini", got)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "600")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("MODEL_RETRY_BACKOFF_MS", "10")
	cfg := LoadConfig(nil)
	if cfg.AccessTokenTTL != 10*time.Minute {
		t.Fatalf("AccessTokenTTL=%s", cfg.AccessTokenTTL)
	}
	if cfg.MaxUploadBytes != 2<<20 {
		t.Fatalf("MaxUploadBytes=%d", cfg.MaxUploadBytes)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("CORSOrigins=%v", cfg.CORSOrigins)
	}
	if cfg.ModelRetryBackoff != 10*time.Millisecond {
		t.Fatalf("ModelRetryBackoff=%s", cfg.ModelRetryBackoff)
	}
}

func TestPostgresDSNFromParts(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("POSTGRES_USER", "coach")
	t.Setenv("POSTGRES_PASSWORD", "p@ss")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_NAME", "careers")
	dsn := postgresDSN()
	if !strings.HasPrefix(dsn, "postgres://coach:p%40ss@db:5433/careers?") {
		t.Fatalf("dsn=%q", dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Fatalf("dsn=%q", dsn)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("COACH_TEST_FROM_FILE=yes\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", path)
	t.Setenv("COACH_TEST_FROM_FILE", "")
	os.Unsetenv("COACH_TEST_FROM_FILE")
	if err := LoadEnvFile(); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("COACH_TEST_FROM_FILE"); got != "yes" {
		t.Fatalf("COACH_TEST_FROM_FILE=%q", got)
	}

	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	if err := LoadEnvFile(); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}
}

func TestResolveResumeStoreRejectsUnknownMode(t *testing.T) {
	_, err := resolveResumeStore(t.Context(), nil, Config{ResumeStore: "ftp"})
	var be *BootstrapError
	if err == nil || !errors.As(err, &be) || be.Mode != "ftp" {
		t.Fatalf("err=%v", err)
	}
}
