package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var allKeys = []string{
	"BARBERSHOP_HTTP_PORT",
	"BARBERSHOP_SQLITE_DSN",
	"BARBERSHOP_LOG_LEVEL",
	"BARBERSHOP_SEED_DEMO_DATA",
	"BARBERSHOP_DRAFT_TTL",
	"BARBERSHOP_GEMINI_API_KEY",
	"BARBERSHOP_GEMINI_MODEL",
	"BARBERSHOP_ANALYTICS_RATE_PER_MINUTE",
}

// clearEnv blanks every variable for the duration of the test. Blank values
// count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {
	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)

		cfg, err := LoadWithEnvFile("")
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != ":memory:" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.LogLevel != slog.LevelInfo || !cfg.SeedDemoData || cfg.DraftTTL != 2*time.Hour {
			t.Fatalf("unexpected defaults: %+v", cfg)
		}
		if cfg.AnalyticsEnabled() {
			t.Fatalf("expected analytics to be disabled without a key")
		}
		if cfg.GeminiModel != "gemini-1.5-flash" || cfg.AnalyticsRatePerMinute != 10 {
			t.Fatalf("unexpected analytics defaults: %+v", cfg)
		}
	})

	t.Run("parses every field", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BARBERSHOP_HTTP_PORT", "9090")
		t.Setenv("BARBERSHOP_SQLITE_DSN", "file:/tmp/barbershop.db")
		t.Setenv("BARBERSHOP_LOG_LEVEL", "debug")
		t.Setenv("BARBERSHOP_SEED_DEMO_DATA", "false")
		t.Setenv("BARBERSHOP_DRAFT_TTL", "15m")
		t.Setenv("BARBERSHOP_GEMINI_API_KEY", "key")
		t.Setenv("BARBERSHOP_GEMINI_MODEL", "gemini-1.5-pro")
		t.Setenv("BARBERSHOP_ANALYTICS_RATE_PER_MINUTE", "0")

		cfg, err := LoadWithEnvFile("")
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 || cfg.SQLiteDSN != "file:/tmp/barbershop.db" {
			t.Fatalf("unexpected transport config: %+v", cfg)
		}
		if cfg.LogLevel != slog.LevelDebug || cfg.SeedDemoData || cfg.DraftTTL != 15*time.Minute {
			t.Fatalf("unexpected parsed values: %+v", cfg)
		}
		if !cfg.AnalyticsEnabled() || cfg.GeminiModel != "gemini-1.5-pro" || cfg.AnalyticsRatePerMinute != 0 {
			t.Fatalf("unexpected analytics config: %+v", cfg)
		}
	})

	t.Run("reports every invalid value", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BARBERSHOP_HTTP_PORT", "abc")
		t.Setenv("BARBERSHOP_DRAFT_TTL", "-1h")
		t.Setenv("BARBERSHOP_SEED_DEMO_DATA", "maybe")

		_, err := LoadWithEnvFile("")
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "valores inválidos nas variáveis de ambiente: BARBERSHOP_HTTP_PORT, BARBERSHOP_SEED_DEMO_DATA, BARBERSHOP_DRAFT_TTL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}

func TestLoader_EnvFile(t *testing.T) {
	t.Run("ignores a missing file", func(t *testing.T) {
		clearEnv(t)
		if _, err := LoadWithEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
			t.Fatalf("expected missing file to be ignored, got %v", err)
		}
	})

	t.Run("fills unset variables from the file", func(t *testing.T) {
		clearEnv(t)
		os.Unsetenv("BARBERSHOP_HTTP_PORT")
		os.Unsetenv("BARBERSHOP_GEMINI_MODEL")
		t.Setenv("BARBERSHOP_LOG_LEVEL", "warn")

		path := filepath.Join(t.TempDir(), ".env")
		content := "BARBERSHOP_HTTP_PORT=7070\nBARBERSHOP_LOG_LEVEL=error\nBARBERSHOP_GEMINI_MODEL=gemini-test\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write env file: %v", err)
		}
		t.Cleanup(func() {
			os.Unsetenv("BARBERSHOP_HTTP_PORT")
			os.Unsetenv("BARBERSHOP_GEMINI_MODEL")
		})

		cfg, err := LoadWithEnvFile(path)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 7070 || cfg.GeminiModel != "gemini-test" {
			t.Fatalf("expected values from file, got %+v", cfg)
		}
		if cfg.LogLevel != slog.LevelWarn {
			t.Fatalf("expected process environment to win, got %v", cfg.LogLevel)
		}
	})
}
