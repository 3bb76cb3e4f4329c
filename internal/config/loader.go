package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read by Load when present.
const DefaultEnvFile = ".env"

// Config captures environment driven configuration values for the barbershop service.
type Config struct {
	HTTPPort               int
	SQLiteDSN              string
	LogLevel               slog.Level
	SeedDemoData           bool
	DraftTTL               time.Duration
	GeminiAPIKey           string
	GeminiModel            string
	AnalyticsRatePerMinute int
}

// AnalyticsEnabled reports whether a Gemini key was configured.
func (c Config) AnalyticsEnabled() bool {
	return c.GeminiAPIKey != ""
}

// Load reads DefaultEnvFile, if any, and parses the process environment.
func Load() (Config, error) {
	return LoadWithEnvFile(DefaultEnvFile)
}

// LoadWithEnvFile loads variables from path without overriding variables that
// are already set, then parses the environment. A missing file is ignored.
//
// Optional fields fall back to defaults; every malformed value is reported in
// a single error.
func LoadWithEnvFile(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("falha ao ler %s: %w", path, err)
		}
	}

	cfg := Config{
		HTTPPort:               8080,
		SQLiteDSN:              ":memory:",
		LogLevel:               slog.LevelInfo,
		SeedDemoData:           true,
		DraftTTL:               2 * time.Hour,
		GeminiModel:            "gemini-1.5-flash",
		AnalyticsRatePerMinute: 10,
	}

	invalid := make([]string, 0, 4)

	if portValue := lookup("BARBERSHOP_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "BARBERSHOP_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := lookup("BARBERSHOP_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if levelValue := lookup("BARBERSHOP_LOG_LEVEL"); levelValue != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(levelValue)); err != nil {
			invalid = append(invalid, "BARBERSHOP_LOG_LEVEL")
		}
	}

	if seedValue := lookup("BARBERSHOP_SEED_DEMO_DATA"); seedValue != "" {
		seed, err := strconv.ParseBool(seedValue)
		if err != nil {
			invalid = append(invalid, "BARBERSHOP_SEED_DEMO_DATA")
		} else {
			cfg.SeedDemoData = seed
		}
	}

	if ttlValue := lookup("BARBERSHOP_DRAFT_TTL"); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "BARBERSHOP_DRAFT_TTL")
		} else {
			cfg.DraftTTL = ttl
		}
	}

	cfg.GeminiAPIKey = lookup("BARBERSHOP_GEMINI_API_KEY")
	if model := lookup("BARBERSHOP_GEMINI_MODEL"); model != "" {
		cfg.GeminiModel = model
	}

	if rateValue := lookup("BARBERSHOP_ANALYTICS_RATE_PER_MINUTE"); rateValue != "" {
		perMinute, err := strconv.Atoi(rateValue)
		if err != nil || perMinute < 0 {
			invalid = append(invalid, "BARBERSHOP_ANALYTICS_RATE_PER_MINUTE")
		} else {
			cfg.AnalyticsRatePerMinute = perMinute
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("valores inválidos nas variáveis de ambiente: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
