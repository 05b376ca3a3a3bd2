// Package config provides application configuration loaded from environment
// variables (optionally seeded from a .env file) with defaults and
// validation. Every setting has a default, so the tool runs with an empty
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/tbourn/cadastro-clientes/internal/sysutil"
)

// EnvFileVar names the variable that overrides the .env file location.
const EnvFileVar = "CADASTRO_ENV_FILE"

// ReportConfig defines where and how the PDF report is written.
type ReportConfig struct {
	Path         string // REPORT_PATH
	Title        string // REPORT_TITLE
	LinesPerPage int    // REPORT_LINES_PER_PAGE (>= 1)
}

// Config holds all configuration values for the application.
type Config struct {
	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // console logs instead of JSON

	// Storage
	DBPath string // SQLite path

	// Report
	Report ReportConfig

	// Metrics
	MetricsTextfile string // Prometheus textfile written on shutdown; "" disables
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the optional .env file, then environment variables,
// applies defaults, normalizes values, and validates the result.
// Variables already set in the environment win over the .env file.
func Load() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		// Logging
		LogLevel:  strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "warn"))),
		LogPretty: getbool("LOG_PRETTY", true),

		// Storage
		DBPath: getenv("DB_PATH", "clients.db"),

		// Report
		Report: ReportConfig{
			Path:         getenv("REPORT_PATH", "relatorio_clientes.pdf"),
			Title:        getenv("REPORT_TITLE", "Relatório de Clientes"),
			LinesPerPage: getint("REPORT_LINES_PER_PAGE", 36),
		},

		// Metrics
		MetricsTextfile: strings.TrimSpace(getenv("METRICS_TEXTFILE", "")),
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	cfg.Report.Title = strings.TrimSpace(cfg.Report.Title)

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.Report.Path) == "" {
		return cfg, errors.New("REPORT_PATH must not be empty")
	}
	if cfg.Report.LinesPerPage < 1 {
		return cfg, errors.New("REPORT_LINES_PER_PAGE must be >= 1")
	}

	return cfg, nil
}

// loadEnvFile loads CADASTRO_ENV_FILE, or ./.env when unset. A missing
// default file is fine; a missing explicit file is an error.
func loadEnvFile() error {
	explicit := strings.TrimSpace(os.Getenv(EnvFileVar))
	path := sysutil.FirstNonEmpty(explicit, ".env")
	if _, err := os.Stat(path); err != nil {
		if explicit == "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%s: %w", EnvFileVar, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if sysutil.IsTruthy(v) {
			return true
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}
