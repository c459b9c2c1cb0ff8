package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// DATABASE_URL takes precedence over the discrete DB_* settings when set
	// (hosted Postgres convenience). DIRECT_URL, when set, is used for
	// migrations to bypass a connection pooler.
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	// JWTSecret signs bearer tokens issued at login. Required outside dev.
	JWTSecret string

	// UploadDir is where reference documents are stored on disk.
	UploadDir string

	// MaxUploadBytes caps reference document uploads.
	MaxUploadBytes int64

	// DashboardAllowedOrigins is a comma-separated allowlist of origins
	// allowed to call the API from the browser dashboard. Example:
	//   https://dashboard.yourapp.com,http://localhost:5173
	DashboardAllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "workorders"),
			User:     env("DB_USER", "workorders"),
			Password: env("DB_PASSWORD", "workorders"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},

		JWTSecret:      env("JWT_SECRET", "dev-only-secret"),
		UploadDir:      env("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10<<20),

		DashboardAllowedOrigins: envList("DASHBOARD_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:4173"),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
