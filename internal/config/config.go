package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds runtime settings loaded from the environment.
type Config struct {
	Port                 string
	DatabaseURL          string
	JWTSecret            string
	JWTExpirationHours   int
	ChequeDeletePassword string
	UpcomingChequeDays   int
	AdminEmail           string
	AdminPassword        string
}

// Load reads .env (when present) and assembles the configuration.
// DATABASE_URL and JWT_SECRET are required.
func Load() Config {
	// Missing .env is fine in production; real env vars take over.
	_ = godotenv.Load()

	cfg := Config{
		Port:                 getenv("APP_PORT", "8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		JWTExpirationHours:   getenvInt("JWT_EXPIRATION_HOURS", 24),
		ChequeDeletePassword: os.Getenv("CHEQUE_DELETE_PASSWORD"),
		UpcomingChequeDays:   getenvInt("UPCOMING_CHEQUE_DAYS", 7),
		AdminEmail:           getenv("ADMIN_EMAIL", "admin@local"),
		AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
