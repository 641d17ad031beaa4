package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Addr      string // FIELDKIT_ADDR, default ":8080"
	DBPath    string // FIELDKIT_DB, default "fieldkit.db"
	AuthToken string // FIELDKIT_AUTH_TOKEN, optional
}

// Load reads configuration from the environment with sensible defaults. A
// .env file in the working directory is loaded first if present; real
// environment variables win over it.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:      envOr("FIELDKIT_ADDR", ":8080"),
		DBPath:    envOr("FIELDKIT_DB", "fieldkit.db"),
		AuthToken: os.Getenv("FIELDKIT_AUTH_TOKEN"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
