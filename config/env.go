package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	// A missing .env is fine, env vars can be set by other means
	_ = godotenv.Load()
	log.Println("Environment variables loaded (if .env present)")
}

// GetEnv returns the env var or def when it is unset or empty.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
