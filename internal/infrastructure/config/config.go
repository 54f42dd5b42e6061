package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BankURL      string        // static question bank document
	FetchTimeout time.Duration // bound on the bank fetch
	DBPath       string        // local store database file
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		BankURL:      getenvDefault("QUIZZINE_BANK_URL", "https://quizzine.pages.dev/questions.json"),
		FetchTimeout: getDurationDefault("QUIZZINE_FETCH_TIMEOUT", 10*time.Second),
		DBPath:       getenvDefault("QUIZZINE_DB_PATH", DefaultDBPath()),
	}
}

// DefaultDBPath places the store under the XDG data home.
func DefaultDBPath() string {
	return filepath.Join(xdgDataHome(), "quizzine", "quizzine.db")
}

func xdgDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}
