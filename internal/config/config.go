// Package config loads service configuration from the environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Store backends selectable via STORE_BACKEND.
const (
	BackendMemory    = "memory"
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// Config is everything main needs to wire the server.
type Config struct {
	Port               string
	StoreBackend       string
	SQLitePath         string
	GoogleCloudProject string
}

// Load reads configuration from the environment, after loading a local
// .env file if one exists. Defaults favor local development.
func Load() Config {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	return Config{
		Port:               getenv("PORT", "8111"),
		StoreBackend:       getenv("STORE_BACKEND", BackendSQLite),
		SQLitePath:         getenv("SQLITE_PATH", "data/finsight.db"),
		GoogleCloudProject: os.Getenv("GOOGLE_CLOUD_PROJECT"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
