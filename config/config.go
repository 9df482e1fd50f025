package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the runtime settings for the server and the CLI.
type Config struct {
	Port         string
	SaveDir      string
	NominatimURL string
	UserAgent    string
	HTTPTimeout  time.Duration
}

// Load reads an optional .env file and then the environment. Every setting
// has a working default.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:         envOr("PORT", "8080"),
		SaveDir:      envOr("SAVE_DIR", "saved_boundaries"),
		NominatimURL: envOr("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		UserAgent:    envOr("GEOCODER_USER_AGENT", "go-boundary-editor/1.0"),
		HTTPTimeout:  10 * time.Second,
	}
	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTPTimeout = d
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
