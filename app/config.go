package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPlacesURL is where the places backend listens in local development.
const DefaultPlacesURL = "http://localhost:8070/api/places"

// Config holds the process settings read from the environment.
type Config struct {
	Env           string
	Address       string
	PlacesURL     string
	PlacesTimeout time.Duration
	SessionTTL    time.Duration
	MaxSessions   int
}

// LoadConfig reads an optional .env file and then the environment.
// A missing .env file is not an error.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:           getEnv("LOCALSCOPE_ENV", "dev"),
		Address:       getEnv("LOCALSCOPE_ADDRESS", ":8080"),
		PlacesURL:     getEnv("PLACES_API_URL", DefaultPlacesURL),
		PlacesTimeout: durationEnv("PLACES_API_TIMEOUT", 15*time.Second),
		SessionTTL:    durationEnv("SESSION_TTL", 30*time.Minute),
		MaxSessions:   intEnv("MAX_SESSIONS", 10000),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		Log("app", "ignoring invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func intEnv(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		Log("app", "ignoring invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
