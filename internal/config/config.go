package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Provider credentials. Either may be absent at startup; requests then
	// fail fast with a configuration error instead of an upstream one.
	GeminiAPIKey      string
	OpenWeatherAPIKey string

	// HTTPTimeout bounds a single outbound HTTP attempt.
	HTTPTimeout time.Duration

	// StepTimeout bounds each pipeline step (extraction, geocoding, weather
	// fetch, generation) including its transport-level retries.
	StepTimeout time.Duration

	// ProbeInterval controls how often upstream health probes run.
	ProbeInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")

	if cfg.GeminiAPIKey == "" {
		log.Printf("WARN: GEMINI_API_KEY is not set; chat requests will fail with a configuration error")
	}
	if cfg.OpenWeatherAPIKey == "" {
		log.Printf("WARN: OPENWEATHER_API_KEY is not set; chat requests will fail with a configuration error")
	}

	httpTimeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = httpTimeout

	stepTimeout, err := getenvDuration("STEP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.StepTimeout = stepTimeout

	probeInterval, err := getenvDuration("PROBE_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}
	cfg.ProbeInterval = probeInterval

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
