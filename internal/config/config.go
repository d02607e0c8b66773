package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

// MemoryDBPath selects the in-memory preferences store instead of sqlite.
const MemoryDBPath = ":memory:"

// AppConfig is the process configuration, read once at startup.
type AppConfig struct {
	// WeatherAPIKey may be empty; the provider rejects the request, not us.
	WeatherAPIKey string
	WeatherAPIURL string

	// BreakerThreshold opens the transport circuit breaker after this many
	// consecutive network failures. 0 (default) disables it.
	BreakerThreshold uint32

	// SearchDebounce is how long the query must be quiet before a fetch.
	SearchDebounce time.Duration

	// StateDBPath is where the selected city is persisted.
	StateDBPath string

	Port string

	// ZipkinEndpoint enables trace export when set.
	ZipkinEndpoint string
}

// Load reads configuration from a .env file (if any) and the environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.WeatherAPIURL = getenvDefault("WEATHERAPI_BASE_URL", providers.DefaultWeatherAPIURL)

	debounceStr := getenvDefault("SEARCH_DEBOUNCE", "1s")
	debounce, err := time.ParseDuration(debounceStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_DEBOUNCE: %w", err)
	}
	if debounce <= 0 {
		return nil, fmt.Errorf("invalid SEARCH_DEBOUNCE: must be positive, got %s", debounce)
	}
	cfg.SearchDebounce = debounce

	threshold, err := strconv.ParseUint(getenvDefault("BREAKER_FAILURE_THRESHOLD", "0"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid BREAKER_FAILURE_THRESHOLD: %w", err)
	}
	cfg.BreakerThreshold = uint32(threshold)

	cfg.StateDBPath = getenvDefault("STATE_DB_PATH", "weather-lookup.db")
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.ZipkinEndpoint = os.Getenv("ZIPKIN_ENDPOINT")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
