package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bobby-s-dev/meteoblue-client/pkg/meteoblue"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		LogLevel     string
	}

	Meteoblue struct {
		APIKey          string
		SearchBaseURL   string
		ForecastBaseURL string
		ImageBaseURL    string
	}

	Units struct {
		Temperature   string
		WindSpeed     string
		Precipitation string
	}

	Cache struct {
		SearchTTL   time.Duration
		ForecastTTL time.Duration
		ImageTTL    time.Duration
		Capacity    int
	}

	Transport struct {
		Timeout           time.Duration
		RequestsPerSecond float64
		Burst             int
		BreakerTimeout    time.Duration
	}

	Warmer struct {
		Schedule  string
		Locations []meteoblue.Coordinate
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("SERVER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("SERVER_WRITE_TIMEOUT", "10s"))
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	// Provider configuration
	cfg.Meteoblue.APIKey = getEnv("METEOBLUE_API_KEY", "")
	cfg.Meteoblue.SearchBaseURL = getEnv("METEOBLUE_SEARCH_URL", "")
	cfg.Meteoblue.ForecastBaseURL = getEnv("METEOBLUE_FORECAST_URL", "")
	cfg.Meteoblue.ImageBaseURL = getEnv("METEOBLUE_IMAGE_URL", "")

	// Default units
	cfg.Units.Temperature = getEnv("DEFAULT_TEMPERATURE_UNIT", "")
	cfg.Units.WindSpeed = getEnv("DEFAULT_WINDSPEED_UNIT", "")
	cfg.Units.Precipitation = getEnv("DEFAULT_PRECIPITATION_UNIT", "")

	// Cache configuration
	cfg.Cache.SearchTTL = parseDuration(getEnv("SEARCH_CACHE_TTL", "12h"))
	cfg.Cache.ForecastTTL = parseDuration(getEnv("FORECAST_CACHE_TTL", "2h"))
	cfg.Cache.ImageTTL = parseDuration(getEnv("IMAGE_CACHE_TTL", "15m"))
	cfg.Cache.Capacity = parseInt(getEnv("CACHE_CAPACITY", "256"))

	// Transport configuration
	cfg.Transport.Timeout = parseDuration(getEnv("HTTP_TIMEOUT", "10s"))
	cfg.Transport.RequestsPerSecond = parseFloat(getEnv("PROVIDER_RPS", "5"))
	cfg.Transport.Burst = parseInt(getEnv("PROVIDER_BURST", "5"))
	cfg.Transport.BreakerTimeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	// Cache warmer configuration
	cfg.Warmer.Schedule = getEnv("WARM_SCHEDULE", "@every 1h")
	locations, err := parseLocations(getEnv("WARM_LOCATIONS", ""))
	if err != nil {
		return nil, err
	}
	cfg.Warmer.Locations = locations

	return cfg, nil
}

// ClientConfig adapts the loaded environment to the library's explicit
// configuration object.
func (c *Config) ClientConfig(logger *zap.Logger) (meteoblue.Config, error) {
	units, err := c.defaultUnits()
	if err != nil {
		return meteoblue.Config{}, err
	}

	transport := meteoblue.NewHTTPTransport(meteoblue.TransportConfig{
		Timeout:           c.Transport.Timeout,
		RequestsPerSecond: c.Transport.RequestsPerSecond,
		Burst:             c.Transport.Burst,
		BreakerTimeout:    c.Transport.BreakerTimeout,
	}, logger)

	return meteoblue.Config{
		APIKey:          c.Meteoblue.APIKey,
		SearchBaseURL:   c.Meteoblue.SearchBaseURL,
		ForecastBaseURL: c.Meteoblue.ForecastBaseURL,
		ImageBaseURL:    c.Meteoblue.ImageBaseURL,
		DefaultUnits:    units,
		SearchTTL:       c.Cache.SearchTTL,
		ForecastTTL:     c.Cache.ForecastTTL,
		ImageTTL:        c.Cache.ImageTTL,
		CacheCapacity:   c.Cache.Capacity,
		Transport:       transport,
		Logger:          logger,
	}, nil
}

func (c *Config) defaultUnits() (meteoblue.Units, error) {
	var units meteoblue.Units
	var err error

	if c.Units.Temperature != "" {
		if units.Temperature, err = meteoblue.ParseTemperatureUnit(c.Units.Temperature); err != nil {
			return units, err
		}
	}
	if c.Units.WindSpeed != "" {
		if units.WindSpeed, err = meteoblue.ParseWindSpeedUnit(c.Units.WindSpeed); err != nil {
			return units, err
		}
	}
	if c.Units.Precipitation != "" {
		if units.Precipitation, err = meteoblue.ParsePrecipitationUnit(c.Units.Precipitation); err != nil {
			return units, err
		}
	}
	return units, nil
}

// parseLocations reads a "lat,lon;lat,lon" list.
func parseLocations(value string) ([]meteoblue.Coordinate, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	var out []meteoblue.Coordinate
	for _, pair := range strings.Split(value, ";") {
		parts := strings.Split(strings.TrimSpace(pair), ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid location %q, want \"lat,lon\"", pair)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in %q: %w", pair, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in %q: %w", pair, err)
		}
		coord := meteoblue.Coordinate{Lat: lat, Lon: lon}
		if err := coord.Validate(); err != nil {
			return nil, err
		}
		out = append(out, coord)
	}
	return out, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}

func parseFloat(value string) float64 {
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return 0
	}
	return floatValue
}
