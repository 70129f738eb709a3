// Package config reads the service and wizard settings from the environment,
// after loading a .env file when one is present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"room-service/internal/geo"
)

type Config struct {
	Port        string
	DatabaseURL string

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DraftTTL      time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	MapsAPIKey  string
	MapsBaseURL string
	HTTPTimeout time.Duration

	LogLevel  string
	LogFormat string

	// Wizard client settings.
	APIBaseURL     string
	APIToken       string
	HostID         int64
	SearchDebounce time.Duration
	DeviceLocation *geo.Coordinates
}

// Load reads .env (if any) and the environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.WithError(err).Debug("no .env file loaded")
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup. Unset variables take their defaults.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	r := reader{lookup: lookup}
	c := &Config{
		Port:           r.str("PORT", "8083"),
		DatabaseURL:    r.str("DATABASE_URL", ""),
		MongoURI:       r.str("MONGO_URI", ""),
		MongoDB:        r.str("MONGO_DB", "rooms"),
		RedisAddr:      r.str("REDIS_ADDR", ""),
		RedisPassword:  r.str("REDIS_PASSWORD", ""),
		RedisDB:        r.int("REDIS_DB", 0),
		DraftTTL:       r.duration("DRAFT_TTL", 24*time.Hour),
		JWTSecret:      r.str("JWT_SECRET", ""),
		JWTTTL:         r.duration("JWT_TTL", 72*time.Hour),
		MapsAPIKey:     r.str("MAPS_API_KEY", ""),
		MapsBaseURL:    r.str("MAPS_BASE_URL", geo.DefaultGoogleBaseURL),
		HTTPTimeout:    r.duration("HTTP_TIMEOUT", 10*time.Second),
		LogLevel:       r.str("LOG_LEVEL", "info"),
		LogFormat:      r.str("LOG_FORMAT", "text"),
		APIBaseURL:     r.str("API_BASE_URL", "http://localhost:8083"),
		APIToken:       r.str("API_TOKEN", ""),
		HostID:         int64(r.int("HOST_ID", 0)),
		SearchDebounce: r.duration("SEARCH_DEBOUNCE", 500*time.Millisecond),
	}

	_, hasLat := lookup("DEVICE_LATITUDE")
	_, hasLng := lookup("DEVICE_LONGITUDE")
	if hasLat && hasLng {
		c.DeviceLocation = &geo.Coordinates{
			Latitude:  r.float("DEVICE_LATITUDE"),
			Longitude: r.float("DEVICE_LONGITUDE"),
		}
	}

	if len(r.errs) > 0 {
		return nil, fmt.Errorf("config: %w", errors.Join(r.errs...))
	}
	return c, nil
}

// ValidateServer checks what `serve` cannot run without.
func (c *Config) ValidateServer() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.DraftTTL <= 0 {
		errs = append(errs, errors.New("DRAFT_TTL must be positive"))
	}
	return errors.Join(errs...)
}

type reader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *reader) str(key, def string) string {
	if v, ok := r.lookup(key); ok && v != "" {
		return v
	}
	return def
}

func (r *reader) int(key string, def int) int {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (r *reader) float(key string) float64 {
	v, _ := r.lookup(key)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
	}
	return f
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}
