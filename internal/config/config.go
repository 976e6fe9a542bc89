// Package config resolves service settings from the environment, an optional
// .env file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Setting keys. Each is read from the environment variable of the same name.
const (
	KeyMapsAPIKey             = "GOOGLE_MAPS_API_KEY"
	KeyMapsVersion            = "MAPS_VERSION"
	KeyMapsLanguage           = "MAPS_LANGUAGE"
	KeyMapsRegion             = "MAPS_REGION"
	KeyMapsSolutionChannel    = "MAPS_SOLUTION_CHANNEL"
	KeyMapsAuthReferrerPolicy = "MAPS_AUTH_REFERRER_POLICY"
	KeyMapsRateLimit          = "MAPS_RATE_LIMIT"
	KeyPort                   = "PORT"
	KeyLogLevel               = "LOG_LEVEL"
	KeyLogFormat              = "LOG_FORMAT"
	KeyListingsPath           = "LISTINGS_PATH"
	KeyDatabaseURL            = "DATABASE_URL"
	KeyPlaceCacheSize         = "PLACE_CACHE_SIZE"
)

const (
	DefaultPort           = "8080"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultRateLimit      = 10
	DefaultListingsPath   = "data/listings.json"
	DefaultPlaceCacheSize = 100
)

// Maps holds the settings of the SDK configuration element.
type Maps struct {
	APIKey   string
	Version  string
	Language string
	Region   string
	// Nil selects the default attribution channel; empty opts out.
	SolutionChannel    *string
	AuthReferrerPolicy string
	// Outbound web service requests per second.
	RateLimit int
}

type Config struct {
	Port           string
	LogLevel       string
	LogFormat      string
	ListingsPath   string
	DatabaseURL    string
	PlaceCacheSize int
	Maps           Maps
}

// Get returns the trimmed environment value for key, or fallback when the
// variable is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// LoadDotEnv loads a .env file from the working directory when present. It
// reports whether one was found.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// NewViper returns a viper instance with defaults registered and environment
// lookups enabled. Flags may be bound to it before Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	v.SetDefault(KeyMapsRateLimit, DefaultRateLimit)
	v.SetDefault(KeyListingsPath, DefaultListingsPath)
	v.SetDefault(KeyPlaceCacheSize, DefaultPlaceCacheSize)

	return v
}

// Load reads every setting from v and validates the result.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		return Config{}, errors.New("load config: viper instance is nil")
	}

	cfg := Config{
		Port:           strings.TrimSpace(v.GetString(KeyPort)),
		LogLevel:       strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		LogFormat:      strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
		ListingsPath:   strings.TrimSpace(v.GetString(KeyListingsPath)),
		DatabaseURL:    strings.TrimSpace(v.GetString(KeyDatabaseURL)),
		PlaceCacheSize: v.GetInt(KeyPlaceCacheSize),
		Maps: Maps{
			APIKey:             strings.TrimSpace(v.GetString(KeyMapsAPIKey)),
			Version:            strings.TrimSpace(v.GetString(KeyMapsVersion)),
			Language:           strings.TrimSpace(v.GetString(KeyMapsLanguage)),
			Region:             strings.TrimSpace(v.GetString(KeyMapsRegion)),
			AuthReferrerPolicy: strings.TrimSpace(v.GetString(KeyMapsAuthReferrerPolicy)),
			RateLimit:          v.GetInt(KeyMapsRateLimit),
		},
	}

	// An empty value is meaningful here, so look at the raw variable.
	if ch, ok := os.LookupEnv(KeyMapsSolutionChannel); ok {
		ch = strings.TrimSpace(ch)
		cfg.Maps.SolutionChannel = &ch
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("%s must not be empty", KeyPort)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("%s must be json or text; got %q", KeyLogFormat, c.LogFormat)
	}
	if c.Maps.RateLimit < 1 {
		return fmt.Errorf("%s must be at least 1; got %d", KeyMapsRateLimit, c.Maps.RateLimit)
	}
	if c.PlaceCacheSize < 1 {
		return fmt.Errorf("%s must be at least 1; got %d", KeyPlaceCacheSize, c.PlaceCacheSize)
	}
	return nil
}

// MockMaps reports whether no API key is configured, in which case the
// service runs against the in-memory maps backend.
func (c Config) MockMaps() bool {
	return c.Maps.APIKey == ""
}
