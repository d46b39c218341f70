package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Request  RequestConfig  `yaml:"request"`
	Log      LogConfig      `yaml:"log"`
	DB       DBConfig       `yaml:"db"`
	Server   ServerConfig   `yaml:"server"`
	Geocoder GeocoderConfig `yaml:"geocoder"`
	Router   RouterConfig   `yaml:"router"`
	QuestAPI QuestAPIConfig `yaml:"quest_api"`
	Map      MapConfig      `yaml:"map"`
}

// RequestConfig holds HTTP request settings.
type RequestConfig struct {
	Retries int           `yaml:"retries"`
	Timeout Duration      `yaml:"timeout"`
	Backoff BackoffConfig `yaml:"backoff"`
}

// BackoffConfig holds exponential backoff settings.
type BackoffConfig struct {
	BaseDelay Duration `yaml:"base_delay"`
	MaxDelay  Duration `yaml:"max_delay"`
}

// GeocoderConfig holds reverse-geocoding settings.
type GeocoderConfig struct {
	Endpoint    string   `yaml:"endpoint"`
	CacheTTL    Duration `yaml:"cache_ttl"`
	Concurrency int      `yaml:"concurrency"`
}

// RouterConfig holds routing service settings.
type RouterConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// QuestAPIConfig holds settings for the external quest API.
type QuestAPIConfig struct {
	Endpoint     string `yaml:"endpoint"`
	SessionToken string `yaml:"session_token"` // Falls back to QUESTMAP_SESSION_TOKEN
	UserID       string `yaml:"user_id"`
}

// MapConfig holds map view settings.
type MapConfig struct {
	DefaultTransport string  `yaml:"default_transport"`
	FallbackLat      float64 `yaml:"fallback_lat"`
	FallbackLon      float64 `yaml:"fallback_lon"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Request: RequestConfig{
			Retries: 3,
			Timeout: Duration(10 * time.Second),
			Backoff: BackoffConfig{
				BaseDelay: Duration(500 * time.Millisecond),
				MaxDelay:  Duration(30 * time.Second),
			},
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "./logs/requests.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path: "./data/questmap.db",
		},
		Server: ServerConfig{
			Address: "localhost:1880",
		},
		Geocoder: GeocoderConfig{
			Endpoint:    "https://nominatim.openstreetmap.org",
			CacheTTL:    Duration(4 * time.Hour),
			Concurrency: 4,
		},
		Router: RouterConfig{
			Endpoint: "https://router.project-osrm.org",
		},
		QuestAPI: QuestAPIConfig{
			Endpoint: "http://localhost:8000",
		},
		Map: MapConfig{
			DefaultTransport: "driving",
			FallbackLat:      51.505,
			FallbackLon:      -0.09,
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		applyEnvFallbacks(cfg)

		if err := validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	// If file does not exist, save defaults
	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	applyEnvFallbacks(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvFallbacks fills secrets from the environment when the file left
// them empty. Values from env are never written back to disk.
func applyEnvFallbacks(cfg *Config) {
	if cfg.QuestAPI.SessionToken == "" {
		if tok := os.Getenv("QUESTMAP_SESSION_TOKEN"); tok != "" {
			cfg.QuestAPI.SessionToken = tok
		}
	}
	if cfg.QuestAPI.UserID == "" {
		if id := os.Getenv("QUESTMAP_USER_ID"); id != "" {
			cfg.QuestAPI.UserID = id
		}
	}
}

func validate(cfg *Config) error {
	switch cfg.Map.DefaultTransport {
	case "driving", "walking", "cycling":
	default:
		return fmt.Errorf("invalid default_transport %q: must be driving, walking or cycling", cfg.Map.DefaultTransport)
	}
	if cfg.Geocoder.CacheTTL <= 0 {
		return fmt.Errorf("geocoder cache_ttl must be positive, got %s", time.Duration(cfg.Geocoder.CacheTTL))
	}
	if cfg.Geocoder.Concurrency < 1 {
		cfg.Geocoder.Concurrency = 1
	}
	return nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# QuestMap Configuration
# ---------------------
# Supported Duration units: ns, us (or µs), ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	// Inject comments for enum fields
	reTransport := regexp.MustCompile(`(?m)^(\s+)default_transport:`)
	data = reTransport.ReplaceAll(data, []byte("${1}# Options: driving, walking, cycling\n${1}default_transport:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // File exists, do nothing
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
