/*
Package config handles loading and validating movie-recommender configuration.

Configuration is layered with koanf, later layers overriding earlier ones:
  1. Built-in defaults (defaultConfig)
  2. Optional YAML file: $CONFIG_PATH, else config.yaml or config.yml in the
     working directory
  3. Environment variables (PORT, CATALOG_PATH, LOG_LEVEL, ...)

Example config.yaml:

  server:
    port: 5000
  data:
    catalog_path: main_data.csv
  recommend:
    limit: 19
    policy: cached
  security:
    cors_origins:
      - http://localhost:3000
*/
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config represents the root configuration structure.
// It is immutable after Load and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
	History   HistoryConfig   `koanf:"history"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DataConfig locates the catalog, the title index and the prebuilt web client.
type DataConfig struct {
	// CatalogPath is the CSV file with movie_title and comb columns.
	CatalogPath string `koanf:"catalog_path" validate:"required"`

	// BuildDir is the directory holding the client's index.html and assets.
	BuildDir string `koanf:"build_dir"`

	// IndexPath, when set, keeps the title search index on disk there.
	// Empty keeps it in memory.
	IndexPath string `koanf:"index_path"`
}

// RecommendConfig tunes the similarity engine.
type RecommendConfig struct {
	Limit     int    `koanf:"limit" validate:"gte=1,lte=1000"`
	Policy    string `koanf:"policy" validate:"oneof=recompute cached"`
	Tokenizer string `koanf:"tokenizer" validate:"oneof=whitespace word"`
}

// SecurityConfig holds CORS and rate limit settings for /api routes.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// HistoryConfig controls the recommendation history database.
type HistoryConfig struct {
	Enabled bool `koanf:"enabled"`

	// Path is the SQLite file. Empty selects ~/.movie-recommender/history.db.
	Path string `koanf:"path"`

	// Retention is how long records are kept. Zero keeps everything.
	Retention time.Duration `koanf:"retention" validate:"gte=0"`
}

// LoggingConfig configures zerolog.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`

	// Format is json or console.
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// DefaultCORSOrigins are the origins allowed when none are configured.
var DefaultCORSOrigins = []string{
	"https://stately-baklava-fe2288.netlify.app",
	"https://movies-recommendation-1-m13t.onrender.com",
	"http://localhost:3000",
}

// defaultConfig returns a Config with all default values.
// Defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Data: DataConfig{
			CatalogPath: "main_data.csv",
			BuildDir:    "movie-recommender-app/build",
		},
		Recommend: RecommendConfig{
			Limit:     19,
			Policy:    "recompute",
			Tokenizer: "whitespace",
		},
		Security: SecurityConfig{
			CORSOrigins:       append([]string(nil), DefaultCORSOrigins...),
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		History: HistoryConfig{
			Enabled:   true,
			Path:      "",
			Retention: 30 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// Default returns the built-in configuration without reading any source.
func Default() *Config {
	return defaultConfig()
}

// String summarizes the config for startup logs.
func (c *Config) String() string {
	return fmt.Sprintf("addr=%s catalog=%s policy=%s tokenizer=%s limit=%d",
		c.Server.Addr(), c.Data.CatalogPath, c.Recommend.Policy, c.Recommend.Tokenizer, c.Recommend.Limit)
}
