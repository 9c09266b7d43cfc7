// Package config loads application settings in layers: built-in defaults,
// an optional YAML file, a .env file and POIREC_* environment variables,
// then command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Data      DataConfig      `koanf:"data"`
	Fetch     FetchConfig     `koanf:"fetch"`
	Postgres  PostgresConfig  `koanf:"postgres"`
	Recommend RecommendConfig `koanf:"recommend"`
}

type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`
	// Mode is the gin mode: debug, release or test.
	Mode string `koanf:"mode" validate:"oneof=debug release test"`
	// CORSOrigins enables CORS for the listed origins ("*" for any).
	CORSOrigins []string `koanf:"cors_origins"`
	// RateLimit is requests per second per client on /api; zero disables it.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
	RateBurst int     `koanf:"rate_burst" validate:"min=0"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// DataConfig describes where reference data comes from.
type DataConfig struct {
	Dir string `koanf:"dir" validate:"required"`
	// Source is "files" (embeddings/metadata/names on disk) or "postgres".
	Source      string        `koanf:"source" validate:"oneof=files postgres"`
	Embeddings  FileConfig    `koanf:"embeddings"`
	Metadata    FileConfig    `koanf:"metadata"`
	Names       FileConfig    `koanf:"names"`
	Landmarks   FileConfig    `koanf:"landmarks"`
	LoadTimeout time.Duration `koanf:"load_timeout"`
}

type FileConfig struct {
	File    string `koanf:"file"`
	DriveID string `koanf:"drive_id"`
}

type FetchConfig struct {
	Enabled     bool          `koanf:"enabled"`
	DriveAPIKey string        `koanf:"drive_api_key"`
	Timeout     time.Duration `koanf:"timeout"`
	Retries     int           `koanf:"retries" validate:"min=0,max=10"`
	Concurrency int           `koanf:"concurrency" validate:"min=1,max=16"`
}

type PostgresConfig struct {
	DSN string `koanf:"dsn"`
}

type RecommendConfig struct {
	DefaultTopK       int      `koanf:"default_top_k" validate:"min=1,ltefield=MaxTopK"`
	MaxTopK           int      `koanf:"max_top_k" validate:"min=1,max=100"`
	DefaultNearbyK    int      `koanf:"default_nearby_k" validate:"min=1,ltefield=MaxNearbyK"`
	MaxNearbyK        int      `koanf:"max_nearby_k" validate:"min=1,max=100"`
	NearbyEnabled     bool     `koanf:"nearby_enabled"`
	NearbyRadiusKm    float64  `koanf:"nearby_radius_km" validate:"min=0"`
	TouristKeywords   []string `koanf:"tourist_keywords" validate:"min=1,dive,required"`
	DefaultPolicy     string   `koanf:"default_policy" validate:"oneof=keyword landmark"`
	TravelMode        string   `koanf:"travel_mode" validate:"oneof=walking driving bicycling transit"`
	// CacheTTL keeps ranked results per (poi, k); zero disables the cache.
	CacheTTL  time.Duration `koanf:"cache_ttl"`
	CacheSize int           `koanf:"cache_size" validate:"min=0"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "127.0.0.1",
			Port:      8501,
			Mode:      "release",
			RateBurst: 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Data: DataConfig{
			Dir:    "data",
			Source: "files",
			Embeddings: FileConfig{
				File:    "fused_embedding.json",
				DriveID: "",
			},
			Metadata: FileConfig{
				File:    "dataset_TSMC2014_NYC.csv",
				DriveID: "1b0bStdF_PyJHiq9Ss1mw_XIKUre31fRg",
			},
			Names: FileConfig{
				File:    "poi_names.csv",
				DriveID: "1RcgTHYXm7vqJdgLkaohDGee-3tlLb-lI",
			},
			Landmarks: FileConfig{
				File: "famous_pois.csv",
			},
			LoadTimeout: 5 * time.Minute,
		},
		Fetch: FetchConfig{
			Enabled:     true,
			Timeout:     2 * time.Minute,
			Retries:     3,
			Concurrency: 3,
		},
		Recommend: RecommendConfig{
			DefaultTopK:       5,
			MaxTopK:           10,
			DefaultNearbyK:    5,
			MaxNearbyK:        15,
			NearbyEnabled:     true,
			NearbyRadiusKm:    5,
			TouristKeywords:   []string{"tourist", "museum", "park", "gallery", "zoo", "monument", "memorial", "castle", "temple"},
			DefaultPolicy:     "keyword",
			TravelMode:        "walking",
			CacheTTL:          10 * time.Minute,
			CacheSize:         1024,
		},
	}
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Data.Source == "postgres" && c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required when data.source is postgres")
	}
	if c.Data.Source == "files" && (c.Data.Embeddings.File == "" || c.Data.Metadata.File == "" || c.Data.Names.File == "") {
		return fmt.Errorf("data.embeddings.file, data.metadata.file and data.names.file are required")
	}
	return nil
}

// Address is the host:port the HTTP server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
