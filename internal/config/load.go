package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	EnvPrefix        = "POIREC_"
	ConfigPathEnvVar = "POIREC_CONFIG"
)

var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// envKeys maps environment variables (without prefix, lower-cased) to
// config paths.
var envKeys = map[string]string{
	"host":                "server.host",
	"port":                "server.port",
	"gin_mode":            "server.mode",
	"cors_origins":        "server.cors_origins",
	"rate_limit":          "server.rate_limit",
	"rate_burst":          "server.rate_burst",
	"log_level":           "log.level",
	"log_format":          "log.format",
	"data_dir":            "data.dir",
	"data_source":         "data.source",
	"embeddings_file":     "data.embeddings.file",
	"embeddings_drive_id": "data.embeddings.drive_id",
	"metadata_file":       "data.metadata.file",
	"metadata_drive_id":   "data.metadata.drive_id",
	"names_file":          "data.names.file",
	"names_drive_id":      "data.names.drive_id",
	"landmarks_file":      "data.landmarks.file",
	"landmarks_drive_id":  "data.landmarks.drive_id",
	"load_timeout":        "data.load_timeout",
	"fetch_enabled":       "fetch.enabled",
	"drive_api_key":       "fetch.drive_api_key",
	"fetch_timeout":       "fetch.timeout",
	"fetch_retries":       "fetch.retries",
	"fetch_concurrency":   "fetch.concurrency",
	"postgres_url":        "postgres.dsn",
	"default_top_k":       "recommend.default_top_k",
	"max_top_k":           "recommend.max_top_k",
	"default_nearby_k":    "recommend.default_nearby_k",
	"max_nearby_k":        "recommend.max_nearby_k",
	"nearby_enabled":      "recommend.nearby_enabled",
	"nearby_radius_km":    "recommend.nearby_radius_km",
	"tourist_keywords":    "recommend.tourist_keywords",
	"default_policy":      "recommend.default_policy",
	"travel_mode":         "recommend.travel_mode",
	"rank_cache_ttl":      "recommend.cache_ttl",
	"rank_cache_size":     "recommend.cache_size",
}

// sliceKeys are split on commas when they arrive as a single string.
var sliceKeys = []string{"recommend.tourist_keywords", "server.cors_origins"}

// Load builds the configuration from defaults, the config file, .env and
// the environment, and finally args (usually os.Args[1:]).
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("poirec", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to a YAML config file")
	envFile := flags.String("env-file", ".env", "path to a dotenv file")
	port := flags.Int("port", 0, "HTTP port (overrides config)")
	dataDir := flags.String("data-dir", "", "directory holding reference files (overrides config)")
	source := flags.String("source", "", "reference data source: files or postgres")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", *envFile, err)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(*configPath); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	} else if *configPath != "" {
		return nil, fmt.Errorf("config file %s: %w", *configPath, fs.ErrNotExist)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if err := splitSlices(k); err != nil {
		return nil, err
	}

	overrides := map[string]any{}
	if *port != 0 {
		overrides["server.port"] = *port
	}
	if *dataDir != "" {
		overrides["data.dir"] = *dataDir
	}
	if *source != "" {
		overrides["data.source"] = *source
	}
	for key, v := range overrides {
		if err := k.Set(key, v); err != nil {
			return nil, fmt.Errorf("apply flag %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func findConfigFile(explicit string) string {
	candidates := DefaultConfigPaths
	if explicit != "" {
		candidates = []string{explicit}
	} else if p := os.Getenv(ConfigPathEnvVar); p != "" {
		candidates = []string{p}
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransform turns POIREC_NEARBY_RADIUS_KM into recommend.nearby_radius_km.
// Unknown variables map to "" and are ignored.
func envTransform(key string) string {
	return envKeys[strings.ToLower(strings.TrimPrefix(key, EnvPrefix))]
}

func splitSlices(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		s, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(key, parts); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}
