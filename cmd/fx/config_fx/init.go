package config_fx

import (
	"os"

	"go.uber.org/fx"

	"poirec/internal/config"
	"poirec/pkg/logger"
)

var Module = fx.Provide(
	provideConfig,
	provideRecommendConfig)

func provideConfig() (*config.Config, error) {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, nil
}

func provideRecommendConfig(cfg *config.Config) config.RecommendConfig {
	return cfg.Recommend
}
