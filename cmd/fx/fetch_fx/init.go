package fetch_fx

import (
	"context"

	"go.uber.org/fx"

	"poirec/internal/config"
	"poirec/internal/fetch"
)

var Module = fx.Provide(provideFetcher)

func provideFetcher(cfg *config.Config) (*fetch.Fetcher, error) {
	return fetch.New(context.Background(), fetch.Config{
		Dir:         cfg.Data.Dir,
		APIKey:      cfg.Fetch.DriveAPIKey,
		Timeout:     cfg.Fetch.Timeout,
		Retries:     cfg.Fetch.Retries,
		Concurrency: cfg.Fetch.Concurrency,
	})
}
