// Command importer copies the file-based reference data into Postgres so the
// server can run with data.source=postgres.
package main

import (
	"context"
	"os"

	"poirec/cmd/fx/catalog_fx"
	"poirec/internal/catalog"
	"poirec/internal/config"
	"poirec/internal/fetch"
	"poirec/internal/infra"
	"poirec/internal/models/db_models"
	"poirec/internal/repositories"
	"poirec/pkg/logger"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if cfg.Postgres.DSN == "" {
		logger.Fatal().Msg("postgres.dsn (POIREC_POSTGRES_URL) is required")
	}

	if err := run(context.Background(), cfg); err != nil {
		logger.Fatal().Err(err).Msg("Import failed")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	fetcher, err := fetch.New(ctx, fetch.Config{
		Dir:         cfg.Data.Dir,
		APIKey:      cfg.Fetch.DriveAPIKey,
		Timeout:     cfg.Fetch.Timeout,
		Retries:     cfg.Fetch.Retries,
		Concurrency: cfg.Fetch.Concurrency,
	})
	if err != nil {
		return err
	}
	if cfg.Fetch.Enabled {
		if err := fetcher.EnsureAll(ctx, catalog_fx.Files(cfg.Data)); err != nil {
			return err
		}
	}

	src := catalog.Sources{
		Embeddings: catalog.EmbeddingFile(fetcher.Path(cfg.Data.Embeddings.File)),
		Metadata:   catalog.MetadataFile(fetcher.Path(cfg.Data.Metadata.File)),
		Names:      catalog.NamesFile(fetcher.Path(cfg.Data.Names.File)),
	}
	if cfg.Data.Landmarks.File != "" {
		src.Landmarks = catalog.LandmarkFile(fetcher.Path(cfg.Data.Landmarks.File))
	}
	c, err := catalog.Load(ctx, src)
	if err != nil {
		return err
	}

	db, err := infra.InitPostgresql(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer infra.ClosePostgresql(db)

	if err := infra.Migrate(ctx, db, &db_models.POI{}, &db_models.PoiEmbedding{}); err != nil {
		return err
	}

	pois, embeddings := export(c)
	if err := repositories.NewPOIRepository(db).SavePOIs(ctx, pois); err != nil {
		return err
	}
	if err := repositories.NewPoiEmbededRepository(db).SaveEmbeddings(ctx, embeddings); err != nil {
		return err
	}

	logger.Info().Int("pois", len(pois)).Int("embeddings", len(embeddings)).Msg("Import finished")
	return nil
}

// export flattens the catalog into rows: every POI with an embedding, plus
// the curated landmarks so they still resolve when loaded back.
func export(c *catalog.Catalog) ([]catalog.Record, []catalog.EmbeddingRecord) {
	var (
		pois       []catalog.Record
		embeddings []catalog.EmbeddingRecord
		seen       = map[string]bool{}
	)
	c.Range(func(p catalog.POI) bool {
		seen[p.ID] = true
		pois = append(pois, catalog.Record{ID: p.ID, Name: p.Name, Category: p.Category, Location: p.Location})
		embeddings = append(embeddings, catalog.EmbeddingRecord{ID: p.ID, Vector: p.Embedding})
		return true
	})
	for _, id := range c.Landmarks() {
		if seen[id] {
			continue
		}
		if p, ok := c.Lookup(id); ok {
			pois = append(pois, catalog.Record{ID: p.ID, Name: p.Name, Category: p.Category, Location: p.Location})
		}
	}
	return pois, embeddings
}
