package db_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"poirec/internal/config"
	"poirec/internal/infra"
)

var Module = fx.Provide(
	provideDB)

// provideDB connects only when the catalog is read from Postgres; otherwise
// it yields a nil handle that nothing dereferences.
func provideDB(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	if cfg.Data.Source != "postgres" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.LoadTimeout)
	defer cancel()

	db, err := infra.InitPostgresql(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db)
			return nil
		},
	})
	return db, nil
}
