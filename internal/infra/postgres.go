package infra

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"poirec/pkg/logger"
)

// InitPostgresql opens a pooled connection and verifies it with a ping.
func InitPostgresql(ctx context.Context, dsn string) (*gorm.DB, error) {
	connectionPool, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	sqlDB, err := connectionPool.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info().Msg("PostgreSQL connection established")
	return connectionPool, nil
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error().Err(err).Msg("Error getting database instance")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error().Err(err).Msg("Error closing database connection")
	} else {
		logger.Info().Msg("PostgreSQL database connection closed successfully")
	}
}

// Migrate creates the catalog tables. The vector extension must be
// available to the connecting role.
func Migrate(ctx context.Context, db *gorm.DB, models ...any) error {
	tx := db.WithContext(ctx)
	if err := tx.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("enable pgvector: %w", err)
	}
	if err := tx.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
