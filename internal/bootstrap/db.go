package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/contractpay/settlement-backend/config"
	"github.com/contractpay/settlement-backend/internal/storage/postgres"
	"go.uber.org/zap"
)

// OpenDB connects to Postgres and, when configured, applies pending migrations.
func OpenDB(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*sql.DB, error) {
	db, err := postgres.NewConnection(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.AutoMigrate {
		logger.Info("running database migrations")
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("db migrate: %w", err)
		}
	}

	return db, nil
}
