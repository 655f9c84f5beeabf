package repository

import (
	"context"
	"strings"

	"civicstrainer/internal/config"
	"civicstrainer/internal/database"
)

// OpenStateStore opens the snapshot store selected by DATABASE_TYPE
func OpenStateStore(ctx context.Context, cfg *config.Config) (StateStore, error) {
	if strings.EqualFold(cfg.DatabaseType, "redis") {
		return NewRedisStateStore(ctx, cfg.RedisURL, cfg.StateKey)
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewSQLStateStore(db, cfg.StateKey), nil
}
