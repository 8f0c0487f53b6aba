package condb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib"
	"go.uber.org/zap"

	"stockroom/store"
)

// OpenPostgres opens a pooled handle through the pgx driver and checks it
// answers.
func OpenPostgres(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// NewStore connects the backend named by cfg.Backend.
func NewStore(ctx context.Context, cfg *Config, log *zap.Logger) (store.Store, error) {
	switch cfg.Backend {
	case BackendPostgres:
		db, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.AutoMigrate {
			if err := store.EnsureSchema(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
			log.Info("schema ensured")
		}
		return store.NewPostgres(db), nil
	case BackendSupabase:
		return store.NewRest(cfg.SupabaseURL, cfg.SupabaseKey, cfg.RequestTimeout), nil
	case BackendMemory:
		log.Warn("using in-memory store; data is lost on exit")
		return store.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
