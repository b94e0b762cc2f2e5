// Package repomanager opens the configured storage backend and vends the
// repositories bound to it, together with its schema setup hook.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/accounts"
)

// RepositoryManager owns a storage connection.
type RepositoryManager interface {
	// RunMigrations brings the schema (or the indexes, for Mongo) up to date.
	RunMigrations(ctx context.Context) error
	Accounts() accounts.Repository
	Close(ctx context.Context) error
}

// New opens the backend named by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.StorageBackend {
	case config.StorageMongo:
		return NewMongoRepositoryManager(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.StoragePostgres:
		return NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	case config.StorageSQLite:
		return NewSQLiteRepositoryManager(ctx, cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
