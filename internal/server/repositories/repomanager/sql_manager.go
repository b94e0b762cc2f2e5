package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/accountkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/accounts"
)

// SQLRepositoryManager serves both PostgreSQL and SQLite; only the goose
// dialect differs.
type SQLRepositoryManager struct {
	db       *sql.DB
	dialect  string
	accounts *accounts.SQLRepository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func newSQLRepositoryManager(db *sql.DB, dialect string) *SQLRepositoryManager {
	return &SQLRepositoryManager{db: db, dialect: dialect, accounts: accounts.NewSQLRepository(db)}
}

// NewPostgresRepositoryManager opens dsn with the pgx driver and checks the
// connection.
func NewPostgresRepositoryManager(ctx context.Context, dsn string) (*SQLRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return newSQLRepositoryManager(db, "pgx"), nil
}

// NewSQLiteRepositoryManager opens dsn with the modernc driver. The pool is
// pinned to one connection so ":memory:" databases survive between queries
// and writes are serialised.
func NewSQLiteRepositoryManager(ctx context.Context, dsn string) (*SQLRepositoryManager, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return newSQLRepositoryManager(db, "sqlite3"), nil
}

// RunMigrations applies the embedded goose migrations.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, ".")
}

func (m *SQLRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *SQLRepositoryManager) Close(_ context.Context) error {
	return m.db.Close()
}
