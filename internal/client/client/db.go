package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/questlog/internal/client/migrations"
	"github.com/dmitrijs2005/questlog/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded SQLite schema. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// InitDatabase opens the local SQLite file at dsn, creating its directory
// when needed, and migrates it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	dsn, err := filex.EnsureDirFor(dsn)
	if err != nil {
		return nil, fmt.Errorf("prepare local database: %w", err)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate local database: %w", err)
	}
	return db, nil
}
