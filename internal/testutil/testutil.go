// Package testutil holds helpers for tests that need a live Postgres
// database. Such tests are skipped unless TEST_DB_DSN points at a database
// with the migrations from db/migrations applied.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OpenTestDB connects to the database named by TEST_DB_DSN and skips the
// calling test when the variable is unset or the database is unreachable.
// The pool is closed when the test finishes.
func OpenTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("Skipping test: TEST_DB_DSN not set")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("Skipping test: cannot connect to test database: %v", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		t.Skipf("Skipping test: cannot ping test database: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}
