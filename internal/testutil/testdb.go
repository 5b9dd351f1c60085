package testutil

import (
	"database/sql"
	"testing"

	"github.com/jordanhale/timeloom/internal/db"
)

// NewTestDB opens a fresh in-memory database with the full schema and
// ties its lifetime to the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// NewTestUoW wraps a test database in the real unit of work.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
