package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDB_AppliesPragmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "timeloom.db")
	database, err := OpenDB(path)
	require.NoError(t, err)
	defer database.Close()

	var mode string
	require.NoError(t, database.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, database.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	var busy int
	require.NoError(t, database.QueryRow("PRAGMA busy_timeout").Scan(&busy))
	assert.Equal(t, 5000, busy)
}

func TestOpenDB_InMemory(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	// Migrations ran: the blocks table exists.
	var n int
	require.NoError(t, database.QueryRow(
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'time_blocks'").Scan(&n))
	assert.Equal(t, 1, n)
}
