package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// setupDB returns an in-memory database with the storefront schema.  The
// column types mirror the MySQL schema; timestamps are Unix seconds in both.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_admin      INTEGER NOT NULL DEFAULT 0,
			created_at    INTEGER NOT NULL,
			updated_at    INTEGER NOT NULL
		);
		CREATE TABLE products (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id    INTEGER NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image       TEXT NOT NULL DEFAULT '',
			price       REAL NOT NULL,
			category    TEXT NOT NULL DEFAULT '',
			stock       INTEGER NOT NULL DEFAULT 0,
			sizes       TEXT NOT NULL DEFAULT '',
			is_featured INTEGER NOT NULL DEFAULT 0,
			rating      REAL NOT NULL DEFAULT 0,
			num_reviews INTEGER NOT NULL DEFAULT 0,
			created_at  INTEGER NOT NULL
		);`)
	require.NoError(t, err)
	return db
}
