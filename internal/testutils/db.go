// Package testutils provides shared helpers for package tests.
package testutils

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// testSchema mirrors the Postgres migrations in sqlite dialect. Kept as a
// plain schema string rather than a second migration set so the two cannot
// drift apart silently inside the migrator.
const testSchema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
);
CREATE TABLE messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sender_id INTEGER NOT NULL REFERENCES users (id),
	receiver_id INTEGER NOT NULL REFERENCES users (id),
	text TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
`

// NewTestDB returns an in-memory sqlite database with the application schema
// applied. The connection is closed automatically when the test ends.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err, "failed to open in-memory database")

	// sqlite does not support concurrent writers.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(testSchema)
	require.NoError(t, err, "failed to apply test schema")

	t.Cleanup(func() { _ = db.Close() })
	return db
}
