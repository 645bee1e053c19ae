package services

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dpetrovs/userstore/internal/repositories/repomanager"
)

// The services are exercised against an in-memory SQLite database: it
// understands the $n placeholders, RETURNING, unique constraints and
// ON DELETE CASCADE used by the repositories, so the commit/rollback
// behavior under test is real.
const testSchema = `
CREATE TABLE users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE profiles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL UNIQUE REFERENCES users (id) ON DELETE CASCADE,
    full_name TEXT NOT NULL,
    bio TEXT,
    avatar_url TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Test harness: writing bio = 'blocked' fails the statement, which lets the
-- atomicity tests force the dependent write of a sequence to fail.
CREATE TRIGGER profiles_reject_blocked_insert
BEFORE INSERT ON profiles WHEN NEW.bio = 'blocked'
BEGIN
    SELECT RAISE(ABORT, 'bio blocked');
END;

CREATE TRIGGER profiles_reject_blocked_update
BEFORE UPDATE ON profiles WHEN NEW.bio = 'blocked'
BEGIN
    SELECT RAISE(ABORT, 'bio blocked');
END;
`

func setupDB(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)", t.Name())
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return db, repomanager.NewPostgresRepositoryManager()
}

func strPtr(s string) *string { return &s }
