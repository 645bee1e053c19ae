package repomanager

import (
	"context"
	"database/sql"

	"github.com/dpetrovs/userstore/internal/dbx"
	"github.com/dpetrovs/userstore/internal/repositories/profiles"
	"github.com/dpetrovs/userstore/internal/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// repository code runs against the pool or inside a transaction, and exposes
// the schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
}
