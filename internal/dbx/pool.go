package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dpetrovs/userstore/internal/common"
)

// driverName is a seam for tests; production code always dials pgx.
var driverName = "pgx"

// Open establishes a bounded connection pool for the given DSN and verifies
// it with a ping. On failure it retries exactly once with secure transport
// disabled appended to the DSN. This is a fixed two-attempt policy, not a
// retry loop. If both attempts fail the returned error matches
// common.ErrConnection and the caller must abort startup.
func Open(ctx context.Context, dsn string, maxConns int) (*sql.DB, error) {
	db, err := open(ctx, dsn, maxConns)
	if err == nil {
		return db, nil
	}

	db, errNoTLS := open(ctx, DisableTLS(dsn), maxConns)
	if errNoTLS == nil {
		return db, nil
	}

	return nil, fmt.Errorf("%w: %v (with TLS disabled: %v)", common.ErrConnection, err, errNoTLS)
}

func open(ctx context.Context, dsn string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// DisableTLS returns dsn with sslmode=disable appended, handling both URL
// and key/value DSN forms.
func DisableTLS(dsn string) string {
	if strings.Contains(dsn, "://") {
		if strings.Contains(dsn, "?") {
			return dsn + "&sslmode=disable"
		}
		return dsn + "?sslmode=disable"
	}
	return strings.TrimSpace(dsn + " sslmode=disable")
}
