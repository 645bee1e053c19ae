package dbx

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dpetrovs/userstore/internal/common"
)

// WrapDBError classifies a failed statement. Integrity-constraint failures
// reported by the server (unique, foreign key) become
// common.ErrConstraintViolation so callers can match them with errors.Is;
// everything else is wrapped unchanged.
func WrapDBError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return fmt.Errorf("%w: %s", common.ErrConstraintViolation, pgErr.Message)
	}
	return fmt.Errorf("db error: %w", err)
}
