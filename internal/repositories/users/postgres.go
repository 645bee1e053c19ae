// Package users provides the PostgreSQL-backed repository for the users table.
package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dpetrovs/userstore/internal/dbx"
	"github.com/dpetrovs/userstore/internal/models"
)

// PostgresRepository implements user storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectUserColumns = `SELECT id, username, email, created_at, updated_at FROM users`

// Create inserts a user and fills in the server-assigned ID.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, email)
		VALUES ($1, $2)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, user.Username, user.Email).Scan(&user.ID); err != nil {
		return nil, dbx.WrapDBError(err)
	}

	return user, nil
}

// GetByID returns the user with the given ID, or (nil, nil) when no row matches.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, selectUserColumns+` WHERE id = $1`, id)
	return scanUser(row)
}

// GetOldest returns the earliest-created user, or (nil, nil) on an empty table.
func (r *PostgresRepository) GetOldest(ctx context.Context) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, selectUserColumns+` ORDER BY created_at, id LIMIT 1`)
	return scanUser(row)
}

// ListAll returns every user ordered by ID.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUserColumns+` ORDER BY id`)
	if err != nil {
		return nil, dbx.WrapDBError(err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateEmail sets a new email for the user with the given ID.
func (r *PostgresRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	query := `UPDATE users SET email = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, email, id); err != nil {
		return dbx.WrapDBError(err)
	}
	return nil
}

// Delete removes the user with the given ID. Dependent profile rows go with
// it via the ON DELETE CASCADE constraint.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return dbx.WrapDBError(err)
	}
	return nil
}

// Count returns the number of user rows.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, dbx.WrapDBError(err)
	}
	return n, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dbx.WrapDBError(err)
	}
	return &u, nil
}
