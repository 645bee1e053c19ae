// Package profiles provides the PostgreSQL-backed repository for the
// profiles table.
package profiles

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dpetrovs/userstore/internal/dbx"
	"github.com/dpetrovs/userstore/internal/models"
)

// PostgresRepository implements profile storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectProfileColumns = `SELECT id, user_id, full_name, bio, avatar_url, created_at, updated_at FROM profiles`

// Create inserts a profile and fills in the server-assigned ID.
func (r *PostgresRepository) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, full_name, bio, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		profile.UserID, profile.FullName, profile.Bio, profile.AvatarURL).Scan(&profile.ID)
	if err != nil {
		return nil, dbx.WrapDBError(err)
	}

	return profile, nil
}

// GetByID returns the profile with the given ID, or (nil, nil) when no row matches.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	row := r.db.QueryRowContext(ctx, selectProfileColumns+` WHERE id = $1`, id)
	return scanProfile(row)
}

// GetByUserID returns the profile owned by the given user, or (nil, nil)
// when the user has none.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	row := r.db.QueryRowContext(ctx, selectProfileColumns+` WHERE user_id = $1`, userID)
	return scanProfile(row)
}

// GetOldest returns the earliest-created profile, or (nil, nil) on an empty table.
func (r *PostgresRepository) GetOldest(ctx context.Context) (*models.Profile, error) {
	row := r.db.QueryRowContext(ctx, selectProfileColumns+` ORDER BY created_at, id LIMIT 1`)
	return scanProfile(row)
}

// ListAll returns every profile ordered by ID.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Profile, error) {
	rows, err := r.db.QueryContext(ctx, selectProfileColumns+` ORDER BY id`)
	if err != nil {
		return nil, dbx.WrapDBError(err)
	}
	defer rows.Close()

	var result []*models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.UserID, &p.FullName, &p.Bio, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update replaces the mutable profile fields for the given user.
func (r *PostgresRepository) Update(ctx context.Context, userID int64, fullName string, bio, avatarURL *string) error {
	query := `
		UPDATE profiles
		SET full_name = $1, bio = $2, avatar_url = $3, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $4
	`
	if _, err := r.db.ExecContext(ctx, query, fullName, bio, avatarURL, userID); err != nil {
		return dbx.WrapDBError(err)
	}
	return nil
}

// DeleteByUserID removes the profile owned by the given user.
func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
		return dbx.WrapDBError(err)
	}
	return nil
}

// Count returns the number of profile rows.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, dbx.WrapDBError(err)
	}
	return n, nil
}

func scanProfile(row *sql.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.FullName, &p.Bio, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dbx.WrapDBError(err)
	}
	return &p, nil
}
