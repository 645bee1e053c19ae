// Package services implements the transactional operations of the store.
// Every mutating operation runs inside dbx.WithTx, so either the whole write
// sequence becomes visible or none of it does.
package services

import (
	"context"
	"database/sql"

	"github.com/dpetrovs/userstore/internal/dbx"
	"github.com/dpetrovs/userstore/internal/models"
	"github.com/dpetrovs/userstore/internal/repositories/repomanager"
)

// UserService covers the single-entity user operations.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// CreateUser inserts a user inside a transaction and returns it with the
// server-assigned ID. A username or email already present fails the write
// with no partial effect.
func (s *UserService) CreateUser(ctx context.Context, username, email string) (*models.User, error) {
	var created *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).Create(ctx, &models.User{Username: username, Email: email})
		if err != nil {
			return err
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateUserEmail sets a new email inside a transaction, then re-reads the
// row to return the committed state. Returns (nil, nil) when no user with
// the given ID exists.
func (s *UserService) UpdateUserEmail(ctx context.Context, id int64, email string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Users(tx).UpdateEmail(ctx, id, email)
	})
	if err != nil {
		return nil, err
	}

	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// DeleteOldestUser removes the earliest-created user inside a transaction
// and returns the removed row. Returns (nil, nil) on an empty table.
func (s *UserService) DeleteOldestUser(ctx context.Context) (*models.User, error) {
	oldest, err := s.repomanager.Users(s.db).GetOldest(ctx)
	if err != nil {
		return nil, err
	}
	if oldest == nil {
		return nil, nil
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Users(tx).Delete(ctx, oldest.ID)
	})
	if err != nil {
		return nil, err
	}

	return oldest, nil
}

// GetUser returns the user with the given ID, or (nil, nil) when absent.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// ListUsers returns all users.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).ListAll(ctx)
}

// CountUsers returns the users row count.
func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	return s.repomanager.Users(s.db).Count(ctx)
}
