package users

import (
	"context"

	"github.com/dpetrovs/userstore/internal/models"
)

// Repository is the users-table contract. Lookups return (nil, nil) when no
// row matches; an absent row is an empty result, not an error.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetOldest(ctx context.Context) (*models.User, error)
	ListAll(ctx context.Context) ([]*models.User, error)
	UpdateEmail(ctx context.Context, id int64, email string) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
