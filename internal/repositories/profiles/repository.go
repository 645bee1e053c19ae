package profiles

import (
	"context"

	"github.com/dpetrovs/userstore/internal/models"
)

// Repository is the profiles-table contract. Lookups return (nil, nil) when
// no row matches. Update and DeleteByUserID are keyed by user_id because a
// user owns at most one profile.
type Repository interface {
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	GetByID(ctx context.Context, id int64) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	GetOldest(ctx context.Context) (*models.Profile, error)
	ListAll(ctx context.Context) ([]*models.Profile, error)
	Update(ctx context.Context, userID int64, fullName string, bio, avatarURL *string) error
	DeleteByUserID(ctx context.Context, userID int64) error
	Count(ctx context.Context) (int64, error)
}
