package services

import (
	"context"
	"database/sql"

	"github.com/dpetrovs/userstore/internal/dbx"
	"github.com/dpetrovs/userstore/internal/models"
	"github.com/dpetrovs/userstore/internal/repositories/repomanager"
)

// UserProfileService covers the composite operations spanning the users and
// profiles tables. Each operation is a single transaction: if any write in
// the sequence fails, earlier writes are rolled back with it.
type UserProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserProfileService(db *sql.DB, m repomanager.RepositoryManager) *UserProfileService {
	return &UserProfileService{db: db, repomanager: m}
}

// CreateUserWithProfile creates a user and its profile as one atomic
// sequence. If the profile insert fails, the user insert is undone too.
func (s *UserProfileService) CreateUserWithProfile(ctx context.Context, username, email, fullName string, bio, avatarURL *string) (*models.User, *models.Profile, error) {
	var (
		user    *models.User
		profile *models.Profile
	)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{Username: username, Email: email})
		if err != nil {
			return err
		}

		p, err := s.repomanager.Profiles(tx).Create(ctx, &models.Profile{
			UserID:    u.ID,
			FullName:  fullName,
			Bio:       bio,
			AvatarURL: avatarURL,
		})
		if err != nil {
			return err
		}

		user, profile = u, p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return user, profile, nil
}

// UpdateUserAndProfile updates the user's email and the profile's mutable
// fields as one atomic sequence.
func (s *UserProfileService) UpdateUserAndProfile(ctx context.Context, userID int64, email, fullName string, bio, avatarURL *string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdateEmail(ctx, userID, email); err != nil {
			return err
		}
		return s.repomanager.Profiles(tx).Update(ctx, userID, fullName, bio, avatarURL)
	})
}

// DeleteUserAndProfile removes the profile and then the user as one atomic
// sequence. With ON DELETE CASCADE the explicit profile delete is redundant
// but harmless; keeping it makes the pair-delete independent of the store's
// cascade support.
func (s *UserProfileService) DeleteUserAndProfile(ctx context.Context, userID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Profiles(tx).DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, userID)
	})
}

// GetProfileByUserID returns the profile owned by the given user, or
// (nil, nil) when the user has none.
func (s *UserProfileService) GetProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	return s.repomanager.Profiles(s.db).GetByUserID(ctx, userID)
}

// ListProfiles returns all profiles.
func (s *UserProfileService) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	return s.repomanager.Profiles(s.db).ListAll(ctx)
}

// CountProfiles returns the profiles row count.
func (s *UserProfileService) CountProfiles(ctx context.Context) (int64, error) {
	return s.repomanager.Profiles(s.db).Count(ctx)
}
