package models

import "time"

// Profile is a row of the profiles table. At most one profile exists per
// user (user_id is unique) and the row is cascade-deleted with its user.
// Bio and AvatarURL are nullable.
type Profile struct {
	ID        int64
	UserID    int64
	FullName  string
	Bio       *string
	AvatarURL *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
