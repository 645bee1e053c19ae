// Package models holds the persistent entities of the store.
package models

import "time"

// User is a row of the users table. ID and both timestamps are assigned by
// the database; Username and Email are globally unique.
type User struct {
	ID        int64
	Username  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
