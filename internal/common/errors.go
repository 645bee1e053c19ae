// Package common defines shared sentinel errors used across the storage and
// service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrConnection marks a failure to establish the database pool after
	// all connect attempts. Fatal for startup.
	ErrConnection = errors.New("database connection failed")

	// ErrConstraintViolation marks a server-enforced uniqueness or
	// referential-integrity failure. Expected on the deliberate
	// duplicate-insert paths; always rolled back before surfacing.
	ErrConstraintViolation = errors.New("constraint violation")
)
