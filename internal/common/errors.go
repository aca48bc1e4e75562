// Package common defines shared constants and sentinel errors used across
// the bookmarker server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound          = errors.New("not found")
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// Service-level errors.
	ErrorInternal         = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("credentials incorrect")
	ErrCredentialsTaken   = errors.New("credentials taken")
	ErrAccessDenied       = errors.New("access to resource denied")
	ErrUnknownOwner       = errors.New("the user does not exist")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
