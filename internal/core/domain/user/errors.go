package user

import (
	"errors"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserDoesNotExist   = errors.New("user does not exist")
	ErrSessionDoesNotExist = errors.New("session does not exist")

	// Covers both an unknown and an expired token. The two cases are never
	// distinguished for the caller.
	ErrInvalidPasswordResetToken = errors.New("invalid or expired password reset token")

	ErrAlreadyAuthenticated = errors.New("already authenticated")

	ErrEntropyUnavailable = errors.New("random source unavailable")
)
