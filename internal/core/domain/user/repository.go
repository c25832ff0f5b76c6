package user

import (
	"context"
	c "gatekeeper/internal/core/domain/common"
	"time"
)

type CreateUserInput struct {
	Email        c.Email
	PasswordHash PasswordHash
	CreatedAt    time.Time
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByEmail(ctx context.Context, email c.Email) (User, error)

	// SetPasswordResetToken stores the token together with its expiry in a
	// single update keyed by email, superseding any pending token.
	SetPasswordResetToken(
		ctx context.Context,
		email c.Email,
		token PasswordResetToken,
		expiresAt time.Time,
	) (User, error)

	// GetByPasswordResetToken matches an unexpired token without changing
	// state. Returns ErrUserDoesNotExist on miss or expiry.
	GetByPasswordResetToken(ctx context.Context, token PasswordResetToken, now time.Time) (User, error)

	// ConsumePasswordResetToken is the atomic match-and-clear: in one
	// read-modify-write it matches an unexpired token, sets the new password
	// hash and clears the token together with its expiry. Concurrent calls
	// with the same token succeed at most once; the rest get
	// ErrUserDoesNotExist.
	ConsumePasswordResetToken(
		ctx context.Context,
		token PasswordResetToken,
		newPasswordHash PasswordHash,
		now time.Time,
	) (User, error)
}

type CreateSessionInput struct {
	UserID    ID
	Token     SessionToken
	CreatedAt time.Time
}

type SessionRepository interface {
	Create(ctx context.Context, input CreateSessionInput) error
	GetUserByToken(ctx context.Context, token SessionToken) (User, error)
	Delete(ctx context.Context, token SessionToken) (userID ID, err error)
}
