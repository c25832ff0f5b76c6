package user

import "context"

// PasswordResetToken is a single-use opaque credential proving control of
// the account's email address. It lives inside the user record together
// with its expiry and has no identity of its own once cleared.
type PasswordResetToken string

type PasswordResetTokenGenerator interface {
	GeneratePasswordResetToken() (PasswordResetToken, error)
}

type PasswordResetTokenSender interface {
	SendPasswordResetToken(ctx context.Context, user User, token PasswordResetToken) error
}

type PasswordChangedNotificationSender interface {
	SendPasswordChangedNotification(ctx context.Context, user User) error
}

type SessionTokenGenerator interface {
	GenerateSessionToken() SessionToken
}

type PasswordHasher interface {
	HashPassword(password RawPassword) (PasswordHash, error)
	ValidatePassword(password RawPassword, hash PasswordHash) bool
}
