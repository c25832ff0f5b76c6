package user

import (
	"fmt"
	c "gatekeeper/internal/core/domain/common"
	e "gatekeeper/internal/core/domain/errors"
	"time"
)

type ID int64

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type SessionToken string

type User struct {
	ID           ID
	Email        c.Email
	PasswordHash PasswordHash
	CreatedAt    time.Time

	// Both fields are set while a password reset is pending and cleared
	// together on redemption. Never one without the other.
	PasswordResetToken          c.Optional[PasswordResetToken]
	PasswordResetTokenExpiresAt c.Optional[time.Time]
}

func (u *User) Validate() error {
	if u.Email == "" {
		return e.NewInvalidStateError(fmt.Sprintf("email is not set for user %d", u.ID))
	}
	if u.PasswordHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for user %d", u.ID))
	}
	if u.PasswordResetToken.IsPresent != u.PasswordResetTokenExpiresAt.IsPresent {
		return e.NewInvalidStateError(
			fmt.Sprintf("password reset token and its expiry are not set together for user %d", u.ID),
		)
	}
	return nil
}

func (u *User) HasPendingPasswordReset(now time.Time) bool {
	return u.PasswordResetToken.IsPresent && u.PasswordResetTokenExpiresAt.Value.After(now)
}
