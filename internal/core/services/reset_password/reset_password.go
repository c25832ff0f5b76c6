package resetpassword

import (
	"context"
	"errors"
	c "gatekeeper/internal/core/domain/common"
	e "gatekeeper/internal/core/domain/errors"
	"gatekeeper/internal/core/domain/logging"
	"gatekeeper/internal/core/domain/user"
	"gatekeeper/internal/core/services"
	"time"
)

type Input struct {
	Token       user.PasswordResetToken
	NewPassword user.RawPassword
}

type Result struct {
	User user.User
	// SessionToken is absent if the session could not be created; the
	// password change itself is already committed at that point.
	SessionToken c.Optional[user.SessionToken]
	// ConfirmationSent is false when the confirmation email could not be
	// delivered (degraded success).
	ConfirmationSent bool
}

type service struct {
	log                   logging.Logger
	userRepository        user.UserRepository
	sessionRepository     user.SessionRepository
	passwordHasher        user.PasswordHasher
	sessionTokenGenerator user.SessionTokenGenerator
	notificationSender    user.PasswordChangedNotificationSender
	now                   func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	sessionRepository user.SessionRepository,
	passwordHasher user.PasswordHasher,
	sessionTokenGenerator user.SessionTokenGenerator,
	notificationSender user.PasswordChangedNotificationSender,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if sessionRepository == nil {
		panic(e.NewNilArgumentError("sessionRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if sessionTokenGenerator == nil {
		panic(e.NewNilArgumentError("sessionTokenGenerator"))
	}
	if notificationSender == nil {
		panic(e.NewNilArgumentError("notificationSender"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:                   log,
		userRepository:        userRepository,
		sessionRepository:     sessionRepository,
		passwordHasher:        passwordHasher,
		sessionTokenGenerator: sessionTokenGenerator,
		notificationSender:    notificationSender,
		now:                   now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash new password.", logging.Entry("err", err))
		return result, err
	}

	u, err := s.userRepository.ConsumePasswordResetToken(ctx, input.Token, newPasswordHash, s.now())
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		// Unknown, expired or already consumed. Exactly one concurrent
		// redemption can get past this point per token.
		return result, user.ErrInvalidPasswordResetToken
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not consume password reset token.",
			logging.Entry("err", err),
		)
		return result, err
	}
	result.User = u
	s.log.Info(ctx, "New password has been successfully set.", logging.Entry("userID", u.ID))

	sessionToken := s.sessionTokenGenerator.GenerateSessionToken()
	err = s.sessionRepository.Create(ctx, user.CreateSessionInput{
		UserID:    u.ID,
		Token:     sessionToken,
		CreatedAt: s.now(),
	})
	if err != nil {
		// The password change is authoritative; the user can still log in
		// with the new password.
		s.log.Error(
			ctx,
			"Could not create session after password reset.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
	} else {
		result.SessionToken = c.NewOptional(sessionToken, true)
	}

	err = s.notificationSender.SendPasswordChangedNotification(ctx, u)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not send password changed notification.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		result.ConfirmationSent = false
		return result, nil
	}

	result.ConfirmationSent = true
	return result, nil
}
