package sendpasswordresettoken

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
	Email c.Email
}

func (i Input) GetRateLimitKey() string {
	return "send-password-reset-token::" + string(i.Email)
}

type Result struct {
	// TokenIssued distinguishes the two internally converging branches for
	// logs and tests only; the HTTP acknowledgment is identical either way.
	TokenIssued bool
	Token       user.PasswordResetToken
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	tokenGenerator user.PasswordResetTokenGenerator
	tokenSender    user.PasswordResetTokenSender
	tokenValidFor  time.Duration
	now            func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	tokenGenerator user.PasswordResetTokenGenerator,
	tokenSender user.PasswordResetTokenSender,
	tokenValidFor time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if tokenGenerator == nil {
		panic(e.NewNilArgumentError("tokenGenerator"))
	}
	if tokenSender == nil {
		panic(e.NewNilArgumentError("tokenSender"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		tokenGenerator: tokenGenerator,
		tokenSender:    tokenSender,
		tokenValidFor:  tokenValidFor,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u, err := s.userRepository.GetByEmail(ctx, input.Email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		// Unknown addresses take the same observable path as known ones, so
		// responses cannot be used to enumerate accounts. No token, no email.
		s.log.Info(
			ctx,
			"Password reset requested for unknown email, skipping token issuance.",
			logging.Entry("email", input.Email),
		)
		return Result{TokenIssued: false}, nil
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password reset token issuance.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, err
	}

	token, err := s.tokenGenerator.GeneratePasswordResetToken()
	if err != nil {
		s.log.Error(
			ctx,
			"Could not generate password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	expiresAt := s.now().Add(s.tokenValidFor)
	u, err = s.userRepository.SetPasswordResetToken(ctx, input.Email, token, expiresAt)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		// The record vanished between lookup and update. Same uniform path.
		s.log.Info(
			ctx,
			"User disappeared before password reset token was stored.",
			logging.Entry("email", input.Email),
		)
		return Result{TokenIssued: false}, nil
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not store password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	err = s.tokenSender.SendPasswordResetToken(ctx, u, token)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		// The token is already committed; only the delivery failed. Report
		// it, do not roll back.
		s.log.Error(
			ctx,
			"Could not send password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"Password reset token has been sent to the user.",
		logging.Entry("userID", u.ID),
		logging.Entry("expiresAt", expiresAt),
	)
	return Result{TokenIssued: true, Token: token}, nil
}
