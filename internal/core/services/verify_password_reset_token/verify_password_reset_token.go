package verifypasswordresettoken

import (
	"context"
	"errors"
	e "gatekeeper/internal/core/domain/errors"
	"gatekeeper/internal/core/domain/logging"
	"gatekeeper/internal/core/domain/user"
	"gatekeeper/internal/core/services"
	"time"
)

type Input struct {
	Token user.PasswordResetToken
	// A reset flow is only for unauthenticated principals.
	IsAuthenticated bool
}

type Result struct {
	User user.User
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	now            func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.IsAuthenticated {
		return result, user.ErrAlreadyAuthenticated
	}

	u, err := s.userRepository.GetByPasswordResetToken(ctx, input.Token, s.now())
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return result, user.ErrInvalidPasswordResetToken
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user by password reset token.",
			logging.Entry("err", err),
		)
		return result, err
	}

	return Result{User: u}, nil
}
