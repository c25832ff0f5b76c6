package services

import (
	"gatekeeper/internal/app/deps"
	drl "gatekeeper/internal/core/domain/rate_limiter"
	"gatekeeper/internal/core/services"
	getuserbysessiontoken "gatekeeper/internal/core/services/get_user_by_session_token"
	ratelimiting "gatekeeper/internal/core/services/rate_limiting"
	resetpassword "gatekeeper/internal/core/services/reset_password"
	sendpasswordresettoken "gatekeeper/internal/core/services/send_password_reset_token"
	verifypasswordresettoken "gatekeeper/internal/core/services/verify_password_reset_token"
)

type Services struct {
	SendPasswordResetToken   services.Service[sendpasswordresettoken.Input, sendpasswordresettoken.Result]
	VerifyPasswordResetToken services.Service[verifypasswordresettoken.Input, verifypasswordresettoken.Result]
	ResetPassword            services.Service[resetpassword.Input, resetpassword.Result]
	GetUserBySessionToken    services.Service[getuserbysessiontoken.Input, getuserbysessiontoken.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SendPasswordResetToken = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: 3},
		sendpasswordresettoken.New(
			deps.Logger,
			deps.UserRepository,
			deps.PasswordResetTokenGenerator,
			deps.PasswordResetTokenSender,
			deps.Config.PasswordResetValidDuration,
			deps.Now,
		),
	)
	s.VerifyPasswordResetToken = verifypasswordresettoken.New(
		deps.Logger,
		deps.UserRepository,
		deps.Now,
	)
	s.ResetPassword = resetpassword.New(
		deps.Logger,
		deps.UserRepository,
		deps.SessionRepository,
		deps.PasswordHasher,
		deps.SessionTokenGenerator,
		deps.PasswordChangedNotificationSender,
		deps.Now,
	)
	s.GetUserBySessionToken = getuserbysessiontoken.New(
		deps.Logger,
		deps.SessionRepository,
	)

	return s
}
