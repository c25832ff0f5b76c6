package sendpasswordresettoken

import (
	"context"
	c "gatekeeper/internal/core/domain/common"
	"gatekeeper/internal/core/domain/logging"
	"gatekeeper/internal/core/domain/user"
	"gatekeeper/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	EMAIL = "test@test.test"
	TOKEN = "3fa2e441cd7d4b7a9b2c4f0e8d1a6b5c"
)

var NOW = time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC)

type suite struct {
	log       *logging.FakeLogger
	userRepo  *user.FakeUserRepository
	generator *user.FakePasswordResetTokenGenerator
	sender    *user.FakePasswordResetTokenSender
}

func setupSuite() *suite {
	userRepo := user.NewFakeUserRepository()
	userRepo.Users = []user.User{{ID: 1, Email: EMAIL, PasswordHash: "hash", CreatedAt: NOW}}
	return &suite{
		log:       logging.NewFakeLogger(),
		userRepo:  userRepo,
		generator: user.NewFakePasswordResetTokenGenerator(TOKEN),
		sender:    user.NewFakePasswordResetTokenSender(),
	}
}

func (s *suite) createService() services.Service[Input, Result] {
	return New(s.log, s.userRepo, s.generator, s.sender, time.Hour, func() time.Time { return NOW })
}

func TestTokenIssuedForKnownEmail(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	service := suite.createService()

	// Exercise ---
	result, err := service.Run(context.Background(), Input{Email: c.Email(EMAIL)})

	// Verify ---
	require.NoError(t, err)
	require.True(t, result.TokenIssued)
	require.Equal(t, user.PasswordResetToken(TOKEN), result.Token)

	u, err := suite.userRepo.GetByEmail(context.Background(), c.Email(EMAIL))
	require.NoError(t, err)
	require.True(t, u.PasswordResetToken.IsPresent)
	require.Equal(t, user.PasswordResetToken(TOKEN), u.PasswordResetToken.Value)
	require.True(t, u.PasswordResetTokenExpiresAt.IsPresent)
	require.Equal(t, NOW.Add(time.Hour), u.PasswordResetTokenExpiresAt.Value)

	require.Equal(t, 1, suite.sender.SentCount())
	require.Equal(t, user.PasswordResetToken(TOKEN), suite.sender.Sent[0])
}

func TestUnknownEmailConvergesToSuccess(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	service := suite.createService()

	// Exercise ---
	result, err := service.Run(context.Background(), Input{Email: c.Email("nobody@test.test")})

	// Verify ---
	require.NoError(t, err)
	require.False(t, result.TokenIssued)
	require.Empty(t, result.Token)
	require.Equal(t, 0, suite.sender.SentCount())

	u, err := suite.userRepo.GetByEmail(context.Background(), c.Email(EMAIL))
	require.NoError(t, err)
	require.False(t, u.PasswordResetToken.IsPresent)
	require.False(t, u.PasswordResetTokenExpiresAt.IsPresent)
}

func TestNewTokenSupersedesPendingOne(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	service := suite.createService()
	_, err := suite.userRepo.SetPasswordResetToken(
		context.Background(),
		c.Email(EMAIL),
		user.PasswordResetToken("old-token"),
		NOW.Add(time.Minute),
	)
	require.NoError(t, err)

	// Exercise ---
	result, err := service.Run(context.Background(), Input{Email: c.Email(EMAIL)})

	// Verify ---
	require.NoError(t, err)
	require.True(t, result.TokenIssued)

	u, err := suite.userRepo.GetByEmail(context.Background(), c.Email(EMAIL))
	require.NoError(t, err)
	require.Equal(t, user.PasswordResetToken(TOKEN), u.PasswordResetToken.Value)
	require.Equal(t, NOW.Add(time.Hour), u.PasswordResetTokenExpiresAt.Value)
}

func TestGeneratorError(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	suite.generator.ReturnError = true
	service := suite.createService()

	// Exercise ---
	_, err := service.Run(context.Background(), Input{Email: c.Email(EMAIL)})

	// Verify ---
	require.ErrorIs(t, err, user.ErrEntropyUnavailable)
	require.Equal(t, 0, suite.sender.SentCount())

	u, repoErr := suite.userRepo.GetByEmail(context.Background(), c.Email(EMAIL))
	require.NoError(t, repoErr)
	require.False(t, u.PasswordResetToken.IsPresent)
}

func TestRepositoryError(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	suite.userRepo.ReturnError = true
	service := suite.createService()

	// Exercise ---
	_, err := service.Run(context.Background(), Input{Email: c.Email(EMAIL)})

	// Verify ---
	require.Error(t, err)
	require.Equal(t, 0, suite.sender.SentCount())
}

func TestSenderErrorSurfacesButTokenStaysCommitted(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	suite.sender.ReturnError = true
	service := suite.createService()

	// Exercise ---
	_, err := service.Run(context.Background(), Input{Email: c.Email(EMAIL)})

	// Verify ---
	require.Error(t, err)

	u, repoErr := suite.userRepo.GetByEmail(context.Background(), c.Email(EMAIL))
	require.NoError(t, repoErr)
	require.True(t, u.PasswordResetToken.IsPresent)
	require.Equal(t, user.PasswordResetToken(TOKEN), u.PasswordResetToken.Value)
}
