package user

import (
	"context"
	c "gatekeeper/internal/core/domain/common"
	"gatekeeper/internal/core/domain/user"
	"gatekeeper/internal/db"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const (
	EMAIL         = "test@test.test"
	PASSWORD_HASH = "test-password-hash"
	TOKEN         = "3fa2e441cd7d4b7a9b2c4f0e8d1a6b5c"
)

var NOW time.Time = time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *PgxUserRepository
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool(suite.T())
	suite.repo = NewPgxRepository(suite.pool)
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxUserRepository(t *testing.T) {
	if os.Getenv("TEST_POSTGRESQL_URL") == "" {
		t.Skip("TEST_POSTGRESQL_URL is not set, skipping database tests.")
	}
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) createUser() user.User {
	u, err := suite.repo.Create(context.Background(), user.CreateUserInput{
		Email:        c.Email(EMAIL),
		PasswordHash: user.PasswordHash(PASSWORD_HASH),
		CreatedAt:    NOW,
	})
	suite.Require().NoError(err)
	return u
}

func (suite *testSuite) TestCreateSuccess() {
	u := suite.createUser()

	assert := suite.Require()
	assert.Equal(c.Email(EMAIL), u.Email)
	assert.Equal(user.PasswordHash(PASSWORD_HASH), u.PasswordHash)
	assert.False(u.PasswordResetToken.IsPresent)
	assert.False(u.PasswordResetTokenExpiresAt.IsPresent)
}

func (suite *testSuite) TestCreateDuplicateEmail() {
	suite.createUser()

	_, err := suite.repo.Create(context.Background(), user.CreateUserInput{
		Email:        c.Email(EMAIL),
		PasswordHash: user.PasswordHash("other-hash"),
		CreatedAt:    NOW,
	})
	suite.Require().ErrorIs(err, user.ErrEmailAlreadyExists)
}

func (suite *testSuite) TestGetByEmail() {
	created := suite.createUser()

	u, err := suite.repo.GetByEmail(context.Background(), c.Email(EMAIL))

	assert := suite.Require()
	assert.NoError(err)
	assert.Equal(created.ID, u.ID)

	_, err = suite.repo.GetByEmail(context.Background(), c.Email("nobody@test.test"))
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
}

func (suite *testSuite) TestSetPasswordResetToken() {
	suite.createUser()
	expiresAt := NOW.Add(time.Hour)

	u, err := suite.repo.SetPasswordResetToken(
		context.Background(),
		c.Email(EMAIL),
		user.PasswordResetToken(TOKEN),
		expiresAt,
	)

	assert := suite.Require()
	assert.NoError(err)
	assert.True(u.PasswordResetToken.IsPresent)
	assert.Equal(user.PasswordResetToken(TOKEN), u.PasswordResetToken.Value)
	assert.True(u.PasswordResetTokenExpiresAt.IsPresent)
	assert.True(expiresAt.Equal(u.PasswordResetTokenExpiresAt.Value))
}

func (suite *testSuite) TestSetPasswordResetTokenUnknownEmail() {
	_, err := suite.repo.SetPasswordResetToken(
		context.Background(),
		c.Email("nobody@test.test"),
		user.PasswordResetToken(TOKEN),
		NOW.Add(time.Hour),
	)
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}

func (suite *testSuite) TestSetPasswordResetTokenSupersedesPrevious() {
	suite.createUser()

	_, err := suite.repo.SetPasswordResetToken(
		context.Background(), c.Email(EMAIL), "old-token", NOW.Add(time.Minute),
	)
	suite.Require().NoError(err)
	u, err := suite.repo.SetPasswordResetToken(
		context.Background(), c.Email(EMAIL), user.PasswordResetToken(TOKEN), NOW.Add(time.Hour),
	)
	suite.Require().NoError(err)
	suite.Require().Equal(user.PasswordResetToken(TOKEN), u.PasswordResetToken.Value)

	_, err = suite.repo.GetByPasswordResetToken(context.Background(), "old-token", NOW)
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}

func (suite *testSuite) TestGetByPasswordResetToken() {
	created := suite.createUser()
	_, err := suite.repo.SetPasswordResetToken(
		context.Background(), c.Email(EMAIL), user.PasswordResetToken(TOKEN), NOW.Add(time.Hour),
	)
	suite.Require().NoError(err)

	type test struct {
		id          string
		token       user.PasswordResetToken
		now         time.Time
		expectedErr error
	}
	cases := []test{
		{id: "valid", token: TOKEN, now: NOW},
		{id: "just before expiry", token: TOKEN, now: NOW.Add(time.Hour - time.Second)},
		{id: "expired", token: TOKEN, now: NOW.Add(time.Hour + time.Second), expectedErr: user.ErrUserDoesNotExist},
		{id: "unknown token", token: "unknown", now: NOW, expectedErr: user.ErrUserDoesNotExist},
	}

	for _, testcase := range cases {
		suite.Run(testcase.id, func() {
			u, err := suite.repo.GetByPasswordResetToken(context.Background(), testcase.token, testcase.now)
			if testcase.expectedErr != nil {
				suite.Require().ErrorIs(err, testcase.expectedErr)
				return
			}
			suite.Require().NoError(err)
			suite.Require().Equal(created.ID, u.ID)
		})
	}
}

func (suite *testSuite) TestConsumePasswordResetToken() {
	suite.createUser()
	_, err := suite.repo.SetPasswordResetToken(
		context.Background(), c.Email(EMAIL), user.PasswordResetToken(TOKEN), NOW.Add(time.Hour),
	)
	suite.Require().NoError(err)

	u, err := suite.repo.ConsumePasswordResetToken(
		context.Background(), user.PasswordResetToken(TOKEN), "new-hash", NOW,
	)

	assert := suite.Require()
	assert.NoError(err)
	assert.Equal(user.PasswordHash("new-hash"), u.PasswordHash)
	assert.False(u.PasswordResetToken.IsPresent)
	assert.False(u.PasswordResetTokenExpiresAt.IsPresent)

	// The token is single-use.
	_, err = suite.repo.ConsumePasswordResetToken(
		context.Background(), user.PasswordResetToken(TOKEN), "another-hash", NOW,
	)
	assert.ErrorIs(err, user.ErrUserDoesNotExist)

	u, err = suite.repo.GetByEmail(context.Background(), c.Email(EMAIL))
	assert.NoError(err)
	assert.Equal(user.PasswordHash("new-hash"), u.PasswordHash)
}

func (suite *testSuite) TestConsumeExpiredPasswordResetToken() {
	suite.createUser()
	_, err := suite.repo.SetPasswordResetToken(
		context.Background(), c.Email(EMAIL), user.PasswordResetToken(TOKEN), NOW.Add(time.Hour),
	)
	suite.Require().NoError(err)

	_, err = suite.repo.ConsumePasswordResetToken(
		context.Background(), user.PasswordResetToken(TOKEN), "new-hash", NOW.Add(2*time.Hour),
	)

	assert := suite.Require()
	assert.ErrorIs(err, user.ErrUserDoesNotExist)

	// The pending token and the old password are untouched.
	u, err := suite.repo.GetByEmail(context.Background(), c.Email(EMAIL))
	assert.NoError(err)
	assert.Equal(user.PasswordHash(PASSWORD_HASH), u.PasswordHash)
	assert.True(u.PasswordResetToken.IsPresent)
}
