package user

import (
	"context"
	"crypto/md5"
	"fmt"
	c "gatekeeper/internal/core/domain/common"
	"io"
	"sync"
	"time"
)

type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, u := range r.Users {
		if u.Email == input.Email {
			return u, ErrEmailAlreadyExists
		}
		maxID = u.ID
	}
	u = User{
		ID:           maxID + 1,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		CreatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user by email %v", email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetPasswordResetToken(
	ctx context.Context,
	email c.Email,
	token PasswordResetToken,
	expiresAt time.Time,
) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not set password reset token for %v", email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.Email == email {
			r.Users[ix].PasswordResetToken = c.NewOptional(token, true)
			r.Users[ix].PasswordResetTokenExpiresAt = c.NewOptional(expiresAt, true)
			return r.Users[ix], nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByPasswordResetToken(
	ctx context.Context,
	token PasswordResetToken,
	now time.Time,
) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user by password reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.PasswordResetToken.IsPresent &&
			u.PasswordResetToken.Value == token &&
			u.PasswordResetTokenExpiresAt.Value.After(now) {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) ConsumePasswordResetToken(
	ctx context.Context,
	token PasswordResetToken,
	newPasswordHash PasswordHash,
	now time.Time,
) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not consume password reset token")
	}
	// Match and clear under one lock, like the single conditional UPDATE
	// the real repository issues.
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.PasswordResetToken.IsPresent &&
			u.PasswordResetToken.Value == token &&
			u.PasswordResetTokenExpiresAt.Value.After(now) {
			r.Users[ix].PasswordHash = newPasswordHash
			r.Users[ix].PasswordResetToken = c.NewOptional(PasswordResetToken(""), false)
			r.Users[ix].PasswordResetTokenExpiresAt = c.NewOptional(time.Time{}, false)
			return r.Users[ix], nil
		}
	}
	return u, ErrUserDoesNotExist
}

type FakeSessionRepository struct {
	UserIdByToken  map[SessionToken]ID
	UserRepository UserRepository
	ReturnError    bool
	lock           sync.Mutex
}

func NewFakeSessionRepository(userRepository UserRepository) *FakeSessionRepository {
	return &FakeSessionRepository{
		UserIdByToken:  make(map[SessionToken]ID),
		UserRepository: userRepository,
	}
}

func (r *FakeSessionRepository) Create(ctx context.Context, input CreateSessionInput) error {
	if r.ReturnError {
		return fmt.Errorf("could not create session %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.UserIdByToken[input.Token] = input.UserID
	return nil
}

func (r *FakeSessionRepository) GetUserByToken(ctx context.Context, token SessionToken) (u User, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	userId, ok := r.UserIdByToken[token]
	if !ok {
		return u, ErrUserDoesNotExist
	}
	return r.UserRepository.GetByID(ctx, userId)
}

func (r *FakeSessionRepository) Delete(ctx context.Context, token SessionToken) (ID, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	userID, ok := r.UserIdByToken[token]
	if !ok {
		return ID(0), ErrSessionDoesNotExist
	}
	delete(r.UserIdByToken, token)
	return userID, nil
}

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakePasswordResetTokenGenerator struct {
	Token       PasswordResetToken
	ReturnError bool
}

func NewFakePasswordResetTokenGenerator(token string) *FakePasswordResetTokenGenerator {
	return &FakePasswordResetTokenGenerator{Token: PasswordResetToken(token)}
}

func (g *FakePasswordResetTokenGenerator) GeneratePasswordResetToken() (PasswordResetToken, error) {
	if g.ReturnError {
		return "", ErrEntropyUnavailable
	}
	return g.Token, nil
}

type FakeSessionTokenGenerator struct {
	Token string
}

func NewFakeSessionTokenGenerator(token string) *FakeSessionTokenGenerator {
	return &FakeSessionTokenGenerator{Token: token}
}

func (g *FakeSessionTokenGenerator) GenerateSessionToken() SessionToken {
	return SessionToken(g.Token)
}

type FakePasswordResetTokenSender struct {
	Sent        []PasswordResetToken
	SentTo      []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakePasswordResetTokenSender() *FakePasswordResetTokenSender {
	return &FakePasswordResetTokenSender{}
}

func (s *FakePasswordResetTokenSender) SendPasswordResetToken(
	ctx context.Context,
	user User,
	token PasswordResetToken,
) error {
	if s.ReturnError {
		return fmt.Errorf("could not send password reset token")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, token)
	s.SentTo = append(s.SentTo, user)
	return nil
}

func (s *FakePasswordResetTokenSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}

type FakePasswordChangedNotificationSender struct {
	SentTo      []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakePasswordChangedNotificationSender() *FakePasswordChangedNotificationSender {
	return &FakePasswordChangedNotificationSender{}
}

func (s *FakePasswordChangedNotificationSender) SendPasswordChangedNotification(
	ctx context.Context,
	user User,
) error {
	if s.ReturnError {
		return fmt.Errorf("could not send password changed notification")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.SentTo = append(s.SentTo, user)
	return nil
}

func (s *FakePasswordChangedNotificationSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.SentTo)
}
