package user

import (
	"context"
	"errors"
	"time"

	c "gatekeeper/internal/core/domain/common"
	e "gatekeeper/internal/core/domain/errors"
	"gatekeeper/internal/core/domain/user"
	"gatekeeper/internal/db"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const EMAIL_CONSTRAINT_NAME = "user_email_idx"

const userColumns = `id, email, password_hash, created_at,
	password_reset_token, password_reset_token_expires_at`

type PgxUserRepository struct {
	db db.DBTX
}

func NewPgxRepository(db db.DBTX) *PgxUserRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUserRepository{db: db}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO "user" (email, password_hash, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING `+userColumns,
		string(input.Email),
		string(input.PasswordHash),
		input.CreatedAt,
	)
	u, err = scanUser(row)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE && pgErr.ConstraintName == EMAIL_CONSTRAINT_NAME {
			return u, user.ErrEmailAlreadyExists
		}
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user" WHERE id = $1`,
		int64(id),
	)
	return returnUser(row)
}

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user" WHERE email = $1`,
		string(email),
	)
	return returnUser(row)
}

func (r *PgxUserRepository) SetPasswordResetToken(
	ctx context.Context,
	email c.Email,
	token user.PasswordResetToken,
	expiresAt time.Time,
) (u user.User, err error) {
	// One UPDATE sets both columns and silently supersedes any pending
	// token for this user.
	row := r.db.QueryRow(
		ctx,
		`UPDATE "user"
		 SET password_reset_token = $2, password_reset_token_expires_at = $3
		 WHERE email = $1
		 RETURNING `+userColumns,
		string(email),
		string(token),
		expiresAt,
	)
	return returnUser(row)
}

func (r *PgxUserRepository) GetByPasswordResetToken(
	ctx context.Context,
	token user.PasswordResetToken,
	now time.Time,
) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user"
		 WHERE password_reset_token = $1 AND password_reset_token_expires_at > $2`,
		string(token),
		now,
	)
	return returnUser(row)
}

func (r *PgxUserRepository) ConsumePasswordResetToken(
	ctx context.Context,
	token user.PasswordResetToken,
	newPasswordHash user.PasswordHash,
	now time.Time,
) (u user.User, err error) {
	// A single conditional UPDATE: the match against an unexpired token and
	// the clear happen in one statement, so concurrent redemptions of the
	// same token cannot both match.
	row := r.db.QueryRow(
		ctx,
		`UPDATE "user"
		 SET password_hash = $2,
		     password_reset_token = NULL,
		     password_reset_token_expires_at = NULL
		 WHERE password_reset_token = $1 AND password_reset_token_expires_at > $3
		 RETURNING `+userColumns,
		string(token),
		string(newPasswordHash),
		now,
	)
	return returnUser(row)
}

func returnUser(row pgx.Row) (u user.User, err error) {
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id           int64
		email        string
		passwordHash string
		createdAt    time.Time
		resetToken   pgtype.Text
		resetExpiry  pgtype.Timestamptz
	)
	err = row.Scan(&id, &email, &passwordHash, &createdAt, &resetToken, &resetExpiry)
	if err != nil {
		return u, err
	}
	return user.User{
		ID:           user.ID(id),
		Email:        c.Email(email),
		PasswordHash: user.PasswordHash(passwordHash),
		CreatedAt:    createdAt,
		PasswordResetToken: c.NewOptional(
			user.PasswordResetToken(resetToken.String),
			resetToken.Status == pgtype.Present,
		),
		PasswordResetTokenExpiresAt: c.NewOptional(
			resetExpiry.Time,
			resetExpiry.Status == pgtype.Present,
		),
	}, nil
}
