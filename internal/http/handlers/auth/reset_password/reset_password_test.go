package resetpassword

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	c "gatekeeper/internal/core/domain/common"
	"gatekeeper/internal/core/domain/user"
	service "gatekeeper/internal/core/services/reset_password"

	"github.com/stretchr/testify/require"
)

const (
	TOKEN         = "3fa2e441cd7d4b7a9b2c4f0e8d1a6b5c"
	PASSWORD      = "new-password"
	SESSION_TOKEN = "test-session-token"
)

type stubService struct {
	result service.Result
	err    error
	input  *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (service.Result, error) {
	s.input = &input
	return s.result, s.err
}

func doRequest(stub *stubService, body string) *httptest.ResponseRecorder {
	handler := New(stub)
	req := httptest.NewRequest(http.MethodPost, "/auth/password_reset", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSuccess(t *testing.T) {
	stub := &stubService{
		result: service.Result{
			SessionToken:     c.NewOptional(user.SessionToken(SESSION_TOKEN), true),
			ConfirmationSent: true,
		},
	}

	rec := doRequest(
		stub,
		`{"token": "`+TOKEN+`", "password": "`+PASSWORD+`", "password_confirmation": "`+PASSWORD+`"}`,
	)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), SESSION_TOKEN)
	require.Contains(t, rec.Body.String(), `"confirmation_email_sent":true`)
	require.NotNil(t, stub.input)
	require.Equal(t, user.PasswordResetToken(TOKEN), stub.input.Token)
	require.Equal(t, user.RawPassword(PASSWORD), stub.input.NewPassword)
}

func TestDegradedSuccessOmitsSessionToken(t *testing.T) {
	stub := &stubService{
		result: service.Result{ConfirmationSent: false},
	}

	rec := doRequest(
		stub,
		`{"token": "`+TOKEN+`", "password": "`+PASSWORD+`", "password_confirmation": "`+PASSWORD+`"}`,
	)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "session_token")
	require.Contains(t, rec.Body.String(), `"confirmation_email_sent":false`)
}

func TestInvalidToken(t *testing.T) {
	stub := &stubService{err: user.ErrInvalidPasswordResetToken}

	rec := doRequest(
		stub,
		`{"token": "unknown", "password": "`+PASSWORD+`", "password_confirmation": "`+PASSWORD+`"}`,
	)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestValidation(t *testing.T) {
	cases := []struct {
		id   string
		body string
	}{
		{"empty", `{}`},
		{"missing token", `{"password": "` + PASSWORD + `", "password_confirmation": "` + PASSWORD + `"}`},
		{"too short password", `{"token": "` + TOKEN + `", "password": "abc", "password_confirmation": "abc"}`},
		{
			"confirmation mismatch",
			`{"token": "` + TOKEN + `", "password": "` + PASSWORD + `", "password_confirmation": "other"}`,
		},
		{"malformed json", `{"token": `},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			stub := &stubService{}

			rec := doRequest(stub, testcase.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Nil(t, stub.input)
		})
	}
}
