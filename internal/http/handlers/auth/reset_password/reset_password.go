package resetpassword

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	e "gatekeeper/internal/core/domain/errors"
	"gatekeeper/internal/core/domain/user"
	"gatekeeper/internal/core/services"
	service "gatekeeper/internal/core/services/reset_password"
	"gatekeeper/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(
	service services.Service[service.Input, service.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Token                string `json:"token"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Token, validation.Required, validation.Length(0, 128)),
		validation.Field(&i.Password, validation.Required, validation.Length(4, 256)),
		validation.Field(
			&i.PasswordConfirmation,
			validation.Required,
			validation.In(i.Password).Error("must match the password"),
		),
	)
}

type okResponse struct {
	SessionToken     string `json:"session_token,omitempty"`
	ConfirmationSent bool   `json:"confirmation_email_sent"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		service.Input{
			Token:       user.PasswordResetToken(input.Token),
			NewPassword: user.RawPassword(input.Password),
		},
	)
	if errors.Is(err, user.ErrInvalidPasswordResetToken) {
		response.RenderError(rw, "invalid or expired token", http.StatusForbidden)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	res := okResponse{ConfirmationSent: result.ConfirmationSent}
	if result.SessionToken.IsPresent {
		res.SessionToken = string(result.SessionToken.Value)
	}
	response.Render(rw, res, http.StatusOK)
}
