package sendpasswordresettoken

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	c "gatekeeper/internal/core/domain/common"
	e "gatekeeper/internal/core/domain/errors"
	ratelimiter "gatekeeper/internal/core/domain/rate_limiter"
	"gatekeeper/internal/core/services"
	service "gatekeeper/internal/core/services/send_password_reset_token"
	"gatekeeper/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service    services.Service[service.Input, service.Result]
	isTestMode bool
}

func New(
	service services.Service[service.Input, service.Result],
	isTestMode bool,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, isTestMode: isTestMode}
}

type Input struct {
	Email string `json:"email"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
	)
}

type ackResponse struct {
	Message string `json:"message"`
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
		service.Input{Email: c.NewEmail(input.Email)},
	)
	if err != nil {
		switch {
		case errors.Is(err, ratelimiter.ErrRateLimitExceeded):
			response.RenderRateLimitExceeded(rw)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	if h.isTestMode && result.TokenIssued {
		rw.Header().Set("x-test-password-reset-token", string(result.Token))
	}
	// The acknowledgment is rendered here for both the known-address and the
	// unknown-address branch, so the response shape cannot leak whether the
	// account exists.
	response.Render(
		rw,
		ackResponse{
			Message: fmt.Sprintf("An e-mail has been sent to %s with further instructions.", input.Email),
		},
		http.StatusOK,
	)
}
