package verifypasswordresettoken

import (
	"errors"
	"net/http"

	e "gatekeeper/internal/core/domain/errors"
	"gatekeeper/internal/core/domain/user"
	"gatekeeper/internal/core/services"
	getuserbysessiontoken "gatekeeper/internal/core/services/get_user_by_session_token"
	service "gatekeeper/internal/core/services/verify_password_reset_token"
	"gatekeeper/internal/http/handlers/auth"
	"gatekeeper/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service        services.Service[service.Input, service.Result]
	sessionService services.Service[getuserbysessiontoken.Input, getuserbysessiontoken.Result]
}

func New(
	service services.Service[service.Input, service.Result],
	sessionService services.Service[getuserbysessiontoken.Input, getuserbysessiontoken.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	if sessionService == nil {
		panic(e.NewNilArgumentError("sessionService"))
	}
	return &Handler{service: service, sessionService: sessionService}
}

type okResponse struct {
	Valid bool `json:"valid"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		response.RenderError(rw, "token is required", http.StatusBadRequest)
		return
	}

	_, err := h.service.Run(
		r.Context(),
		service.Input{
			Token:           user.PasswordResetToken(token),
			IsAuthenticated: h.isAuthenticated(r),
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrAlreadyAuthenticated):
			response.RenderError(rw, "already authenticated", http.StatusBadRequest)
		case errors.Is(err, user.ErrInvalidPasswordResetToken):
			response.RenderError(rw, "invalid or expired token", http.StatusForbidden)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	response.Render(rw, okResponse{Valid: true}, http.StatusOK)
}

func (h *Handler) isAuthenticated(r *http.Request) bool {
	sessionToken, ok := auth.TokenFromContext(r.Context())
	if !ok {
		return false
	}
	_, err := h.sessionService.Run(r.Context(), getuserbysessiontoken.Input{Token: sessionToken})
	return err == nil
}
