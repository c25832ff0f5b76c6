package http

import (
	"net/http"
	"time"

	"gatekeeper/internal/app/deps"
	"gatekeeper/internal/app/services"
	dl "gatekeeper/internal/core/domain/logging"
	"gatekeeper/internal/http/handlers/auth"
	resetpassword "gatekeeper/internal/http/handlers/auth/reset_password"
	sendpasswordresettoken "gatekeeper/internal/http/handlers/auth/send_password_reset_token"
	verifypasswordresettoken "gatekeeper/internal/http/handlers/auth/verify_password_reset_token"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	isTestMode := deps.Config.IsTestMode

	authRouter := chi.NewRouter()
	authRouter.Use(auth.SetAuthTokenToContext)
	authRouter.Method(
		http.MethodPost,
		"/password_reset/send",
		sendpasswordresettoken.New(s.SendPasswordResetToken, isTestMode),
	)
	authRouter.Method(
		http.MethodGet,
		"/password_reset/{token}",
		verifypasswordresettoken.New(s.VerifyPasswordResetToken, s.GetUserBySessionToken),
	)
	authRouter.Method(http.MethodPost, "/password_reset", resetpassword.New(s.ResetPassword))

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Use(requestLogging(deps.Logger))
	router.Mount("/auth", authRouter)

	return &http.Server{
		Handler:           router,
		Addr:              deps.Config.Address,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       5 * time.Second,
	}
}

func requestLogging(logger dl.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			startedAt := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info(
				r.Context(),
				"Request handled.",
				dl.Entry("method", r.Method),
				dl.Entry("path", r.URL.Path),
				dl.Entry("status", ww.Status()),
				dl.Entry("durationMs", time.Since(startedAt).Milliseconds()),
			)
		})
	}
}
