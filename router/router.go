package router

import (
	"go-account-api/handler"
	"net/http"

	_ "go-account-api/docs"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	// DB is pinged by /health when set.
	DB          handler.Pinger
	User        *handler.UserHandler
	Auth        *handler.AuthHandler
	AccessGate  *handler.AuthGate
	RefreshGate *handler.AuthGate
}

func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /health", handler.HealthCheck(h.DB))
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	if h.User != nil {
		mux.Handle("POST /register", handler.ErrorHandlingMiddleware(h.User.Register))
	}

	if h.Auth != nil {
		mux.Handle("POST /login", handler.ErrorHandlingMiddleware(h.Auth.Login))
	}

	if h.Auth != nil && h.RefreshGate != nil {
		mux.Handle("POST /update-tokens", h.RefreshGate.Wrap(h.Auth.UpdateTokens))
		mux.Handle("POST /update-access-token", h.RefreshGate.Wrap(h.Auth.UpdateAccessToken))
	}

	if h.AccessGate != nil {
		if h.Auth != nil {
			mux.Handle("POST /logout", h.AccessGate.Wrap(h.Auth.Logout))
		}
		if h.User != nil {
			mux.Handle("GET /users", h.AccessGate.Wrap(h.User.ListUsers))
			mux.Handle("GET /users/me", h.AccessGate.Wrap(h.User.Me))
			mux.Handle("DELETE /users/me", h.AccessGate.Wrap(h.User.DeleteMe))
			mux.Handle("GET /users/{id}", h.AccessGate.Wrap(h.User.GetUser))
		}
	}

	return handler.RequestLogger(mux)
}
