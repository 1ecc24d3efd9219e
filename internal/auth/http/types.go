package http

import "github.com/bytedocker/site/internal/auth/service"

type Handler struct {
	authService *service.AuthService
	// secureCookie is off only for local development over plain HTTP.
	secureCookie bool
}

func New(authService *service.AuthService, secureCookie bool) *Handler {
	return &Handler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}
