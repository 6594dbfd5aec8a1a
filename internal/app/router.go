package app

import (
	"github.com/holtzen/flatdocs-backend/internal/http"
	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:               log,
		AuthMiddleware:    middleware.Auth,
		AccessGate:        middleware.Gate,
		AuthHandler:       handlers.Auth,
		DocumentHandler:   handlers.Document,
		SuggestionHandler: handlers.Suggestion,
		ResourceHandler:   handlers.Resource,
		HealthHandler:     handlers.Health,
	})
}
