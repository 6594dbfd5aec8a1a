package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/holtzen/flatdocs-backend/internal/http/handlers"
	httpMW "github.com/holtzen/flatdocs-backend/internal/http/middleware"
	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware
	AccessGate     *httpMW.AccessGate

	AuthHandler       *httpH.AuthHandler
	DocumentHandler   *httpH.DocumentHandler
	SuggestionHandler *httpH.SuggestionHandler
	ResourceHandler   *httpH.ResourceHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	// Identify resolves the caller before the gate decides; the gate never
	// rejects /api routes itself, RequireAuth does that per group.
	if cfg.AuthMiddleware != nil {
		r.Use(cfg.AuthMiddleware.Identify())
	}
	if cfg.AccessGate != nil {
		r.Use(cfg.AccessGate.Handler())
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.Health)
	}

	// Anonymous read-only sharing
	if cfg.DocumentHandler != nil {
		r.GET("/user/:id/public", cfg.DocumentHandler.ListPublic)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Documents
		if cfg.DocumentHandler != nil {
			protected.GET("/documents", cfg.DocumentHandler.Get)
			protected.GET("/documents/by-user", cfg.DocumentHandler.GetByUser)
			protected.POST("/documents", cfg.DocumentHandler.CreateVersion)
			protected.PATCH("/documents", cfg.DocumentHandler.Truncate)
			protected.GET("/resources/apartments", cfg.DocumentHandler.ListApartments)
		}

		// Suggestions
		if cfg.SuggestionHandler != nil {
			protected.POST("/suggestions", cfg.SuggestionHandler.Create)
			protected.GET("/suggestions", cfg.SuggestionHandler.ListForVersion)
			protected.POST("/suggestions/:id/resolve", cfg.SuggestionHandler.Resolve)
		}

		// Resources
		if cfg.ResourceHandler != nil {
			protected.POST("/resources", cfg.ResourceHandler.Ingest)
			protected.GET("/resources/:id", cfg.ResourceHandler.Get)
		}
	}

	return r
}
