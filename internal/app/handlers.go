package app

import (
	httpH "github.com/holtzen/flatdocs-backend/internal/http/handlers"
	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
)

type Handlers struct {
	Auth       *httpH.AuthHandler
	Document   *httpH.DocumentHandler
	Suggestion *httpH.SuggestionHandler
	Resource   *httpH.ResourceHandler
	Health     *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       httpH.NewAuthHandler(s.Auth),
		Document:   httpH.NewDocumentHandler(s.Document),
		Suggestion: httpH.NewSuggestionHandler(s.Suggestion),
		Resource:   httpH.NewResourceHandler(s.Resource),
		Health:     httpH.NewHealthHandler(),
	}
}
