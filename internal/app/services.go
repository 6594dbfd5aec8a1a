package app

import (
	"gorm.io/gorm"

	"github.com/holtzen/flatdocs-backend/internal/platform/embedder"
	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
	"github.com/holtzen/flatdocs-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Document   services.DocumentService
	Suggestion services.SuggestionService
	Resource   services.ResourceService
	Retrieval  services.RetrievalService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) (Services, error) {
	log.Info("Wiring services...")

	generator, err := embedder.NewOpenAIGenerator(log)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Auth: services.NewAuthService(
			db, log, r.User, r.UserToken,
			cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
		),
		Document:   services.NewDocumentService(db, log, r.Document, r.Suggestion),
		Suggestion: services.NewSuggestionService(db, log, r.Suggestion, r.Document),
		Resource:   services.NewResourceService(db, log, r.Resource, r.Embedding, generator),
		Retrieval:  services.NewRetrievalService(log, r.Embedding),
	}, nil
}
