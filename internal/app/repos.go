package app

import (
	"gorm.io/gorm"

	"github.com/holtzen/flatdocs-backend/internal/data/repos"
	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
)

type Repos struct {
	User       repos.UserRepo
	UserToken  repos.UserTokenRepo
	Document   repos.DocumentRepo
	Suggestion repos.SuggestionRepo
	Resource   repos.ResourceRepo
	Embedding  repos.EmbeddingRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       repos.NewUserRepo(db, log),
		UserToken:  repos.NewUserTokenRepo(db, log),
		Document:   repos.NewDocumentRepo(db, log),
		Suggestion: repos.NewSuggestionRepo(db, log),
		Resource:   repos.NewResourceRepo(db, log),
		Embedding:  repos.NewEmbeddingRepo(db, log),
	}
}
