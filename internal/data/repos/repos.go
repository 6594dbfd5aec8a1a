package repos

import (
	"github.com/holtzen/flatdocs-backend/internal/data/repos/auth"
	"github.com/holtzen/flatdocs-backend/internal/data/repos/documents"
	"github.com/holtzen/flatdocs-backend/internal/data/repos/resources"
	"github.com/holtzen/flatdocs-backend/internal/data/repos/user"
	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type DocumentRepo = documents.DocumentRepo
type SuggestionRepo = documents.SuggestionRepo
type VersionFilter = documents.VersionFilter

type ResourceRepo = resources.ResourceRepo
type EmbeddingRepo = resources.EmbeddingRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
func NewUserTokenRepo(db *gorm.DB, log *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, log)
}
func NewDocumentRepo(db *gorm.DB, log *logger.Logger) DocumentRepo {
	return documents.NewDocumentRepo(db, log)
}
func NewSuggestionRepo(db *gorm.DB, log *logger.Logger) SuggestionRepo {
	return documents.NewSuggestionRepo(db, log)
}
func NewResourceRepo(db *gorm.DB, log *logger.Logger) ResourceRepo {
	return resources.NewResourceRepo(db, log)
}
func NewEmbeddingRepo(db *gorm.DB, log *logger.Logger) EmbeddingRepo {
	return resources.NewEmbeddingRepo(db, log)
}
