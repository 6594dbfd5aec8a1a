package documents

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	types "github.com/holtzen/flatdocs-backend/internal/domain"
	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type SuggestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, suggestions []*types.Suggestion) ([]*types.Suggestion, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Suggestion, error)
	GetForVersion(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, documentCreatedAt time.Time) ([]*types.Suggestion, error)
	MarkResolved(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type suggestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSuggestionRepo(db *gorm.DB, baseLog *logger.Logger) SuggestionRepo {
	repoLog := baseLog.With("repo", "SuggestionRepo")
	return &suggestionRepo{db: db, log: repoLog}
}

func (r *suggestionRepo) Create(ctx context.Context, tx *gorm.DB, suggestions []*types.Suggestion) ([]*types.Suggestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(suggestions) == 0 {
		return []*types.Suggestion{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&suggestions).Error; err != nil {
		return nil, err
	}
	return suggestions, nil
}

func (r *suggestionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Suggestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Suggestion
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *suggestionRepo) GetForVersion(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, documentCreatedAt time.Time) ([]*types.Suggestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Suggestion
	if err := transaction.WithContext(ctx).
		Where("document_id = ? AND document_created_at = ?", documentID, documentCreatedAt).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *suggestionRepo) MarkResolved(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Suggestion{}).
		Where("id = ?", id).
		Update("is_resolved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("suggestion not found")
	}
	return nil
}
