package resources

import (
	"context"
	"errors"

	"github.com/google/uuid"
	types "github.com/holtzen/flatdocs-backend/internal/domain"
	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ResourceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rs []*types.Resource) ([]*types.Resource, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Resource, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Resource, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type resourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResourceRepo(db *gorm.DB, baseLog *logger.Logger) ResourceRepo {
	repoLog := baseLog.With("repo", "ResourceRepo")
	return &resourceRepo{db: db, log: repoLog}
}

func (r *resourceRepo) Create(ctx context.Context, tx *gorm.DB, rs []*types.Resource) ([]*types.Resource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rs) == 0 {
		return []*types.Resource{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rs).Error; err != nil {
		return nil, err
	}
	return rs, nil
}

func (r *resourceRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Resource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Resource
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

func (r *resourceRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Resource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Resource
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resourceRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Resource{}).Error
}
