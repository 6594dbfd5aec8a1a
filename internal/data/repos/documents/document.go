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

// VersionFilter selects document versions. ID and Type are optional; UserID
// is required (row access is scoped per owner at the service layer).
type VersionFilter struct {
	ID     *uuid.UUID
	Type   *types.DocumentType
	UserID uuid.UUID
}

type DocumentRepo interface {
	// CreateVersion inserts a new immutable version row. On a (id, created_at)
	// collision with a concurrent writer the timestamp is nudged forward and
	// the insert retried, so both writers succeed with distinct versions.
	CreateVersion(ctx context.Context, tx *gorm.DB, doc *types.Document) (*types.Document, error)
	GetVersions(ctx context.Context, tx *gorm.DB, filter VersionFilter) ([]*types.Document, error)
	GetVersionsByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) ([]*types.Document, error)
	GetLatest(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Document, error)
	// GetVersion loads one exact (id, created_at) version row, nil when the
	// pair was never written or has been truncated away.
	GetVersion(ctx context.Context, tx *gorm.DB, id uuid.UUID, createdAt time.Time) (*types.Document, error)
	// GetLatestByUser returns the current (max created_at) version of each
	// document owned by userID, optionally filtered by type.
	GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, docType *types.DocumentType) ([]*types.Document, error)
	GetVisibleByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Document, error)
	// TruncateAfter deletes every version of id in (after, upTo]. The upTo
	// bound is the snapshot captured when truncation began, so versions
	// created afterwards survive a concurrent truncation.
	TruncateAfter(ctx context.Context, tx *gorm.DB, id uuid.UUID, after, upTo time.Time) (int64, error)
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	repoLog := baseLog.With("repo", "DocumentRepo")
	return &documentRepo{db: db, log: repoLog}
}

const createVersionMaxRetries = 5

func (r *documentRepo) CreateVersion(ctx context.Context, tx *gorm.DB, doc *types.Document) (*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	var err error
	for attempt := 0; attempt < createVersionMaxRetries; attempt++ {
		// Each attempt runs in its own transaction scope. Inside a caller
		// transaction gorm downgrades this to a savepoint, so a duplicate-key
		// failure does not abort the caller's work.
		err = transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
			return inner.Create(doc).Error
		})
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		doc.CreatedAt = doc.CreatedAt.Add(time.Microsecond)
	}
	return nil, err
}

func (r *documentRepo) GetVersions(ctx context.Context, tx *gorm.DB, filter VersionFilter) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Where("user_id = ?", filter.UserID)
	if filter.ID != nil {
		q = q.Where("id = ?", *filter.ID)
	}
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}

	var results []*types.Document
	if err := q.Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *documentRepo) GetVersionsByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Document
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *documentRepo) GetLatest(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Document
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Order("created_at DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *documentRepo) GetVersion(ctx context.Context, tx *gorm.DB, id uuid.UUID, createdAt time.Time) (*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Document
	err := transaction.WithContext(ctx).
		Where(`id = ? AND created_at = ?`, id, createdAt).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *documentRepo) GetLatestByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, docType *types.DocumentType) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Model(&types.Document{}).
		Select(`DISTINCT ON ("id") *`).
		Where("user_id = ?", userID)
	if docType != nil {
		q = q.Where("type = ?", *docType)
	}

	var results []*types.Document
	if err := q.Order(`"id", "created_at" DESC`).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *documentRepo) GetVisibleByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Document
	if err := transaction.WithContext(ctx).
		Model(&types.Document{}).
		Select(`DISTINCT ON ("id") *`).
		Where("user_id = ? AND visible = ?", userID, true).
		Order(`"id", "created_at" DESC`).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *documentRepo) TruncateAfter(ctx context.Context, tx *gorm.DB, id uuid.UUID, after, upTo time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Where("id = ? AND created_at > ? AND created_at <= ?", id, after, upTo).
		Delete(&types.Document{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
