package resources

import (
	"context"

	"github.com/google/uuid"
	types "github.com/holtzen/flatdocs-backend/internal/domain"
	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type EmbeddingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, embeddings []*types.Embedding) ([]*types.Embedding, error)
	GetByResourceIDs(ctx context.Context, tx *gorm.DB, resourceIDs []uuid.UUID) ([]*types.Embedding, error)
	// SearchNearest returns the k stored chunks closest to query by cosine
	// distance, best first. Score is cosine similarity.
	SearchNearest(ctx context.Context, tx *gorm.DB, query []float32, k int) ([]*types.EmbeddingMatch, error)
}

type embeddingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmbeddingRepo(db *gorm.DB, baseLog *logger.Logger) EmbeddingRepo {
	repoLog := baseLog.With("repo", "EmbeddingRepo")
	return &embeddingRepo{db: db, log: repoLog}
}

func (r *embeddingRepo) Create(ctx context.Context, tx *gorm.DB, embeddings []*types.Embedding) ([]*types.Embedding, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(embeddings) == 0 {
		return []*types.Embedding{}, nil
	}

	// Keep batches small because Content is large
	const batchSize = 100

	if err := transaction.WithContext(ctx).CreateInBatches(embeddings, batchSize).Error; err != nil {
		return nil, err
	}
	return embeddings, nil
}

func (r *embeddingRepo) GetByResourceIDs(ctx context.Context, tx *gorm.DB, resourceIDs []uuid.UUID) ([]*types.Embedding, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Embedding
	if len(resourceIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("resource_id IN ?", resourceIDs).
		Order("resource_id, chunk_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *embeddingRepo) SearchNearest(ctx context.Context, tx *gorm.DB, query []float32, k int) ([]*types.EmbeddingMatch, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if k <= 0 {
		return []*types.EmbeddingMatch{}, nil
	}

	vec := pgvector.NewVector(query)

	var results []*types.EmbeddingMatch
	if err := transaction.WithContext(ctx).
		Raw(`
			SELECT "resource_id", "content", 1 - ("embedding" <=> ?) AS "score"
			FROM "embeddings"
			ORDER BY "embedding" <=> ?, "id"
			LIMIT ?`,
			vec, vec, k,
		).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
