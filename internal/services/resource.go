package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/holtzen/flatdocs-backend/internal/data/repos"
	types "github.com/holtzen/flatdocs-backend/internal/domain"
	"github.com/holtzen/flatdocs-backend/internal/platform/apierr"
	"github.com/holtzen/flatdocs-backend/internal/platform/embedder"
	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
)

type ResourceService interface {
	// Ingest persists content with its chunk embeddings. Embeddings are
	// generated before the write transaction opens; the resource row and its
	// embedding rows commit together, so no reader ever observes a resource
	// without embeddings.
	Ingest(ctx context.Context, content string) (*types.Resource, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Resource, error)
}

type resourceService struct {
	db            *gorm.DB
	log           *logger.Logger
	resourceRepo  repos.ResourceRepo
	embeddingRepo repos.EmbeddingRepo
	generator     embedder.Generator
}

func NewResourceService(
	db *gorm.DB,
	baseLog *logger.Logger,
	resourceRepo repos.ResourceRepo,
	embeddingRepo repos.EmbeddingRepo,
	generator embedder.Generator,
) ResourceService {
	serviceLog := baseLog.With("service", "ResourceService")
	return &resourceService{
		db:            db,
		log:           serviceLog,
		resourceRepo:  resourceRepo,
		embeddingRepo: embeddingRepo,
		generator:     generator,
	}
}

func (rs *resourceService) Ingest(ctx context.Context, content string) (*types.Resource, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apierr.InvalidInput(fmt.Errorf("content must not be empty"))
	}

	chunks, err := rs.generator.GenerateEmbeddings(ctx, content)
	if err != nil {
		rs.log.Error("Embedding generation failed", "error", err)
		return nil, apierr.IngestionFailure(fmt.Errorf("failed to embed content"))
	}
	for i, c := range chunks {
		if len(c.Vector) != types.VectorDim {
			rs.log.Error("Embedding has wrong dimensionality", "chunk_index", i, "dim", len(c.Vector))
			return nil, apierr.IngestionFailure(fmt.Errorf("failed to embed content"))
		}
	}

	resource := &types.Resource{
		ID:        uuid.New(),
		Content:   content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	embeddings := make([]*types.Embedding, len(chunks))
	for i, c := range chunks {
		embeddings[i] = &types.Embedding{
			ID:         uuid.New(),
			ResourceID: resource.ID,
			ChunkIndex: i,
			Content:    c.Text,
			Embedding:  pgvector.NewVector(c.Vector),
		}
	}

	txErr := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := rs.resourceRepo.Create(ctx, tx, []*types.Resource{resource}); err != nil {
			return fmt.Errorf("create resource: %w", err)
		}
		if _, err := rs.embeddingRepo.Create(ctx, tx, embeddings); err != nil {
			return fmt.Errorf("create embeddings: %w", err)
		}
		return nil
	})
	if txErr != nil {
		rs.log.Error("Resource ingestion rolled back", "error", txErr)
		return nil, apierr.IngestionFailure(fmt.Errorf("failed to store resource"))
	}

	rs.log.Info("Ingested resource", "resource_id", resource.ID, "chunks", len(embeddings))
	return resource, nil
}

func (rs *resourceService) Get(ctx context.Context, id uuid.UUID) (*types.Resource, error) {
	resource, err := rs.resourceRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load resource: %w", err)
	}
	if resource == nil {
		return nil, apierr.NotFound(fmt.Errorf("resource not found"))
	}
	return resource, nil
}
