package services

import (
	"context"
	"fmt"
	"math"

	"github.com/holtzen/flatdocs-backend/internal/data/repos"
	types "github.com/holtzen/flatdocs-backend/internal/domain"
	"github.com/holtzen/flatdocs-backend/internal/platform/apierr"
	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
)

type RetrievalService interface {
	// Search returns up to k stored chunks ranked by descending cosine
	// similarity to query. Read-only; no side effects.
	Search(ctx context.Context, query []float32, k int) ([]*types.EmbeddingMatch, error)
}

type retrievalService struct {
	log           *logger.Logger
	embeddingRepo repos.EmbeddingRepo
}

func NewRetrievalService(
	baseLog *logger.Logger,
	embeddingRepo repos.EmbeddingRepo,
) RetrievalService {
	serviceLog := baseLog.With("service", "RetrievalService")
	return &retrievalService{
		log:           serviceLog,
		embeddingRepo: embeddingRepo,
	}
}

func (rs *retrievalService) Search(ctx context.Context, query []float32, k int) ([]*types.EmbeddingMatch, error) {
	if len(query) != types.VectorDim {
		return nil, apierr.InvalidInput(fmt.Errorf("query vector must have %d dimensions, got %d", types.VectorDim, len(query)))
	}
	if k <= 0 {
		return nil, apierr.InvalidInput(fmt.Errorf("k must be positive"))
	}

	matches, err := rs.embeddingRepo.SearchNearest(ctx, nil, query, k)
	if err != nil {
		return nil, fmt.Errorf("search embeddings: %w", err)
	}
	return matches, nil
}

// CosineSimilarity is the ranking measure behind Search. The index orders by
// cosine distance; a linear scan with this function over the same rows must
// produce the same top-k ordering (ties broken by insertion order).
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := 0; i < len(a); i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
