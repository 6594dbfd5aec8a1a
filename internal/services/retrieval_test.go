package services

import (
	"context"
	"math"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	types "github.com/holtzen/flatdocs-backend/internal/domain"
	"github.com/holtzen/flatdocs-backend/internal/platform/apierr"
	"github.com/holtzen/flatdocs-backend/internal/platform/logger"
)

// fakeEmbeddingRepo ranks its stored chunks with CosineSimilarity, the same
// ordering contract the pgvector index honors in production.
type fakeEmbeddingRepo struct {
	stored []*types.Embedding
	err    error
}

func (f *fakeEmbeddingRepo) Create(ctx context.Context, tx *gorm.DB, embeddings []*types.Embedding) ([]*types.Embedding, error) {
	f.stored = append(f.stored, embeddings...)
	return embeddings, nil
}

func (f *fakeEmbeddingRepo) GetByResourceIDs(ctx context.Context, tx *gorm.DB, resourceIDs []uuid.UUID) ([]*types.Embedding, error) {
	return f.stored, nil
}

func (f *fakeEmbeddingRepo) SearchNearest(ctx context.Context, tx *gorm.DB, query []float32, k int) ([]*types.EmbeddingMatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	matches := make([]*types.EmbeddingMatch, 0, len(f.stored))
	for _, e := range f.stored {
		matches = append(matches, &types.EmbeddingMatch{
			ResourceID: e.ResourceID,
			Content:    e.Content,
			Score:      CosineSimilarity(query, e.Embedding.Slice()),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func unitVector(hot int) []float32 {
	v := make([]float32, types.VectorDim)
	v[hot] = 1
	return v
}

func TestSearchRanksByDescendingSimilarity(t *testing.T) {
	repo := &fakeEmbeddingRepo{}
	resourceID := uuid.New()
	for i, content := range []string{"far", "near", "middle"} {
		v := make([]float32, types.VectorDim)
		v[0] = 1
		// Larger off-axis weight means a smaller similarity to the query.
		v[1] = []float32{5, 0.1, 1}[i]
		repo.stored = append(repo.stored, &types.Embedding{
			ResourceID: resourceID,
			ChunkIndex: i,
			Content:    content,
			Embedding:  pgvector.NewVector(v),
		})
	}
	svc := NewRetrievalService(testLogger(t), repo)

	matches, err := svc.Search(context.Background(), unitVector(0), 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	wantOrder := []string{"near", "middle", "far"}
	for i, want := range wantOrder {
		if matches[i].Content != want {
			t.Errorf("match[%d] = %q, want %q", i, matches[i].Content, want)
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("scores not descending at %d: %v > %v", i, matches[i].Score, matches[i-1].Score)
		}
	}
}

func TestSearchReturnsAtMostK(t *testing.T) {
	repo := &fakeEmbeddingRepo{}
	for i := 0; i < 5; i++ {
		repo.stored = append(repo.stored, &types.Embedding{
			ResourceID: uuid.New(),
			Content:    "chunk",
			Embedding:  pgvector.NewVector(unitVector(0)),
		})
	}
	svc := NewRetrievalService(testLogger(t), repo)

	matches, err := svc.Search(context.Background(), unitVector(0), 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("got %d matches, want 2", len(matches))
	}

	// Fewer rows than k is fine; k caps, never pads.
	matches, err = svc.Search(context.Background(), unitVector(0), 50)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 5 {
		t.Errorf("got %d matches, want 5", len(matches))
	}
}

func TestSearchRejectsBadInput(t *testing.T) {
	svc := NewRetrievalService(testLogger(t), &fakeEmbeddingRepo{})

	if _, err := svc.Search(context.Background(), make([]float32, 3), 1); apierr.From(err) == nil {
		t.Errorf("short query vector: got %v, want invalid_input", err)
	}
	if _, err := svc.Search(context.Background(), unitVector(0), 0); apierr.From(err) == nil {
		t.Errorf("k=0: got %v, want invalid_input", err)
	}
	if _, err := svc.Search(context.Background(), unitVector(0), -1); apierr.From(err) == nil {
		t.Errorf("k=-1: got %v, want invalid_input", err)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := CosineSimilarity([]float32{1, 0}, []float32{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Errorf("identical vectors: got %v, want 1", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{0, 1}); math.Abs(got) > 1e-9 {
		t.Errorf("orthogonal vectors: got %v, want 0", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{-1, 0}); math.Abs(got+1) > 1e-9 {
		t.Errorf("opposite vectors: got %v, want -1", got)
	}
	// Magnitude does not matter, only direction.
	if got := CosineSimilarity([]float32{2, 2}, []float32{9, 9}); math.Abs(got-1) > 1e-9 {
		t.Errorf("scaled vectors: got %v, want 1", got)
	}
	if got := CosineSimilarity(nil, []float32{1}); got != 0 {
		t.Errorf("empty input: got %v, want 0", got)
	}
	if got := CosineSimilarity([]float32{1, 2}, []float32{1}); got != 0 {
		t.Errorf("length mismatch: got %v, want 0", got)
	}
	if got := CosineSimilarity([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Errorf("zero vector: got %v, want 0", got)
	}
}
