package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/holtzen/flatdocs-backend/internal/data/repos"
	"github.com/holtzen/flatdocs-backend/internal/data/repos/testutil"
	types "github.com/holtzen/flatdocs-backend/internal/domain"
	"github.com/holtzen/flatdocs-backend/internal/platform/apierr"
	"github.com/holtzen/flatdocs-backend/internal/platform/embedder"
)

type fakeGenerator struct {
	err  error
	dim  int
	seen []string
}

func (f *fakeGenerator) GenerateEmbeddings(ctx context.Context, content string) ([]embedder.Chunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	dim := f.dim
	if dim == 0 {
		dim = types.VectorDim
	}
	var chunks []embedder.Chunk
	for _, part := range strings.Split(content, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f.seen = append(f.seen, part)
		chunks = append(chunks, embedder.Chunk{Text: part, Vector: make([]float32, dim)})
	}
	return chunks, nil
}

func newResourceHarness(t *testing.T, gen embedder.Generator) (*gorm.DB, ResourceService) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testLogger(t)
	return tx, NewResourceService(tx, log, repos.NewResourceRepo(tx, log), repos.NewEmbeddingRepo(tx, log), gen)
}

func countRows(t *testing.T, tx *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := tx.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

func TestIngestPersistsResourceWithEmbeddings(t *testing.T) {
	gen := &fakeGenerator{}
	tx, svc := newResourceHarness(t, gen)
	ctx := context.Background()

	before := countRows(t, tx, &types.Resource{})

	resource, err := svc.Ingest(ctx, "First sentence. Second sentence. Third.")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if resource.Content != "First sentence. Second sentence. Third." {
		t.Errorf("content changed: %q", resource.Content)
	}

	if got := countRows(t, tx, &types.Resource{}); got != before+1 {
		t.Errorf("resource rows = %d, want %d", got, before+1)
	}

	var embeddings []*types.Embedding
	if err := tx.Where("resource_id = ?", resource.ID).Order("chunk_index").Find(&embeddings).Error; err != nil {
		t.Fatalf("load embeddings: %v", err)
	}
	if len(embeddings) != len(gen.seen) {
		t.Fatalf("got %d embeddings, want %d", len(embeddings), len(gen.seen))
	}
	for i, e := range embeddings {
		if e.ChunkIndex != i {
			t.Errorf("chunk_index = %d at %d", e.ChunkIndex, i)
		}
		if e.Content != gen.seen[i] {
			t.Errorf("chunk %d content = %q, want %q", i, e.Content, gen.seen[i])
		}
	}
}

func TestIngestRejectsEmptyContent(t *testing.T) {
	_, svc := newResourceHarness(t, &fakeGenerator{})
	ctx := context.Background()

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.Ingest(ctx, content)
		if errCode(err) != apierr.CodeInvalidInput {
			t.Errorf("Ingest(%q): got %v, want invalid_input", content, err)
		}
	}
}

func TestIngestLeavesNoRowsOnGeneratorFailure(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("provider unavailable: model overloaded at upstream")}
	tx, svc := newResourceHarness(t, gen)
	ctx := context.Background()

	resourcesBefore := countRows(t, tx, &types.Resource{})
	embeddingsBefore := countRows(t, tx, &types.Embedding{})

	_, err := svc.Ingest(ctx, "Some content worth embedding.")
	if errCode(err) != apierr.CodeIngestionFailure {
		t.Fatalf("got %v, want ingestion_failure", err)
	}
	// Provider detail stays out of the caller-facing message.
	if strings.Contains(err.Error(), "overloaded") {
		t.Errorf("caller message leaks provider detail: %q", err.Error())
	}

	if got := countRows(t, tx, &types.Resource{}); got != resourcesBefore {
		t.Errorf("resource rows = %d, want %d after failed ingest", got, resourcesBefore)
	}
	if got := countRows(t, tx, &types.Embedding{}); got != embeddingsBefore {
		t.Errorf("embedding rows = %d, want %d after failed ingest", got, embeddingsBefore)
	}
}

func TestIngestRejectsWrongDimensionality(t *testing.T) {
	gen := &fakeGenerator{dim: 8}
	tx, svc := newResourceHarness(t, gen)
	ctx := context.Background()

	before := countRows(t, tx, &types.Resource{})

	_, err := svc.Ingest(ctx, "Short vectors.")
	if errCode(err) != apierr.CodeIngestionFailure {
		t.Fatalf("got %v, want ingestion_failure", err)
	}
	if got := countRows(t, tx, &types.Resource{}); got != before {
		t.Errorf("resource rows = %d, want %d", got, before)
	}
}

func TestResourceGet(t *testing.T) {
	tx, svc := newResourceHarness(t, &fakeGenerator{})
	ctx := context.Background()

	seeded := testutil.SeedResource(t, ctx, tx, "stored content")
	got, err := svc.Get(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Content != "stored content" {
		t.Errorf("content = %q", got.Content)
	}
}
