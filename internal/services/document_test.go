package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/holtzen/flatdocs-backend/internal/data/repos"
	"github.com/holtzen/flatdocs-backend/internal/data/repos/testutil"
	types "github.com/holtzen/flatdocs-backend/internal/domain"
	"github.com/holtzen/flatdocs-backend/internal/platform/apierr"
)

// docHarness wires document and suggestion services onto a rolled-back test
// transaction, so service-level transactions become savepoints.
type docHarness struct {
	tx          *gorm.DB
	documents   DocumentService
	suggestions SuggestionService
}

func newDocHarness(t *testing.T) *docHarness {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testLogger(t)
	docRepo := repos.NewDocumentRepo(tx, log)
	sugRepo := repos.NewSuggestionRepo(tx, log)
	return &docHarness{
		tx:          tx,
		documents:   NewDocumentService(tx, log, docRepo, sugRepo),
		suggestions: NewSuggestionService(tx, log, sugRepo, docRepo),
	}
}

func errCode(err error) string {
	if ae := apierr.From(err); ae != nil {
		return ae.Code
	}
	return ""
}

func TestCreateVersionDefaultsAndValidation(t *testing.T) {
	h := newDocHarness(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, h.tx, "create-svc@example.com")

	doc, err := h.documents.CreateVersion(ctx, owner.ID, CreateVersionInput{
		ID:      uuid.New(),
		Title:   "notes",
		Content: "hello",
		Visible: true,
	})
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}
	if doc.Kind != types.KindText || doc.Type != types.TypeGeneric {
		t.Errorf("defaults = (%s, %s), want (text, generic)", doc.Kind, doc.Type)
	}

	_, err = h.documents.CreateVersion(ctx, owner.ID, CreateVersionInput{ID: uuid.New(), Kind: "video"})
	if errCode(err) != apierr.CodeInvalidInput {
		t.Errorf("unknown kind: got %v, want invalid_input", err)
	}
	_, err = h.documents.CreateVersion(ctx, owner.ID, CreateVersionInput{Content: "x"})
	if errCode(err) != apierr.CodeInvalidInput {
		t.Errorf("missing id: got %v, want invalid_input", err)
	}
	_, err = h.documents.CreateVersion(ctx, uuid.Nil, CreateVersionInput{ID: uuid.New()})
	if errCode(err) != apierr.CodeUnauthenticated {
		t.Errorf("no caller: got %v, want unauthenticated", err)
	}
}

func TestCreateVersionForeignIDRejected(t *testing.T) {
	h := newDocHarness(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, h.tx, "owner-svc@example.com")
	intruder := testutil.SeedUser(t, ctx, h.tx, "intruder-svc@example.com")

	docID := uuid.New()
	if _, err := h.documents.CreateVersion(ctx, owner.ID, CreateVersionInput{ID: docID, Content: "v1", Visible: true}); err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}

	_, err := h.documents.CreateVersion(ctx, intruder.ID, CreateVersionInput{ID: docID, Content: "hijack"})
	if errCode(err) != apierr.CodeUnauthorized {
		t.Fatalf("foreign id: got %v, want unauthorized", err)
	}

	// The owner keeps appending freely.
	if _, err := h.documents.CreateVersion(ctx, owner.ID, CreateVersionInput{ID: docID, Content: "v2", Visible: true}); err != nil {
		t.Errorf("owner append: %v", err)
	}
}

func TestGetDocumentsRowLevelRules(t *testing.T) {
	h := newDocHarness(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, h.tx, "rows-owner@example.com")
	reader := testutil.SeedUser(t, ctx, h.tx, "rows-reader@example.com")

	now := time.Now().UTC().Truncate(time.Microsecond)
	hiddenID := uuid.New()
	testutil.SeedDocumentVersion(t, ctx, h.tx, hiddenID, owner.ID, now, false)
	visibleID := uuid.New()
	testutil.SeedDocumentVersion(t, ctx, h.tx, visibleID, owner.ID, now, true)

	_, err := h.documents.GetDocuments(ctx, reader.ID, testutil.PtrUUID(hiddenID), nil)
	if errCode(err) != apierr.CodeUnauthorized {
		t.Errorf("hidden foreign doc: got %v, want unauthorized", err)
	}

	docs, err := h.documents.GetDocuments(ctx, reader.ID, testutil.PtrUUID(visibleID), nil)
	if err != nil {
		t.Errorf("visible foreign doc: %v", err)
	} else if len(docs) != 1 {
		t.Errorf("got %d docs, want 1", len(docs))
	}

	if _, err := h.documents.GetDocuments(ctx, owner.ID, testutil.PtrUUID(hiddenID), nil); err != nil {
		t.Errorf("owner reading own hidden doc: %v", err)
	}

	_, err = h.documents.GetDocuments(ctx, owner.ID, nil, nil)
	if errCode(err) != apierr.CodeInvalidInput {
		t.Errorf("no params: got %v, want invalid_input", err)
	}
	_, err = h.documents.GetDocuments(ctx, owner.ID, testutil.PtrUUID(uuid.New()), nil)
	if errCode(err) != apierr.CodeNotFound {
		t.Errorf("unknown id: got %v, want not_found", err)
	}
}

func TestTruncateAfterOwnershipAndCount(t *testing.T) {
	h := newDocHarness(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, h.tx, "trunc-owner@example.com")
	intruder := testutil.SeedUser(t, ctx, h.tx, "trunc-intruder@example.com")

	docID := uuid.New()
	base := time.Now().UTC().Truncate(time.Microsecond).Add(-time.Hour)
	for i := 0; i < 4; i++ {
		testutil.SeedDocumentVersion(t, ctx, h.tx, docID, owner.ID, base.Add(time.Duration(i)*time.Minute), true)
	}

	_, err := h.documents.TruncateAfter(ctx, intruder.ID, docID, base)
	if errCode(err) != apierr.CodeUnauthorized {
		t.Fatalf("intruder truncate: got %v, want unauthorized", err)
	}
	_, err = h.documents.TruncateAfter(ctx, owner.ID, uuid.New(), base)
	if errCode(err) != apierr.CodeNotFound {
		t.Fatalf("unknown doc: got %v, want not_found", err)
	}

	deleted, err := h.documents.TruncateAfter(ctx, owner.ID, docID, base.Add(time.Minute))
	if err != nil {
		t.Fatalf("TruncateAfter: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
}

func TestTruncateOrphansSuggestionsVisibly(t *testing.T) {
	h := newDocHarness(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, h.tx, "orphan-owner@example.com")

	docID := uuid.New()
	v1 := time.Now().UTC().Truncate(time.Microsecond).Add(-time.Hour)
	v2 := v1.Add(time.Minute)
	testutil.SeedDocumentVersion(t, ctx, h.tx, docID, owner.ID, v1, true)
	testutil.SeedDocumentVersion(t, ctx, h.tx, docID, owner.ID, v2, true)

	s, err := h.suggestions.Create(ctx, owner.ID, CreateSuggestionInput{
		DocumentID:        docID,
		DocumentCreatedAt: v2,
		OriginalText:      "teh",
		SuggestedText:     "the",
	})
	if err != nil {
		t.Fatalf("Create suggestion: %v", err)
	}
	if !s.AnchorValid {
		t.Error("fresh suggestion reported invalid anchor")
	}

	deleted, err := h.documents.TruncateAfter(ctx, owner.ID, docID, v1)
	if err != nil {
		t.Fatalf("TruncateAfter: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}

	// The suggestion row survives the truncation and reports its anchor gone.
	orphans, err := h.suggestions.ListForVersion(ctx, owner.ID, docID, v2)
	if err != nil {
		t.Fatalf("ListForVersion: %v", err)
	}
	if len(orphans) != 1 {
		t.Fatalf("got %d suggestions, want the orphan", len(orphans))
	}
	if orphans[0].AnchorValid {
		t.Error("orphaned suggestion still reports a valid anchor")
	}
}

func TestListApartmentsFiltersByTypeAndOwner(t *testing.T) {
	h := newDocHarness(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, h.tx, "apt-owner@example.com")
	other := testutil.SeedUser(t, ctx, h.tx, "apt-other@example.com")

	now := time.Now().UTC().Truncate(time.Microsecond)
	apt := &types.Document{
		ID: uuid.New(), CreatedAt: now, Title: "flat", Content: "{}",
		Kind: types.KindText, Type: types.TypeApartment, UserID: owner.ID, Visible: true,
	}
	if err := h.tx.WithContext(ctx).Create(apt).Error; err != nil {
		t.Fatalf("seed apartment: %v", err)
	}
	testutil.SeedDocumentVersion(t, ctx, h.tx, uuid.New(), owner.ID, now, true)

	otherApt := &types.Document{
		ID: uuid.New(), CreatedAt: now, Title: "flat", Content: "{}",
		Kind: types.KindText, Type: types.TypeApartment, UserID: other.ID, Visible: true,
	}
	if err := h.tx.WithContext(ctx).Create(otherApt).Error; err != nil {
		t.Fatalf("seed foreign apartment: %v", err)
	}

	docs, err := h.documents.ListApartments(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListApartments: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != apt.ID {
		t.Errorf("got %d apartments, want only the owner's", len(docs))
	}
}
