package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/holtzen/flatdocs-backend/internal/data/repos/testutil"
	"github.com/holtzen/flatdocs-backend/internal/platform/apierr"
)

func TestSuggestionCreateRejectsDanglingAnchor(t *testing.T) {
	h := newDocHarness(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, h.tx, "dangle@example.com")

	docID := uuid.New()
	anchor := time.Now().UTC().Truncate(time.Microsecond)
	testutil.SeedDocumentVersion(t, ctx, h.tx, docID, user.ID, anchor, true)

	in := CreateSuggestionInput{
		DocumentID:        docID,
		DocumentCreatedAt: anchor.Add(time.Minute), // never written
		OriginalText:      "a",
		SuggestedText:     "b",
	}
	_, err := h.suggestions.Create(ctx, user.ID, in)
	if errCode(err) != apierr.CodeDanglingAnchor {
		t.Fatalf("dangling anchor: got %v, want dangling_anchor", err)
	}

	// Unknown document entirely.
	in.DocumentID = uuid.New()
	_, err = h.suggestions.Create(ctx, user.ID, in)
	if errCode(err) != apierr.CodeDanglingAnchor {
		t.Errorf("unknown document: got %v, want dangling_anchor", err)
	}

	in.DocumentID = docID
	in.DocumentCreatedAt = anchor
	if _, err := h.suggestions.Create(ctx, user.ID, in); err != nil {
		t.Errorf("valid anchor: %v", err)
	}
}

func TestSuggestionCreateValidation(t *testing.T) {
	h := newDocHarness(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, h.tx, "sugval@example.com")
	anchor := time.Now().UTC().Truncate(time.Microsecond)

	cases := []CreateSuggestionInput{
		{DocumentCreatedAt: anchor, OriginalText: "a", SuggestedText: "b"},
		{DocumentID: uuid.New(), OriginalText: "a", SuggestedText: "b"},
		{DocumentID: uuid.New(), DocumentCreatedAt: anchor, SuggestedText: "b"},
		{DocumentID: uuid.New(), DocumentCreatedAt: anchor, OriginalText: "a"},
	}
	for i, in := range cases {
		if _, err := h.suggestions.Create(ctx, user.ID, in); errCode(err) != apierr.CodeInvalidInput {
			t.Errorf("case %d: got %v, want invalid_input", i, err)
		}
	}
}

func TestSuggestionResolveOnce(t *testing.T) {
	h := newDocHarness(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, h.tx, "resolve-once@example.com")

	docID := uuid.New()
	anchor := time.Now().UTC().Truncate(time.Microsecond)
	testutil.SeedDocumentVersion(t, ctx, h.tx, docID, user.ID, anchor, true)

	s, err := h.suggestions.Create(ctx, user.ID, CreateSuggestionInput{
		DocumentID:        docID,
		DocumentCreatedAt: anchor,
		OriginalText:      "a",
		SuggestedText:     "b",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resolved, err := h.suggestions.Resolve(ctx, user.ID, s.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !resolved.IsResolved {
		t.Error("resolved suggestion not flagged")
	}

	// The second resolve is an explicit failure, not a silent no-op.
	_, err = h.suggestions.Resolve(ctx, user.ID, s.ID)
	if errCode(err) != apierr.CodeAlreadyResolved {
		t.Fatalf("second resolve: got %v, want already_resolved", err)
	}

	_, err = h.suggestions.Resolve(ctx, user.ID, uuid.New())
	if errCode(err) != apierr.CodeNotFound {
		t.Errorf("unknown suggestion: got %v, want not_found", err)
	}
}

func TestSuggestionCreateHonorsDocumentReadRule(t *testing.T) {
	h := newDocHarness(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, h.tx, "anchor-owner@example.com")
	stranger := testutil.SeedUser(t, ctx, h.tx, "anchor-stranger@example.com")

	hiddenID := uuid.New()
	visibleID := uuid.New()
	anchor := time.Now().UTC().Truncate(time.Microsecond)
	testutil.SeedDocumentVersion(t, ctx, h.tx, hiddenID, owner.ID, anchor, false)
	testutil.SeedDocumentVersion(t, ctx, h.tx, visibleID, owner.ID, anchor, true)

	in := CreateSuggestionInput{
		DocumentID:        hiddenID,
		DocumentCreatedAt: anchor,
		OriginalText:      "a",
		SuggestedText:     "b",
	}
	if _, err := h.suggestions.Create(ctx, stranger.ID, in); errCode(err) != apierr.CodeUnauthorized {
		t.Errorf("hidden foreign anchor: got %v, want unauthorized", err)
	}
	// The owner can still annotate their own hidden document.
	if _, err := h.suggestions.Create(ctx, owner.ID, in); err != nil {
		t.Errorf("hidden own anchor: %v", err)
	}
	in.DocumentID = visibleID
	if _, err := h.suggestions.Create(ctx, stranger.ID, in); err != nil {
		t.Errorf("visible foreign anchor: %v", err)
	}

	if _, err := h.suggestions.ListForVersion(ctx, stranger.ID, hiddenID, anchor); errCode(err) != apierr.CodeUnauthorized {
		t.Errorf("list hidden foreign anchor: got %v, want unauthorized", err)
	}
	if _, err := h.suggestions.ListForVersion(ctx, stranger.ID, visibleID, anchor); err != nil {
		t.Errorf("list visible foreign anchor: %v", err)
	}
}

func TestSuggestionResolveAuthorization(t *testing.T) {
	h := newDocHarness(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, h.tx, "resolve-owner@example.com")
	author := testutil.SeedUser(t, ctx, h.tx, "resolve-author@example.com")
	stranger := testutil.SeedUser(t, ctx, h.tx, "resolve-stranger@example.com")

	docID := uuid.New()
	anchor := time.Now().UTC().Truncate(time.Microsecond)
	testutil.SeedDocumentVersion(t, ctx, h.tx, docID, owner.ID, anchor, true)

	mkSuggestion := func() uuid.UUID {
		t.Helper()
		s, err := h.suggestions.Create(ctx, author.ID, CreateSuggestionInput{
			DocumentID:        docID,
			DocumentCreatedAt: anchor,
			OriginalText:      "a",
			SuggestedText:     "b",
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		return s.ID
	}

	id := mkSuggestion()
	if _, err := h.suggestions.Resolve(ctx, stranger.ID, id); errCode(err) != apierr.CodeUnauthorized {
		t.Fatalf("stranger resolve: got %v, want unauthorized", err)
	}
	if _, err := h.suggestions.Resolve(ctx, author.ID, id); err != nil {
		t.Errorf("author resolve: %v", err)
	}
	if _, err := h.suggestions.Resolve(ctx, owner.ID, mkSuggestion()); err != nil {
		t.Errorf("document owner resolve: %v", err)
	}
}
