package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/holtzen/flatdocs-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedDocumentVersion(tb testing.TB, ctx context.Context, tx *gorm.DB, id uuid.UUID, userID uuid.UUID, createdAt time.Time, visible bool) *types.Document {
	tb.Helper()
	d := &types.Document{
		ID:        id,
		CreatedAt: createdAt,
		Title:     "doc",
		Content:   "content",
		Kind:      types.KindText,
		Type:      types.TypeGeneric,
		UserID:    userID,
		Visible:   visible,
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed document version: %v", err)
	}
	return d
}

func SeedResource(tb testing.TB, ctx context.Context, tx *gorm.DB, content string) *types.Resource {
	tb.Helper()
	r := &types.Resource{
		ID:      uuid.New(),
		Content: content,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed resource: %v", err)
	}
	return r
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
