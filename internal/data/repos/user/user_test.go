package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/holtzen/flatdocs-backend/internal/data/repos/testutil"
	types "github.com/holtzen/flatdocs-backend/internal/domain"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewUserRepo(db, testutil.Logger(t))

	u := &types.User{ID: uuid.New(), Email: "repo-user@example.com", Password: "hashed"}
	if _, err := repo.Create(ctx, tx, []*types.User{u}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byID, err := repo.GetByIDs(ctx, tx, []uuid.UUID{u.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(byID) != 1 || byID[0].Email != u.Email {
		t.Errorf("GetByIDs = %v, want the created user", byID)
	}

	byEmail, err := repo.GetByEmails(ctx, tx, []string{u.Email})
	if err != nil {
		t.Fatalf("GetByEmails: %v", err)
	}
	if len(byEmail) != 1 || byEmail[0].ID != u.ID {
		t.Errorf("GetByEmails = %v, want the created user", byEmail)
	}

	exists, err := repo.EmailExists(ctx, tx, u.Email)
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Error("EmailExists = false for a created user")
	}
	exists, err = repo.EmailExists(ctx, tx, "nobody@example.com")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if exists {
		t.Error("EmailExists = true for an unknown email")
	}
}
