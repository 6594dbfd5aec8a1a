package db

import (
	"fmt"

	types "github.com/holtzen/flatdocs-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity + auth
		&types.User{},
		&types.UserToken{},

		// Versioned documents
		&types.Document{},
		&types.Suggestion{},

		// Retrieval corpus
		&types.Resource{},
		&types.Embedding{},
	)
}

// EnsureConstraints adds the relationships AutoMigrate cannot express.
// The suggestion anchor is deliberately not a hard foreign key: truncation
// must be able to delete document versions while suggestions stay behind and
// report anchor_valid=false. Anchor existence is validated at write time.
func EnsureConstraints(db *gorm.DB) error {
	if err := db.Exec(`
		DO $$ BEGIN
			ALTER TABLE "user_token"
			ADD CONSTRAINT "fk_user_token_user_id"
			FOREIGN KEY ("user_id")
			REFERENCES "user"("id")
			ON DELETE CASCADE;
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$;
	`).Error; err != nil {
		return fmt.Errorf("add fk_user_token_user_id: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS "embedding_index"
		ON "embeddings"
		USING hnsw ("embedding" vector_cosine_ops);
	`).Error; err != nil {
		return fmt.Errorf("create embedding_index: %w", err)
	}

	return nil
}
