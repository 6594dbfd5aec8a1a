package resources

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// VectorDim is the fixed dimensionality of every stored embedding. It must
// match the vector column type and the embedding model output.
const VectorDim = 1536

// Embedding is one chunk of a resource with its vector. Rows are
// cascade-deleted with their owning resource.
type Embedding struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ResourceID uuid.UUID       `gorm:"type:uuid;not null;index;column:resource_id" json:"resource_id"`
	Resource   *Resource       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ResourceID;references:ID" json:"resource,omitempty"`
	ChunkIndex int             `gorm:"not null;column:chunk_index" json:"chunk_index"`
	Content    string          `gorm:"type:text;not null" json:"content"`
	Embedding  pgvector.Vector `gorm:"type:vector(1536)" json:"-"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Embedding) TableName() string { return "embeddings" }

// EmbeddingMatch is one similarity-search hit. Score is cosine similarity
// in [-1, 1].
type EmbeddingMatch struct {
	ResourceID uuid.UUID `json:"resource_id"`
	Content    string    `json:"content"`
	Score      float64   `json:"score"`
}
