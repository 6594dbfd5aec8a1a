package resources

import (
	"time"

	"github.com/google/uuid"
)

// Resource is one unit of ingestible knowledge. Content is immutable once
// embedded; re-ingestion creates a new resource rather than editing vectors
// in place.
type Resource struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Content string    `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Resource) TableName() string { return "resources" }
