package documents

import (
	"time"

	"github.com/google/uuid"
)

// Suggestion is an edit suggestion anchored to one exact document version
// (DocumentID, DocumentCreatedAt). It never floats to the latest version;
// when the anchor row is truncated away the suggestion reports
// AnchorValid=false instead of disappearing.
type Suggestion struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentID        uuid.UUID `gorm:"type:uuid;not null;index:idx_suggestion_anchor;column:document_id" json:"document_id"`
	DocumentCreatedAt time.Time `gorm:"not null;index:idx_suggestion_anchor;column:document_created_at" json:"document_created_at"`

	OriginalText  string `gorm:"type:text;not null;column:original_text" json:"original_text"`
	SuggestedText string `gorm:"type:text;not null;column:suggested_text" json:"suggested_text"`
	Description   string `gorm:"type:text" json:"description,omitempty"`
	IsResolved    bool   `gorm:"not null;default:false;column:is_resolved" json:"is_resolved"`

	UserID    uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`

	// AnchorValid is computed at read time, never stored.
	AnchorValid bool `gorm:"-" json:"anchor_valid"`
}

func (Suggestion) TableName() string { return "suggestion" }
