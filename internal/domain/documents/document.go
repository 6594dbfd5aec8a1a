package documents

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DocumentKind is the content format of a document version.
type DocumentKind string

const (
	KindText DocumentKind = "text"
	KindCode DocumentKind = "code"
)

func (k DocumentKind) Valid() bool {
	switch k {
	case KindText, KindCode:
		return true
	}
	return false
}

// DocumentType is the variant tag. Apartment documents carry a structured
// payload in Properties; generic documents leave it null.
type DocumentType string

const (
	TypeGeneric   DocumentType = "generic"
	TypeApartment DocumentType = "apartment"
)

func (t DocumentType) Valid() bool {
	switch t {
	case TypeGeneric, TypeApartment:
		return true
	}
	return false
}

// Document is one immutable version of a logical document. Identity is the
// pair (ID, CreatedAt): every edit inserts a new row under the same ID, and
// the row with the greatest CreatedAt is the current version.
type Document struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"primaryKey;not null;default:now();column:created_at" json:"created_at"`

	Title      string         `gorm:"type:text;not null" json:"title"`
	Content    string         `gorm:"type:text" json:"content"`
	Kind       DocumentKind   `gorm:"size:16;not null;default:'text'" json:"kind"`
	Type       DocumentType   `gorm:"size:16;not null;default:'generic';index" json:"type"`
	Properties datatypes.JSON `gorm:"type:jsonb" json:"properties,omitempty"`

	UserID  uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Visible bool      `gorm:"not null;default:true" json:"visible"`
}

func (Document) TableName() string { return "document" }

// ApartmentProperties is the typed payload behind an apartment document.
type ApartmentProperties struct {
	Address   string   `json:"address,omitempty"`
	Rooms     int      `json:"rooms,omitempty"`
	AreaSqm   float64  `json:"area_sqm,omitempty"`
	RentMonth float64  `json:"rent_month,omitempty"`
	Images    []string `json:"images,omitempty"`
}

// Apartment decodes the properties payload. It fails for non-apartment
// documents so variant access stays exhaustive instead of duck-typed.
func (d *Document) Apartment() (*ApartmentProperties, error) {
	if d.Type != TypeApartment {
		return nil, fmt.Errorf("document %s is %q, not apartment", d.ID, d.Type)
	}
	props := &ApartmentProperties{}
	if len(d.Properties) == 0 {
		return props, nil
	}
	if err := json.Unmarshal(d.Properties, props); err != nil {
		return nil, fmt.Errorf("decode apartment properties: %w", err)
	}
	return props, nil
}
