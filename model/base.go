package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document carries the identity and timestamps shared by every stored record.
// IDs are opaque UUID strings generated at insert time.
type Document struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" example:"3f1c7f0e-8a4e-4d4b-9a59-1f1f3c1c2b7d"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a fresh identifier unless one was set by the caller.
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// GetID returns the document identifier.
func (d Document) GetID() string {
	return d.ID
}
