// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// SetupFile is a car-setup file in the vault. Content is an opaque blob;
// the application never interprets the sim's format.
type SetupFile struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	OwnerID    uint           `gorm:"not null;index" json:"owner_id"`
	TeamID     *uint          `gorm:"index" json:"team_id,omitempty"` // set when shared with a team
	Car        string         `gorm:"not null" json:"car"`
	Track      string         `json:"track"`
	Sim        string         `json:"sim"`
	FileName   string         `gorm:"not null" json:"file_name"`
	StorageKey string         `gorm:"uniqueIndex;not null" json:"-"`
	SizeBytes  int64          `json:"size_bytes"`
	Notes      string         `gorm:"type:text" json:"notes"`
	Content    []byte         `gorm:"type:bytea" json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}
