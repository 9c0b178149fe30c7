// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// RSVPResponse is a user's answer to an event invitation.
type RSVPResponse string

const (
	// RSVPYes confirms attendance.
	RSVPYes RSVPResponse = "yes"
	// RSVPNo declines attendance.
	RSVPNo RSVPResponse = "no"
	// RSVPMaybe is a tentative answer.
	RSVPMaybe RSVPResponse = "maybe"
)

// Event represents a scheduled race or practice session. Events with a
// TeamID are team events; the rest are open to friends.
type Event struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	TeamID          *uint          `gorm:"index" json:"team_id,omitempty"`
	CreatedBy       uint           `gorm:"not null" json:"created_by"`
	Title           string         `gorm:"not null" json:"title"`
	Track           string         `json:"track"`
	Sim             string         `json:"sim"`
	Description     string         `gorm:"type:text" json:"description"`
	StartsAt        time.Time      `gorm:"not null;index" json:"starts_at"`
	DurationMinutes int            `gorm:"not null" json:"duration_minutes"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	RSVPs []EventRSVP `gorm:"foreignKey:EventID" json:"rsvps,omitempty"`
}

// EventRSVP records one user's response to an event. One row per
// (event, user); responses are upserted.
type EventRSVP struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	EventID   uint         `gorm:"not null;uniqueIndex:idx_event_rsvp" json:"event_id"`
	UserID    uint         `gorm:"not null;uniqueIndex:idx_event_rsvp" json:"user_id"`
	Response  RSVPResponse `gorm:"type:varchar(10);not null" json:"response"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
