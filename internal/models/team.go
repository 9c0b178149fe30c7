// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// TeamRole is the role a member holds within a team.
type TeamRole string

const (
	// TeamRoleOwner is the team founder with full control.
	TeamRoleOwner TeamRole = "owner"
	// TeamRoleManager can manage members, events and join requests.
	TeamRoleManager TeamRole = "manager"
	// TeamRoleDriver is a regular member.
	TeamRoleDriver TeamRole = "driver"
)

// Team represents a racing team.
type Team struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"unique;not null" json:"name"`
	Tag         string         `gorm:"size:8" json:"tag"`
	Description string         `gorm:"type:text" json:"description"`
	Avatar      string         `json:"avatar"`
	OwnerID     uint           `gorm:"not null" json:"owner_id"`
	Recruiting  bool           `gorm:"default:true" json:"recruiting"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Members []TeamMembership `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

// TeamMembership ties a user to a team with a role.
type TeamMembership struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeamID    uint      `gorm:"not null;uniqueIndex:idx_team_member" json:"team_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_team_member" json:"user_id"`
	Role      TeamRole  `gorm:"type:varchar(20);default:'driver'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Team *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

// TeamJoinRequestStatus is the review state of a join request.
type TeamJoinRequestStatus string

const (
	// TeamJoinRequestStatusPending awaits review by a team manager.
	TeamJoinRequestStatusPending TeamJoinRequestStatus = "pending"
	// TeamJoinRequestStatusApproved was accepted; membership was created.
	TeamJoinRequestStatusApproved TeamJoinRequestStatus = "approved"
	// TeamJoinRequestStatusRejected was declined.
	TeamJoinRequestStatusRejected TeamJoinRequestStatus = "rejected"
)

// TeamJoinRequest is a user's application to join a team.
type TeamJoinRequest struct {
	ID               uint                  `gorm:"primaryKey" json:"id"`
	TeamID           uint                  `gorm:"not null;index" json:"team_id"`
	UserID           uint                  `gorm:"not null;index" json:"user_id"`
	Message          string                `gorm:"type:text" json:"message"`
	Status           TeamJoinRequestStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	ReviewedByUserID *uint                 `json:"reviewed_by_user_id,omitempty"`
	ReviewedAt       *time.Time            `json:"reviewed_at,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Team *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}
