// Package models contains data structures for the application's domain models.
package models

import "time"

// FriendLinkStatus represents the lifecycle state of a friend link.
type FriendLinkStatus string

const (
	// FriendLinkStatusPending indicates an unanswered friend request.
	FriendLinkStatusPending FriendLinkStatus = "pending"
	// FriendLinkStatusAccepted indicates an established friendship.
	FriendLinkStatusAccepted FriendLinkStatus = "accepted"
	// FriendLinkStatusRejected indicates a declined friend request.
	FriendLinkStatusRejected FriendLinkStatus = "rejected"
	// FriendLinkStatusBlocked indicates one party blocked the other.
	FriendLinkStatusBlocked FriendLinkStatus = "blocked"
)

// FriendLink is a directed proposal between two users. Once accepted it
// denotes an undirected friendship; direction is kept to distinguish sent
// from received pending requests.
type FriendLink struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RequesterID uint             `gorm:"not null;uniqueIndex:idx_friend_link_pair" json:"requester_id"`
	AddresseeID uint             `gorm:"not null;uniqueIndex:idx_friend_link_pair" json:"addressee_id"`
	Status      FriendLinkStatus `gorm:"type:varchar(20);default:'pending';index:idx_friend_links_status" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Denormalized projections of each side. Optional: populated only when
	// the query preloads them, and either may be absent if the account was
	// deleted. Consumers must not assume presence.
	Requester *User `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Addressee *User `gorm:"foreignKey:AddresseeID" json:"addressee,omitempty"`
}

// TableName specifies the table name for GORM
func (FriendLink) TableName() string {
	return "friend_links"
}
