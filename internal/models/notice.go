// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// NoticeStatus is the open/closed lifecycle state of a notice.
type NoticeStatus string

const (
	// NoticeStatusOpen accepts replies.
	NoticeStatusOpen NoticeStatus = "open"
	// NoticeStatusClosed rejects new replies; the author may reopen.
	NoticeStatusClosed NoticeStatus = "closed"
)

// Notice is a post on the community notice board (driver-wanted ads,
// league announcements, setup trading and the like).
type Notice struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	Title     string         `gorm:"not null" json:"title"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	Category  string         `gorm:"index" json:"category"`
	Status    NoticeStatus   `gorm:"type:varchar(10);default:'open'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author  *User         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Replies []NoticeReply `gorm:"foreignKey:NoticeID" json:"replies,omitempty"`
}

// NoticeReply is a reply on a notice. Replies are only accepted while the
// notice is open.
type NoticeReply struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	NoticeID  uint           `gorm:"not null;index" json:"notice_id"`
	AuthorID  uint           `gorm:"not null" json:"author_id"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
