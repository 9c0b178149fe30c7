// Package models contains data structures for the application's domain models.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// StringList is a string slice stored as a JSON column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
}

// User represents a racer's account and profile in RaceMates.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	// Racing profile, populated by the onboarding wizard.
	DisplayName    string     `json:"display_name"`
	Region         string     `json:"region"`
	Timezone       string     `json:"timezone"`
	Avatar         string     `json:"avatar"`
	Bio            string     `json:"bio"`
	Platforms      StringList `gorm:"type:json" json:"platforms"`
	IRating        int        `json:"irating"`
	SafetyRating   float64    `json:"safety_rating"`
	LicenseClass   string     `json:"license_class"`
	TTRating       int        `json:"tt_rating"`
	DrivingStyles  StringList `gorm:"type:json" json:"driving_styles"`
	RoleTags       StringList `gorm:"type:json" json:"role_tags"`
	LookingForTeam bool       `gorm:"default:false" json:"looking_for_team"`

	XP                 int  `gorm:"default:0" json:"xp"`
	OnboardingComplete bool `gorm:"default:false" json:"onboarding_complete"`
	IsAdmin            bool `gorm:"default:false" json:"is_admin"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
