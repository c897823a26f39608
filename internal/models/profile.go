package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile is the public-facing profile attached to a user. Like and unlike
// actions are gated on a profile existing for the requesting user.
type Profile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	Handle    string         `gorm:"unique;not null" json:"handle"`
	Company   string         `json:"company"`
	Website   string         `json:"website"`
	Location  string         `json:"location"`
	Status    string         `json:"status"`
	Bio       string         `json:"bio"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
