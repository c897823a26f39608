package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. Comments are never edited after
// creation; they are only appended to a post or removed wholesale.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Text      string         `gorm:"not null" json:"text"`
	Name      string         `json:"name"`
	Avatar    string         `json:"avatar"`
	UserID    uint           `gorm:"not null" json:"user_id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
