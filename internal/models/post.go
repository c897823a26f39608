package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is the root aggregate: the post itself plus its likes and comments.
// Likes and Comments are always loaded newest-first so clients can render
// them without sorting.
type Post struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Text   string `gorm:"not null" json:"text"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	// UserID is the post author. It is set at creation and never reassigned.
	UserID    uint           `gorm:"not null" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	Likes     []Like         `gorm:"foreignKey:PostID" json:"likes"`
	Comments  []Comment      `gorm:"foreignKey:PostID" json:"comments"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// LikedBy reports whether the post carries a like by the given user.
func (p *Post) LikedBy(userID uint) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}
