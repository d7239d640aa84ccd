package models

import "time"

// Like records that a user liked a post. The (post_id, user_id) pair is unique.
type Like struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	PostID    uint        `gorm:"not null;uniqueIndex:idx_like_post_user" json:"post_id"`
	UserID    uint        `gorm:"not null;uniqueIndex:idx_like_post_user;index" json:"user_id"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
	User      *PublicUser `gorm:"foreignKey:UserID;-:migration" json:"user,omitempty"`
}
