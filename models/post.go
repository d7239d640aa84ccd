package models

import "time"

// Post is an uploaded image or video, optionally filed under a category.
// LikeCount is a denormalized counter maintained by the like toggle.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Attachment string    `gorm:"size:1024;not null" json:"attachment"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	LikeCount  int64     `gorm:"not null;default:0;index" json:"like_count"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
}
