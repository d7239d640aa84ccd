package models

import "time"

const (
	DefaultPreferenceWeight = 1.0
	MinPreferenceWeight     = 0.0
	MaxPreferenceWeight     = 5.0
)

// UserPreference is a user's weighted interest in a category, unique per (user, category).
type UserPreference struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	UserID     uint             `gorm:"not null;uniqueIndex:idx_pref_user_category" json:"user_id"`
	CategoryID uint             `gorm:"not null;uniqueIndex:idx_pref_user_category;index" json:"category_id"`
	Weight     float64          `gorm:"not null;default:1" json:"weight"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	Category   *CategorySummary `gorm:"-" json:"category,omitempty"`
}
