package models

import "time"

// Category groups posts. Categories are soft-deleted only; the name stays unique
// across every row, deleted ones included.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	ImageURL    *string   `gorm:"size:1024" json:"image_url"`
	Popularity  float64   `gorm:"not null;default:0" json:"popularity"`
	IsDeleted   bool      `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedByID *uint     `gorm:"index" json:"created_by_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategorySummary is the category shape embedded in feed items and preferences.
type CategorySummary struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	ImageURL   *string `json:"image_url"`
	Popularity float64 `json:"popularity"`
}

// Summary returns the embedded representation of c.
func (c Category) Summary() CategorySummary {
	return CategorySummary{ID: c.ID, Name: c.Name, ImageURL: c.ImageURL, Popularity: c.Popularity}
}
