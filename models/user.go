package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an account. Passwords are stored as bcrypt hashes only.
// Deleted accounts keep their row and are rejected at login and profile access.
type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	FirstName         string    `gorm:"size:64;not null" json:"first_name"`
	LastName          string    `gorm:"size:64;not null" json:"last_name"`
	Email             string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone             *string   `gorm:"size:32;uniqueIndex" json:"phone,omitempty"`
	PasswordHash      string    `gorm:"size:255;not null" json:"-"`
	ProfileImage      string    `gorm:"size:1024" json:"profile_image,omitempty"`
	Role              string    `gorm:"size:16;not null;default:'USER'" json:"role"`
	IsDeleted         bool      `gorm:"not null;default:false" json:"-"`
	HasSetPreferences bool      `gorm:"not null;default:false" json:"has_set_preferences"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BeforeCreate hook ensures timestamps and role are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// PublicUser is the subset of a user exposed next to likes and comments.
type PublicUser struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	FirstName    string `gorm:"size:64" json:"first_name"`
	LastName     string `gorm:"size:64" json:"last_name"`
	ProfileImage string `gorm:"size:1024" json:"profile_image,omitempty"`
}

func (PublicUser) TableName() string { return "users" }
