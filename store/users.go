package store

import (
	"context"

	"github.com/jayeshjain4/StatusGo/models"
)

// CreateUser inserts u; a taken email or phone yields ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.conn(ctx).Create(u).Error)
}

// GetUser loads a user by id, deleted accounts included.
func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// GetUserByEmail loads a user by email, deleted accounts included.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// UserExists reports whether an account already uses email or phone.
func (s *Store) UserExists(ctx context.Context, email string, phone *string) (bool, error) {
	q := s.conn(ctx).Model(&models.User{}).Where("email = ?", email)
	if phone != nil && *phone != "" {
		q = q.Or("phone = ?", *phone)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveUser persists every field of u.
func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	return translate(s.conn(ctx).Save(u).Error)
}

// ListUsers returns non-deleted users, newest first, plus their total count.
func (s *Store) ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	q := s.conn(ctx).Model(&models.User{}).Where("is_deleted = ?", false)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	if err := q.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
