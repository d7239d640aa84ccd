package store

import (
	"context"

	"github.com/jayeshjain4/StatusGo/models"
)

// CreateCategory inserts c; the name index spans soft-deleted rows too.
func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(s.conn(ctx).Create(c).Error)
}

// GetCategory loads a category by id whether or not it is deleted.
func (s *Store) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := s.conn(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// GetCategoryByName looks the name up across all rows, soft-deleted included.
func (s *Store) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	if err := s.conn(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// SaveCategory persists every field of c.
func (s *Store) SaveCategory(ctx context.Context, c *models.Category) error {
	return translate(s.conn(ctx).Save(c).Error)
}

// ListActiveCategories returns non-deleted categories, newest first.
func (s *Store) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := s.conn(ctx).
		Where("is_deleted = ?", false).
		Order("created_at DESC").Order("id DESC").
		Find(&cats).Error
	return cats, err
}

// CountActiveCategories counts how many of ids name existing, non-deleted categories.
func (s *Store) CountActiveCategories(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := s.conn(ctx).Model(&models.Category{}).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Count(&n).Error
	return n, err
}
