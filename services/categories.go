package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jayeshjain4/StatusGo/models"
	"github.com/jayeshjain4/StatusGo/store"
)

// CategoryStore is the storage behind CategoryService.
type CategoryStore interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	SaveCategory(ctx context.Context, c *models.Category) error
	ListActiveCategories(ctx context.Context) ([]models.Category, error)
}

// CategoryInput carries the editable fields. Nil fields are left untouched on edit.
type CategoryInput struct {
	Name     *string
	ImageURL *string
}

type CategoryService struct {
	store CategoryStore
}

func NewCategoryService(st CategoryStore) *CategoryService {
	return &CategoryService{store: st}
}

// Create adds a category. Names stay reserved after a soft delete.
func (s *CategoryService) Create(ctx context.Context, actorID uint, in CategoryInput) (*models.Category, error) {
	name := ""
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	if name == "" {
		return nil, ValidationError(40020, "category name is required")
	}
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	c := &models.Category{Name: name, ImageURL: normalizeURL(in.ImageURL)}
	if actorID != 0 {
		c.CreatedByID = &actorID
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ConflictError(40920, "category already exists")
		}
		return nil, InternalError(50020, "failed to create category", fmt.Errorf("create category: %w", err))
	}
	return c, nil
}

// Edit renames a category or changes its image.
func (s *CategoryService) Edit(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ValidationError(40020, "category name is required")
		}
		if name != c.Name {
			if err := s.ensureNameFree(ctx, name, c.ID); err != nil {
				return nil, err
			}
			c.Name = name
		}
	}
	if in.ImageURL != nil {
		c.ImageURL = normalizeURL(in.ImageURL)
	}
	if err := s.store.SaveCategory(ctx, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ConflictError(40921, "another category with this name already exists")
		}
		return nil, InternalError(50021, "failed to update category", fmt.Errorf("save category: %w", err))
	}
	return c, nil
}

// Delete soft-deletes a category; deleting twice is rejected.
func (s *CategoryService) Delete(ctx context.Context, id uint) (*models.Category, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsDeleted {
		return nil, ValidationError(40021, "category already deleted")
	}
	c.IsDeleted = true
	if err := s.store.SaveCategory(ctx, c); err != nil {
		return nil, InternalError(50022, "failed to delete category", fmt.Errorf("soft delete category: %w", err))
	}
	return c, nil
}

// List returns active categories, newest first.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	cats, err := s.store.ListActiveCategories(ctx)
	if err != nil {
		return nil, InternalError(50023, "failed to list categories", fmt.Errorf("list categories: %w", err))
	}
	if cats == nil {
		cats = []models.Category{}
	}
	return cats, nil
}

func (s *CategoryService) load(ctx context.Context, id uint) (*models.Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFoundError(40420, "category not found")
		}
		return nil, InternalError(50024, "failed to load category", fmt.Errorf("get category: %w", err))
	}
	return c, nil
}

// ensureNameFree fails when a row other than selfID, deleted or not, owns name.
func (s *CategoryService) ensureNameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.store.GetCategoryByName(ctx, name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return InternalError(50024, "failed to load category", fmt.Errorf("get category by name: %w", err))
	case existing.ID == selfID:
		return nil
	case selfID != 0:
		return ConflictError(40921, "another category with this name already exists")
	default:
		return ConflictError(40920, "category already exists")
	}
}

func normalizeURL(u *string) *string {
	if u == nil {
		return nil
	}
	v := strings.TrimSpace(*u)
	if v == "" {
		return nil
	}
	return &v
}
