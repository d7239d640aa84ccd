package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jayeshjain4/StatusGo/models"
	"github.com/jayeshjain4/StatusGo/store"
	"github.com/jayeshjain4/StatusGo/utils"
)

// PreferenceStore is the storage behind PreferenceService.
type PreferenceStore interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ListPreferences(ctx context.Context, userID uint) ([]models.UserPreference, error)
	CountActiveCategories(ctx context.Context, ids []uint) (int64, error)
	ReplacePreferences(ctx context.Context, userID uint, categoryIDs []uint, weight float64) ([]models.UserPreference, error)
	UpdatePreferenceWeight(ctx context.Context, userID, categoryID uint, weight float64) (*models.UserPreference, error)
	DeletePreference(ctx context.Context, userID, categoryID uint) error
}

// PreferenceList is a user's full preference set.
type PreferenceList struct {
	HasSetPreferences bool                    `json:"has_set_preferences"`
	Preferences       []models.UserPreference `json:"preferences"`
}

// PreferenceService manages per-user category weights.
type PreferenceService struct {
	store PreferenceStore
}

func NewPreferenceService(st PreferenceStore) *PreferenceService {
	return &PreferenceService{store: st}
}

// Get returns the user's preferences ordered by weight desc.
func (s *PreferenceService) Get(ctx context.Context, userID uint) (*PreferenceList, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFoundError(40430, "user not found")
		}
		return nil, InternalError(50040, "failed to load user", fmt.Errorf("get user: %w", err))
	}
	prefs, err := s.store.ListPreferences(ctx, userID)
	if err != nil {
		return nil, InternalError(50041, "failed to load preferences", fmt.Errorf("list preferences: %w", err))
	}
	if prefs == nil {
		prefs = []models.UserPreference{}
	}
	return &PreferenceList{HasSetPreferences: user.HasSetPreferences, Preferences: prefs}, nil
}

// Set replaces the user's preferences with categoryIDs at the default weight.
// The whole request is rejected when any id is zero, repeated, unknown or deleted.
func (s *PreferenceService) Set(ctx context.Context, userID uint, categoryIDs []uint) (*PreferenceList, error) {
	if len(categoryIDs) == 0 {
		return nil, ValidationError(40040, "categoryIds must be a non-empty array")
	}
	for _, id := range categoryIDs {
		if id == 0 {
			return nil, ValidationError(40041, "category ids must be positive integers")
		}
	}
	if utils.HasDuplicates(categoryIDs) {
		return nil, ValidationError(40042, "category ids must not repeat")
	}

	n, err := s.store.CountActiveCategories(ctx, categoryIDs)
	if err != nil {
		return nil, InternalError(50042, "failed to verify categories", fmt.Errorf("count categories: %w", err))
	}
	if n != int64(len(categoryIDs)) {
		return nil, ValidationError(40043, "one or more categories do not exist")
	}

	prefs, err := s.store.ReplacePreferences(ctx, userID, categoryIDs, models.DefaultPreferenceWeight)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ConflictError(40940, "preferences changed concurrently, retry")
		}
		return nil, InternalError(50043, "failed to save preferences", fmt.Errorf("replace preferences: %w", err))
	}
	return &PreferenceList{HasSetPreferences: true, Preferences: prefs}, nil
}

// UpdateWeight changes the weight of one existing preference.
func (s *PreferenceService) UpdateWeight(ctx context.Context, userID, categoryID uint, weight float64) (*models.UserPreference, error) {
	if categoryID == 0 {
		return nil, ValidationError(40041, "category ids must be positive integers")
	}
	if math.IsNaN(weight) || weight < models.MinPreferenceWeight || weight > models.MaxPreferenceWeight {
		return nil, ValidationError(40044, "weight must be a number between 0 and 5")
	}
	pref, err := s.store.UpdatePreferenceWeight(ctx, userID, categoryID, weight)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFoundError(40440, "preference not found")
		}
		return nil, InternalError(50044, "failed to update preference", fmt.Errorf("update weight: %w", err))
	}
	return pref, nil
}

// Remove deletes one preference. A second call for the same pair reports not found.
func (s *PreferenceService) Remove(ctx context.Context, userID, categoryID uint) error {
	if categoryID == 0 {
		return ValidationError(40041, "category ids must be positive integers")
	}
	if err := s.store.DeletePreference(ctx, userID, categoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFoundError(40440, "preference not found")
		}
		return InternalError(50045, "failed to remove preference", fmt.Errorf("delete preference: %w", err))
	}
	return nil
}
