package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/jayeshjain4/StatusGo/models"
)

// ListPreferences returns the user's preferences by weight desc with the category attached.
func (s *Store) ListPreferences(ctx context.Context, userID uint) ([]models.UserPreference, error) {
	return listPreferences(s.conn(ctx), userID)
}

func listPreferences(db *gorm.DB, userID uint) ([]models.UserPreference, error) {
	var prefs []models.UserPreference
	err := db.Where("user_id = ?", userID).
		Order("weight DESC").Order("id ASC").
		Find(&prefs).Error
	if err != nil {
		return nil, err
	}
	if err := attachCategories(db, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func attachCategories(db *gorm.DB, prefs []models.UserPreference) error {
	if len(prefs) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(prefs))
	for _, p := range prefs {
		ids = append(ids, p.CategoryID)
	}
	var cats []models.Category
	if err := db.Where("id IN ?", ids).Find(&cats).Error; err != nil {
		return err
	}
	byID := make(map[uint]models.CategorySummary, len(cats))
	for _, c := range cats {
		byID[c.ID] = c.Summary()
	}
	for i := range prefs {
		if c, ok := byID[prefs[i].CategoryID]; ok {
			prefs[i].Category = &c
		}
	}
	return nil
}

// ReplacePreferences swaps the user's whole preference set for categoryIDs, each at
// weight, and marks the user as having set preferences. Readers see either the old
// set or the new one.
func (s *Store) ReplacePreferences(ctx context.Context, userID uint, categoryIDs []uint, weight float64) ([]models.UserPreference, error) {
	var out []models.UserPreference
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserPreference{}).Error; err != nil {
			return err
		}
		rows := make([]models.UserPreference, 0, len(categoryIDs))
		for _, id := range categoryIDs {
			rows = append(rows, models.UserPreference{UserID: userID, CategoryID: id, Weight: weight})
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("has_set_preferences", true).Error; err != nil {
			return err
		}
		var err error
		out, err = listPreferences(tx, userID)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// UpdatePreferenceWeight sets the weight of an existing (user, category) preference.
func (s *Store) UpdatePreferenceWeight(ctx context.Context, userID, categoryID uint, weight float64) (*models.UserPreference, error) {
	var pref models.UserPreference
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND category_id = ?", userID, categoryID).Take(&pref).Error; err != nil {
			return err
		}
		if err := tx.Model(&pref).Update("weight", weight).Error; err != nil {
			return err
		}
		one := []models.UserPreference{pref}
		if err := attachCategories(tx, one); err != nil {
			return err
		}
		pref = one[0]
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &pref, nil
}

// DeletePreference removes one (user, category) preference; a missing row yields ErrNotFound.
func (s *Store) DeletePreference(ctx context.Context, userID, categoryID uint) error {
	res := s.conn(ctx).Where("user_id = ? AND category_id = ?", userID, categoryID).Delete(&models.UserPreference{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
