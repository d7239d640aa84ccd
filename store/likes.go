package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jayeshjain4/StatusGo/models"
)

// ToggleResult reports the outcome of ToggleLike.
type ToggleResult struct {
	Liked      bool
	PriorCount int64
}

// ToggleLike flips the (post, user) like inside one transaction. PriorCount is the
// live number of like rows read before the flip. A concurrent insert of the same
// pair loses on the unique index and yields ErrDuplicate.
func (s *Store) ToggleLike(ctx context.Context, postID, userID uint) (ToggleResult, error) {
	var res ToggleResult
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&res.PriorCount).Error; err != nil {
			return err
		}

		var existing models.Like
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).Take(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			res.Liked = false
			return tx.Model(&models.Post{}).Where("id = ?", postID).
				Update("like_count", gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Like{PostID: postID, UserID: userID}).Error; err != nil {
				return err
			}
			res.Liked = true
			return tx.Model(&models.Post{}).Where("id = ?", postID).
				Update("like_count", gorm.Expr("like_count + 1")).Error
		default:
			return err
		}
	})
	if err != nil {
		return ToggleResult{}, translate(err)
	}
	return res, nil
}

// ListLikes returns one window of a post's likes, newest first, with the liker's
// public fields, plus the total like count.
func (s *Store) ListLikes(ctx context.Context, postID uint, offset, limit int) ([]models.Like, int64, error) {
	var total int64
	if err := s.conn(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var likes []models.Like
	err := s.conn(ctx).Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&likes).Error
	if err != nil {
		return nil, 0, err
	}
	return likes, total, nil
}

// CategoryEngagement counts the user's likes per category of the liked post.
// Likes on uncategorized posts are skipped.
func (s *Store) CategoryEngagement(ctx context.Context, userID uint) (map[uint]int64, error) {
	var rows []struct {
		CategoryID uint
		Total      int64
	}
	err := s.conn(ctx).Table("likes").
		Select("posts.category_id AS category_id, COUNT(*) AS total").
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("likes.user_id = ? AND posts.category_id IS NOT NULL", userID).
		Group("posts.category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, r := range rows {
		out[r.CategoryID] = r.Total
	}
	return out, nil
}
