package store

import (
	"context"

	"github.com/jayeshjain4/StatusGo/models"
)

// CreateComment inserts c and loads its author.
func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	if err := s.conn(ctx).Create(c).Error; err != nil {
		return translate(err)
	}
	var author models.PublicUser
	if err := s.conn(ctx).First(&author, c.UserID).Error; err == nil {
		c.User = &author
	}
	return nil
}

// GetComment loads a comment of the given post.
func (s *Store) GetComment(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	var c models.Comment
	if err := s.conn(ctx).Where("id = ? AND post_id = ?", commentID, postID).Take(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// DeleteComment hard-deletes a comment by id.
func (s *Store) DeleteComment(ctx context.Context, commentID uint) error {
	res := s.conn(ctx).Delete(&models.Comment{}, commentID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListComments returns one window of a post's comments, newest first, plus the total.
func (s *Store) ListComments(ctx context.Context, postID uint, offset, limit int) ([]models.Comment, int64, error) {
	var total int64
	if err := s.conn(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var comments []models.Comment
	err := s.conn(ctx).Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}
