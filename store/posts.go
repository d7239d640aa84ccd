package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jayeshjain4/StatusGo/models"
)

// PostOrder selects the ordering of a post scan.
type PostOrder int

const (
	// OrderNewest sorts by created_at desc.
	OrderNewest PostOrder = iota
	// OrderPopular sorts by the denormalized like_count desc, then created_at desc.
	OrderPopular
)

// PostFilter narrows a post scan. Zero values mean no restriction.
type PostFilter struct {
	CategoryID *uint
	Since      time.Time
}

// PostRow is a post joined with its category and live engagement counts.
type PostRow struct {
	ID                 uint
	Attachment         string
	CategoryID         *uint
	LikeCount          int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
	CategoryName       *string
	CategoryImageURL   *string
	CategoryPopularity *float64
	LiveLikes          int64
	CommentCount       int64
}

// Category returns the joined category, or nil for uncategorized posts.
func (r PostRow) Category() *models.CategorySummary {
	if r.CategoryID == nil || r.CategoryName == nil {
		return nil
	}
	c := &models.CategorySummary{ID: *r.CategoryID, Name: *r.CategoryName, ImageURL: r.CategoryImageURL}
	if r.CategoryPopularity != nil {
		c.Popularity = *r.CategoryPopularity
	}
	return c
}

const postRowColumns = `posts.id, posts.attachment, posts.category_id, posts.like_count,
	posts.created_at, posts.updated_at,
	categories.name AS category_name, categories.image_url AS category_image_url,
	categories.popularity AS category_popularity,
	(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS live_likes,
	(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count`

func (s *Store) postRows(ctx context.Context) *gorm.DB {
	return s.conn(ctx).Table("posts").
		Select(postRowColumns).
		Joins("LEFT JOIN categories ON categories.id = posts.category_id")
}

func applyPostFilter(q *gorm.DB, f PostFilter) *gorm.DB {
	if f.CategoryID != nil {
		q = q.Where("posts.category_id = ?", *f.CategoryID)
	}
	if !f.Since.IsZero() {
		q = q.Where("posts.created_at >= ?", f.Since)
	}
	return q
}

// CreatePost inserts p.
func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	return translate(s.conn(ctx).Create(p).Error)
}

// GetPost loads a post by id.
func (s *Store) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	if err := s.conn(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// GetPostRow loads one post with its category and counts.
func (s *Store) GetPostRow(ctx context.Context, id uint) (*PostRow, error) {
	var rows []PostRow
	if err := s.postRows(ctx).Where("posts.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// ListPostRows returns one window of the filtered scan in the given order.
func (s *Store) ListPostRows(ctx context.Context, f PostFilter, order PostOrder, offset, limit int) ([]PostRow, error) {
	q := applyPostFilter(s.postRows(ctx), f)
	if order == OrderPopular {
		q = q.Order("posts.like_count DESC")
	}
	q = q.Order("posts.created_at DESC").Order("posts.id DESC")

	var rows []PostRow
	if err := q.Offset(offset).Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountPosts counts posts matching f.
func (s *Store) CountPosts(ctx context.Context, f PostFilter) (int64, error) {
	var n int64
	err := applyPostFilter(s.conn(ctx).Model(&models.Post{}), f).Count(&n).Error
	return n, err
}

// RankingCandidates returns every post whose category is active or absent.
// Scoring happens in the caller; rows come back unordered.
func (s *Store) RankingCandidates(ctx context.Context) ([]PostRow, error) {
	var rows []PostRow
	err := s.postRows(ctx).
		Where("posts.category_id IS NULL OR categories.is_deleted = ?", false).
		Scan(&rows).Error
	return rows, err
}

// CountPreferredOrUncategorized counts posts filed under one of ids or under no category.
func (s *Store) CountPreferredOrUncategorized(ctx context.Context, ids []uint) (int64, error) {
	q := s.conn(ctx).Model(&models.Post{})
	if len(ids) > 0 {
		q = q.Where("category_id IN ? OR category_id IS NULL", ids)
	} else {
		q = q.Where("category_id IS NULL")
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
