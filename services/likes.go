package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jayeshjain4/StatusGo/metrics"
	"github.com/jayeshjain4/StatusGo/models"
	"github.com/jayeshjain4/StatusGo/store"
	"github.com/jayeshjain4/StatusGo/utils"
)

// LikeStore is the storage behind LikeService.
type LikeStore interface {
	GetPost(ctx context.Context, id uint) (*models.Post, error)
	ToggleLike(ctx context.Context, postID, userID uint) (store.ToggleResult, error)
	ListLikes(ctx context.Context, postID uint, offset, limit int) ([]models.Like, int64, error)
}

// LikeResult is the state of a (post, user) pair after a toggle.
type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

type LikeService struct {
	store LikeStore
}

func NewLikeService(st LikeStore) *LikeService {
	return &LikeService{store: st}
}

// Toggle likes the post when the user has not liked it yet and unlikes it otherwise.
// LikeCount is the live like count read before the toggle, plus or minus one.
func (s *LikeService) Toggle(ctx context.Context, userID, postID uint) (*LikeResult, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	res, err := s.store.ToggleLike(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ConflictError(40950, "like already recorded by a concurrent request")
		}
		return nil, InternalError(50050, "failed to toggle like", fmt.Errorf("toggle like: %w", err))
	}
	metrics.RecordLikeToggle(res.Liked)

	count := res.PriorCount - 1
	if res.Liked {
		count = res.PriorCount + 1
	}
	return &LikeResult{Liked: res.Liked, LikeCount: count}, nil
}

// List returns the likes of a post, newest first.
func (s *LikeService) List(ctx context.Context, postID uint, p utils.PageParams) (*Page[models.Like], error) {
	if err := p.Validate(); err != nil {
		return nil, ValidationError(40030, err.Error())
	}
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	likes, total, err := s.store.ListLikes(ctx, postID, p.Offset(), p.Limit)
	if err != nil {
		return nil, InternalError(50051, "failed to list likes", fmt.Errorf("list likes: %w", err))
	}
	return newPage(likes, p, total), nil
}

func (s *LikeService) requirePost(ctx context.Context, postID uint) error {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFoundError(40450, "post not found")
		}
		return InternalError(50052, "failed to load post", fmt.Errorf("get post: %w", err))
	}
	return nil
}
