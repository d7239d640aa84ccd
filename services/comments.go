package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jayeshjain4/StatusGo/models"
	"github.com/jayeshjain4/StatusGo/store"
	"github.com/jayeshjain4/StatusGo/utils"
)

// CommentStore is the storage behind CommentService.
type CommentStore interface {
	GetPost(ctx context.Context, id uint) (*models.Post, error)
	CreateComment(ctx context.Context, c *models.Comment) error
	GetComment(ctx context.Context, postID, commentID uint) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID uint) error
	ListComments(ctx context.Context, postID uint, offset, limit int) ([]models.Comment, int64, error)
}

const maxCommentLength = 2000

type CommentService struct {
	store CommentStore
}

func NewCommentService(st CommentStore) *CommentService {
	return &CommentService{store: st}
}

// Create adds a sanitized comment to a post.
func (s *CommentService) Create(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	content = utils.Sanitize(strings.TrimSpace(content))
	if content == "" {
		return nil, ValidationError(40070, "comment content cannot be empty")
	}
	if len([]rune(content)) > maxCommentLength {
		return nil, ValidationError(40071, fmt.Sprintf("comment must be at most %d characters", maxCommentLength))
	}
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	c := &models.Comment{PostID: postID, UserID: userID, Content: content}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, InternalError(50070, "failed to create comment", fmt.Errorf("create comment: %w", err))
	}
	return c, nil
}

// List returns a post's comments, newest first.
func (s *CommentService) List(ctx context.Context, postID uint, p utils.PageParams) (*Page[models.Comment], error) {
	if err := p.Validate(); err != nil {
		return nil, ValidationError(40030, err.Error())
	}
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	comments, total, err := s.store.ListComments(ctx, postID, p.Offset(), p.Limit)
	if err != nil {
		return nil, InternalError(50071, "failed to list comments", fmt.Errorf("list comments: %w", err))
	}
	return newPage(comments, p, total), nil
}

// Delete removes a comment; only its author may do so.
func (s *CommentService) Delete(ctx context.Context, userID, postID, commentID uint) error {
	c, err := s.store.GetComment(ctx, postID, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFoundError(40470, "comment not found")
		}
		return InternalError(50072, "failed to load comment", fmt.Errorf("get comment: %w", err))
	}
	if c.UserID != userID {
		return ForbiddenError(40370, "you can only delete your own comments")
	}
	if err := s.store.DeleteComment(ctx, c.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFoundError(40470, "comment not found")
		}
		return InternalError(50073, "failed to delete comment", fmt.Errorf("delete comment: %w", err))
	}
	return nil
}

func (s *CommentService) requirePost(ctx context.Context, postID uint) error {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFoundError(40460, "post not found")
		}
		return InternalError(50063, "failed to load post", fmt.Errorf("get post: %w", err))
	}
	return nil
}
