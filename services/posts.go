package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jayeshjain4/StatusGo/models"
	"github.com/jayeshjain4/StatusGo/storage"
	"github.com/jayeshjain4/StatusGo/store"
	"github.com/jayeshjain4/StatusGo/utils"
)

// PostStore is the storage behind PostService.
type PostStore interface {
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	CreatePost(ctx context.Context, p *models.Post) error
	GetPostRow(ctx context.Context, id uint) (*store.PostRow, error)
	ListPostRows(ctx context.Context, f store.PostFilter, order store.PostOrder, offset, limit int) ([]store.PostRow, error)
	CountPosts(ctx context.Context, f store.PostFilter) (int64, error)
}

// PostFolder is the upload folder of post attachments.
const PostFolder = "posts"

type PostService struct {
	store    PostStore
	uploader storage.Uploader
}

func NewPostService(st PostStore, up storage.Uploader) *PostService {
	return &PostService{store: st, uploader: up}
}

// Create uploads the attachment and stores the post. The category, when given,
// must exist and be active.
func (s *PostService) Create(ctx context.Context, categoryID *uint, file storage.Object) (*PostView, error) {
	if categoryID != nil {
		c, err := s.store.GetCategory(ctx, *categoryID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, InternalError(50060, "failed to load category", fmt.Errorf("get category: %w", err))
		}
		if err != nil || c.IsDeleted {
			return nil, ValidationError(40061, "category does not exist")
		}
	}

	url, err := s.uploader.Upload(ctx, PostFolder, file)
	if err != nil {
		if verr := uploadError(err); verr != nil {
			return nil, verr
		}
		return nil, InternalError(50061, "failed to store attachment", fmt.Errorf("upload attachment: %w", err))
	}

	post := &models.Post{Attachment: url, CategoryID: categoryID}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, InternalError(50062, "failed to create post", fmt.Errorf("create post: %w", err))
	}
	return s.Get(ctx, post.ID)
}

// Get returns one post with its counts.
func (s *PostService) Get(ctx context.Context, id uint) (*PostView, error) {
	row, err := s.store.GetPostRow(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFoundError(40460, "post not found")
		}
		return nil, InternalError(50063, "failed to load post", fmt.Errorf("get post: %w", err))
	}
	v := postView(*row)
	return &v, nil
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context, p utils.PageParams) (*Page[PostView], error) {
	return s.list(ctx, store.PostFilter{}, p)
}

// ListByCategory returns the posts of one active category, newest first.
func (s *PostService) ListByCategory(ctx context.Context, categoryID uint, p utils.PageParams) (*Page[PostView], error) {
	if err := p.Validate(); err != nil {
		return nil, ValidationError(40030, err.Error())
	}
	c, err := s.store.GetCategory(ctx, categoryID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, InternalError(50060, "failed to load category", fmt.Errorf("get category: %w", err))
	}
	if err != nil || c.IsDeleted {
		return nil, NotFoundError(40420, "category not found")
	}
	return s.list(ctx, store.PostFilter{CategoryID: &categoryID}, p)
}

func (s *PostService) list(ctx context.Context, f store.PostFilter, p utils.PageParams) (*Page[PostView], error) {
	if err := p.Validate(); err != nil {
		return nil, ValidationError(40030, err.Error())
	}
	rows, err := s.store.ListPostRows(ctx, f, store.OrderNewest, p.Offset(), p.Limit)
	if err != nil {
		return nil, InternalError(50064, "failed to list posts", fmt.Errorf("list posts: %w", err))
	}
	total, err := s.store.CountPosts(ctx, f)
	if err != nil {
		return nil, InternalError(50065, "failed to count posts", fmt.Errorf("count posts: %w", err))
	}
	return newPage(postViews(rows), p, total), nil
}

// uploadError maps client-caused upload failures to validation errors.
func uploadError(err error) *Error {
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		return ValidationError(40062, storage.ErrUnsupportedType.Error())
	case errors.Is(err, storage.ErrFileTooLarge):
		return ValidationError(40063, storage.ErrFileTooLarge.Error())
	case errors.Is(err, storage.ErrEmptyFile):
		return ValidationError(40064, "attachment is required")
	default:
		return nil
	}
}
