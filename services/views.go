package services

import (
	"time"

	"github.com/jayeshjain4/StatusGo/models"
	"github.com/jayeshjain4/StatusGo/store"
	"github.com/jayeshjain4/StatusGo/utils"
)

// Page is one window of a list endpoint.
type Page[T any] struct {
	Items      []T            `json:"items"`
	Pagination utils.PageMeta `json:"pagination"`
}

func newPage[T any](items []T, p utils.PageParams, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Pagination: utils.NewPageMeta(p, total)}
}

// PostCounts carries the live engagement counts of a post.
type PostCounts struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// PostView is the post representation returned by post and feed endpoints.
// RelevanceScore is only set on personalized results.
type PostView struct {
	ID             uint                    `json:"id"`
	Attachment     string                  `json:"attachment"`
	CategoryID     *uint                   `json:"category_id"`
	LikeCount      int64                   `json:"like_count"`
	Counts         PostCounts              `json:"counts"`
	Category       *models.CategorySummary `json:"category"`
	RelevanceScore *float64                `json:"relevance_score,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

func postView(r store.PostRow) PostView {
	return PostView{
		ID:         r.ID,
		Attachment: r.Attachment,
		CategoryID: r.CategoryID,
		LikeCount:  r.LikeCount,
		Counts:     PostCounts{Likes: r.LiveLikes, Comments: r.CommentCount},
		Category:   r.Category(),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func postViews(rows []store.PostRow) []PostView {
	out := make([]PostView, 0, len(rows))
	for _, r := range rows {
		out = append(out, postView(r))
	}
	return out
}
