package services

import (
	"context"
	"testing"

	"github.com/jayeshjain4/StatusGo/models"
	"github.com/jayeshjain4/StatusGo/store"
	"github.com/jayeshjain4/StatusGo/utils"
)

type fakeLikeStore struct {
	posts     map[uint]bool
	likes     map[[2]uint]bool
	duplicate bool
}

func (f *fakeLikeStore) GetPost(_ context.Context, id uint) (*models.Post, error) {
	if !f.posts[id] {
		return nil, store.ErrNotFound
	}
	return &models.Post{ID: id}, nil
}

func (f *fakeLikeStore) ToggleLike(_ context.Context, postID, userID uint) (store.ToggleResult, error) {
	if f.duplicate {
		return store.ToggleResult{}, store.ErrDuplicate
	}
	var prior int64
	for k := range f.likes {
		if k[0] == postID {
			prior++
		}
	}
	key := [2]uint{postID, userID}
	if f.likes[key] {
		delete(f.likes, key)
		return store.ToggleResult{Liked: false, PriorCount: prior}, nil
	}
	f.likes[key] = true
	return store.ToggleResult{Liked: true, PriorCount: prior}, nil
}

func (f *fakeLikeStore) ListLikes(_ context.Context, postID uint, _, _ int) ([]models.Like, int64, error) {
	var out []models.Like
	for k := range f.likes {
		if k[0] == postID {
			out = append(out, models.Like{PostID: k[0], UserID: k[1]})
		}
	}
	return out, int64(len(out)), nil
}

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	st := &fakeLikeStore{posts: map[uint]bool{1: true}, likes: map[[2]uint]bool{{1, 50}: true}}
	svc := NewLikeService(st)

	first, err := svc.Toggle(context.Background(), 7, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !first.Liked || first.LikeCount != 2 {
		t.Fatalf("first = %+v, want liked with 2", first)
	}
	second, err := svc.Toggle(context.Background(), 7, 1)
	if err != nil {
		t.Fatal(err)
	}
	if second.Liked || second.LikeCount != 1 {
		t.Fatalf("second = %+v, want unliked with 1", second)
	}
}

func TestToggleLikeErrors(t *testing.T) {
	st := &fakeLikeStore{posts: map[uint]bool{1: true}, likes: map[[2]uint]bool{}}
	svc := NewLikeService(st)

	if _, err := svc.Toggle(context.Background(), 7, 2); KindOf(err) != KindNotFound {
		t.Fatalf("unknown post err = %v", err)
	}
	st.duplicate = true
	if _, err := svc.Toggle(context.Background(), 7, 1); KindOf(err) != KindConflict {
		t.Fatalf("concurrent insert err = %v, want conflict", err)
	}
}

func TestListLikesPagination(t *testing.T) {
	st := &fakeLikeStore{posts: map[uint]bool{1: true}, likes: map[[2]uint]bool{{1, 2}: true, {1, 3}: true}}
	svc := NewLikeService(st)

	page, err := svc.List(context.Background(), 1, utils.PageParams{Page: 1, Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if page.Pagination.TotalItems != 2 || page.Pagination.TotalPages != 2 || !page.Pagination.HasNextPage {
		t.Fatalf("pagination = %+v", page.Pagination)
	}
	if _, err := svc.List(context.Background(), 1, utils.PageParams{Page: 1, Limit: 500}); KindOf(err) != KindValidation {
		t.Fatalf("limit 500 err = %v", err)
	}
}
