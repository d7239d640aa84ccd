package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jayeshjain4/StatusGo/models"
	"github.com/jayeshjain4/StatusGo/store"
	"github.com/jayeshjain4/StatusGo/utils"
)

type fakeFeedStore struct {
	user         *models.User
	prefs        []models.UserPreference
	engagement   map[uint]int64
	candidates   []store.PostRow
	candidateErr error
	listed       []store.PostRow
	listTotal    int64
	prefTotal    int64
	lastFilter   store.PostFilter
	lastOrder    store.PostOrder
	calls        int
}

func (f *fakeFeedStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	f.calls++
	if f.user == nil || f.user.ID != id {
		return nil, store.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeFeedStore) ListPreferences(context.Context, uint) ([]models.UserPreference, error) {
	f.calls++
	return f.prefs, nil
}

func (f *fakeFeedStore) CategoryEngagement(context.Context, uint) (map[uint]int64, error) {
	f.calls++
	return f.engagement, nil
}

func (f *fakeFeedStore) RankingCandidates(context.Context) ([]store.PostRow, error) {
	f.calls++
	return f.candidates, f.candidateErr
}

func (f *fakeFeedStore) CountPreferredOrUncategorized(context.Context, []uint) (int64, error) {
	f.calls++
	return f.prefTotal, nil
}

func (f *fakeFeedStore) ListPostRows(_ context.Context, filter store.PostFilter, order store.PostOrder, _, _ int) ([]store.PostRow, error) {
	f.calls++
	f.lastFilter, f.lastOrder = filter, order
	return f.listed, nil
}

func (f *fakeFeedStore) CountPosts(context.Context, store.PostFilter) (int64, error) {
	f.calls++
	return f.listTotal, nil
}

func uintPtr(v uint) *uint        { return &v }
func strPtr(v string) *string     { return &v }
func floatPtr(v float64) *float64 { return &v }

var feedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newFeed(st FeedStore) *FeedService {
	s := NewFeedService(st, 7*24*time.Hour)
	s.now = func() time.Time { return feedNow }
	return s
}

func row(id uint, cat *uint, popularity float64, likes int64, age time.Duration) store.PostRow {
	r := store.PostRow{ID: id, Attachment: "a.jpg", CategoryID: cat, LikeCount: likes, LiveLikes: likes, CreatedAt: feedNow.Add(-age)}
	if cat != nil {
		r.CategoryName = strPtr("c")
		r.CategoryPopularity = floatPtr(popularity)
	}
	return r
}

func TestPersonalizedFeedRanksPreferredFirst(t *testing.T) {
	st := &fakeFeedStore{
		user: &models.User{ID: 7, HasSetPreferences: true},
		prefs: []models.UserPreference{
			{UserID: 7, CategoryID: 1, Weight: 2, Category: &models.CategorySummary{ID: 1, Name: "cat1"}},
			{UserID: 7, CategoryID: 2, Weight: 1, Category: &models.CategorySummary{ID: 2, Name: "cat2"}},
		},
		engagement: map[uint]int64{1: 3},
		candidates: []store.PostRow{
			row(20, uintPtr(3), 5, 10, time.Hour), // B
			row(10, uintPtr(1), 5, 10, time.Hour), // A
			row(30, nil, 0, 0, 2*time.Hour),
		},
		prefTotal: 2,
	}

	page, err := newFeed(st).PersonalizedFeed(context.Background(), 7, utils.PageParams{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("PersonalizedFeed: %v", err)
	}
	if page.Strategy != StrategyPersonalized {
		t.Fatalf("strategy = %q", page.Strategy)
	}
	if len(page.Items) != 3 || page.Items[0].ID != 10 || page.Items[1].ID != 20 {
		t.Fatalf("order = %+v", page.Items)
	}
	if got := *page.Items[0].RelevanceScore; math.Abs(got-304.9) > 1e-9 {
		t.Fatalf("A score = %v, want 304.9", got)
	}
	if got := *page.Items[1].RelevanceScore; math.Abs(got-29.95) > 1e-9 {
		t.Fatalf("B score = %v, want 29.95", got)
	}
	// Pagination follows the preferred-or-uncategorized count, not the ranked set.
	if page.Pagination.TotalItems != 2 || page.Pagination.TotalPages != 1 {
		t.Fatalf("pagination = %+v", page.Pagination)
	}
	if !page.Personalization.HasSetPreferences || len(page.Personalization.PreferredCategories) != 2 {
		t.Fatalf("personalization = %+v", page.Personalization)
	}
	if pc := page.Personalization.PreferredCategories[0]; pc.Name != "cat1" || pc.Weight != 2 {
		t.Fatalf("first preferred category = %+v", pc)
	}
}

func TestPersonalizedFeedWindow(t *testing.T) {
	st := &fakeFeedStore{
		user:      &models.User{ID: 1, HasSetPreferences: true},
		prefs:     []models.UserPreference{{UserID: 1, CategoryID: 1, Weight: 1}},
		prefTotal: 3,
	}
	for i := uint(1); i <= 3; i++ {
		st.candidates = append(st.candidates, row(i, uintPtr(1), 0, int64(i), time.Hour))
	}

	page, err := newFeed(st).PersonalizedFeed(context.Background(), 1, utils.PageParams{Page: 2, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != 1 {
		t.Fatalf("page 2 = %+v", page.Items)
	}
	if !page.Pagination.HasPrevPage || page.Pagination.HasNextPage {
		t.Fatalf("pagination = %+v", page.Pagination)
	}
}

func TestPersonalizedFeedColdStart(t *testing.T) {
	tests := []struct {
		name  string
		user  *models.User
		prefs []models.UserPreference
	}{
		{name: "flag unset with orphan rows", user: &models.User{ID: 1}, prefs: []models.UserPreference{{UserID: 1, CategoryID: 4, Weight: 5}}},
		{name: "flag set but no rows", user: &models.User{ID: 1, HasSetPreferences: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeFeedStore{
				user:      tt.user,
				prefs:     tt.prefs,
				listed:    []store.PostRow{row(5, nil, 0, 9, time.Hour)},
				listTotal: 1,
			}
			page, err := newFeed(st).PersonalizedFeed(context.Background(), 1, utils.PageParams{Page: 1, Limit: 10})
			if err != nil {
				t.Fatal(err)
			}
			if page.Strategy != StrategyColdStart {
				t.Fatalf("strategy = %q", page.Strategy)
			}
			if st.lastOrder != store.OrderPopular || !st.lastFilter.Since.IsZero() || st.lastFilter.CategoryID != nil {
				t.Fatalf("cold start scan = %+v order %v", st.lastFilter, st.lastOrder)
			}
			if page.Items[0].RelevanceScore != nil {
				t.Fatalf("cold start item carries a relevance score")
			}
			if page.Personalization.HasSetPreferences != tt.user.HasSetPreferences {
				t.Fatalf("personalization = %+v", page.Personalization)
			}
		})
	}
}

func TestFeedRejectsBadPaginationWithoutQuerying(t *testing.T) {
	st := &fakeFeedStore{user: &models.User{ID: 1}}
	svc := newFeed(st)
	for _, p := range []utils.PageParams{{Page: 0, Limit: 10}, {Page: 1, Limit: 0}, {Page: 1, Limit: 101}} {
		if _, err := svc.PersonalizedFeed(context.Background(), 1, p); KindOf(err) != KindValidation {
			t.Fatalf("PersonalizedFeed(%+v) err = %v, want validation", p, err)
		}
		if _, err := svc.SuggestedFeed(context.Background(), 1, p); KindOf(err) != KindValidation {
			t.Fatalf("SuggestedFeed(%+v) err = %v, want validation", p, err)
		}
	}
	if st.calls != 0 {
		t.Fatalf("store was queried %d times", st.calls)
	}
}

func TestSuggestedFeedWindow(t *testing.T) {
	st := &fakeFeedStore{user: &models.User{ID: 1}, listTotal: 0}
	page, err := newFeed(st).SuggestedFeed(context.Background(), 1, utils.PageParams{Page: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if want := feedNow.Add(-7 * 24 * time.Hour); !st.lastFilter.Since.Equal(want) {
		t.Fatalf("since = %v, want %v", st.lastFilter.Since, want)
	}
	if page.Suggestion == nil || page.Suggestion.Type != "trending" || page.Suggestion.Description != "Posts that are trending in the last 7 days" {
		t.Fatalf("suggestion = %+v", page.Suggestion)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Fatalf("items = %#v, want empty slice", page.Items)
	}
}

func TestFeedStorageFailureIsInternal(t *testing.T) {
	st := &fakeFeedStore{
		user:         &models.User{ID: 1, HasSetPreferences: true},
		prefs:        []models.UserPreference{{UserID: 1, CategoryID: 1, Weight: 1}},
		candidateErr: errors.New("connection reset"),
	}
	_, err := newFeed(st).PersonalizedFeed(context.Background(), 1, utils.PageParams{Page: 1, Limit: 10})
	se := AsError(err)
	if se.Kind != KindInternal || se.Message != "failed to load posts" {
		t.Fatalf("err = %+v", se)
	}
}

func TestFeedUnknownUser(t *testing.T) {
	_, err := newFeed(&fakeFeedStore{}).PersonalizedFeed(context.Background(), 9, utils.PageParams{Page: 1, Limit: 10})
	if KindOf(err) != KindNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}
