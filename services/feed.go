package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jayeshjain4/StatusGo/metrics"
	"github.com/jayeshjain4/StatusGo/models"
	"github.com/jayeshjain4/StatusGo/ranking"
	"github.com/jayeshjain4/StatusGo/store"
	"github.com/jayeshjain4/StatusGo/utils"
)

// Feed strategies, also used as metric labels.
const (
	StrategyPersonalized = "personalized"
	StrategyColdStart    = "cold_start"
	StrategyTrending     = "trending"
)

// FeedStore is the storage the feed selector reads from.
type FeedStore interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ListPreferences(ctx context.Context, userID uint) ([]models.UserPreference, error)
	CategoryEngagement(ctx context.Context, userID uint) (map[uint]int64, error)
	RankingCandidates(ctx context.Context) ([]store.PostRow, error)
	CountPreferredOrUncategorized(ctx context.Context, ids []uint) (int64, error)
	ListPostRows(ctx context.Context, f store.PostFilter, order store.PostOrder, offset, limit int) ([]store.PostRow, error)
	CountPosts(ctx context.Context, f store.PostFilter) (int64, error)
}

// PreferredCategory is a preference as echoed next to a feed.
type PreferredCategory struct {
	ID     uint    `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Personalization tells clients whether the feed could be personalized.
type Personalization struct {
	HasSetPreferences   bool                `json:"has_set_preferences"`
	PreferredCategories []PreferredCategory `json:"preferred_categories"`
}

// Suggestion describes the trending feed.
type Suggestion struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// FeedPage is one page of a feed.
type FeedPage struct {
	Items           []PostView      `json:"items"`
	Pagination      utils.PageMeta  `json:"pagination"`
	Personalization Personalization `json:"personalization"`
	Strategy        string          `json:"strategy"`
	Suggestion      *Suggestion     `json:"suggestion,omitempty"`
}

// FeedService selects and ranks the posts shown to a user.
type FeedService struct {
	store   FeedStore
	weights ranking.Weights
	window  time.Duration
	now     func() time.Time
}

// NewFeedService creates a FeedService. window bounds the trending feed.
func NewFeedService(st FeedStore, window time.Duration) *FeedService {
	return &FeedService{
		store:   st,
		weights: ranking.DefaultWeights(),
		window:  window,
		now:     time.Now,
	}
}

// PersonalizedFeed returns the ranked feed of userID. Users without preferences
// get the cold-start ordering: like_count desc, then created_at desc over every post.
func (s *FeedService) PersonalizedFeed(ctx context.Context, userID uint, p utils.PageParams) (*FeedPage, error) {
	if err := p.Validate(); err != nil {
		return nil, ValidationError(40030, err.Error())
	}

	user, prefs, err := s.loadPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	page := &FeedPage{Personalization: personalization(user, prefs)}

	if !user.HasSetPreferences || len(prefs) == 0 {
		if err := s.fillListing(ctx, page, store.PostFilter{}, p); err != nil {
			return nil, err
		}
		page.Strategy = StrategyColdStart
		metrics.RecordFeed(page.Strategy)
		return page, nil
	}

	weights := make(ranking.Preferences, len(prefs))
	ids := make([]uint, 0, len(prefs))
	for _, pref := range prefs {
		weights[pref.CategoryID] = pref.Weight
		ids = append(ids, pref.CategoryID)
	}

	engagement, err := s.store.CategoryEngagement(ctx, userID)
	if err != nil {
		return nil, InternalError(50030, "failed to load engagement", fmt.Errorf("category engagement: %w", err))
	}
	rows, err := s.store.RankingCandidates(ctx)
	if err != nil {
		return nil, InternalError(50031, "failed to load posts", fmt.Errorf("ranking candidates: %w", err))
	}
	// Counted over preferred or uncategorized posts while the ranked set also
	// holds every other active category.
	total, err := s.store.CountPreferredOrUncategorized(ctx, ids)
	if err != nil {
		return nil, InternalError(50032, "failed to count posts", fmt.Errorf("count preferred posts: %w", err))
	}

	started := time.Now()
	byID := make(map[uint]store.PostRow, len(rows))
	cands := make([]ranking.Candidate, 0, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
		cands = append(cands, candidate(r))
	}
	ranked := s.weights.Rank(cands, weights, ranking.Engagement(engagement), s.now())
	metrics.RecordRank(len(cands), time.Since(started))

	window := ranking.Window(ranked, p.Offset(), p.Limit)
	page.Items = make([]PostView, 0, len(window))
	for _, sc := range window {
		v := postView(byID[sc.PostID])
		score := sc.Score
		v.RelevanceScore = &score
		page.Items = append(page.Items, v)
	}
	page.Pagination = utils.NewPageMeta(p, total)
	page.Strategy = StrategyPersonalized
	metrics.RecordFeed(page.Strategy)
	return page, nil
}

// SuggestedFeed returns the most liked posts created within the trending window.
func (s *FeedService) SuggestedFeed(ctx context.Context, userID uint, p utils.PageParams) (*FeedPage, error) {
	if err := p.Validate(); err != nil {
		return nil, ValidationError(40030, err.Error())
	}

	user, prefs, err := s.loadPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	page := &FeedPage{
		Personalization: personalization(user, prefs),
		Strategy:        StrategyTrending,
		Suggestion: &Suggestion{
			Type:        StrategyTrending,
			Description: fmt.Sprintf("Posts that are trending in the last %s", windowLabel(s.window)),
		},
	}
	if err := s.fillListing(ctx, page, store.PostFilter{Since: s.now().Add(-s.window)}, p); err != nil {
		return nil, err
	}
	metrics.RecordFeed(page.Strategy)
	return page, nil
}

func (s *FeedService) loadPreferences(ctx context.Context, userID uint) (*models.User, []models.UserPreference, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, NotFoundError(40430, "user not found")
		}
		return nil, nil, InternalError(50033, "failed to load user", fmt.Errorf("get user: %w", err))
	}
	prefs, err := s.store.ListPreferences(ctx, userID)
	if err != nil {
		return nil, nil, InternalError(50034, "failed to load preferences", fmt.Errorf("list preferences: %w", err))
	}
	return user, prefs, nil
}

func (s *FeedService) fillListing(ctx context.Context, page *FeedPage, f store.PostFilter, p utils.PageParams) error {
	rows, err := s.store.ListPostRows(ctx, f, store.OrderPopular, p.Offset(), p.Limit)
	if err != nil {
		return InternalError(50031, "failed to load posts", fmt.Errorf("list posts: %w", err))
	}
	total, err := s.store.CountPosts(ctx, f)
	if err != nil {
		return InternalError(50032, "failed to count posts", fmt.Errorf("count posts: %w", err))
	}
	page.Items = postViews(rows)
	page.Pagination = utils.NewPageMeta(p, total)
	return nil
}

func candidate(r store.PostRow) ranking.Candidate {
	c := ranking.Candidate{
		PostID:     r.ID,
		CategoryID: r.CategoryID,
		LikeCount:  r.LiveLikes,
		CreatedAt:  r.CreatedAt,
	}
	if r.CategoryPopularity != nil {
		c.Popularity = *r.CategoryPopularity
	}
	return c
}

func personalization(u *models.User, prefs []models.UserPreference) Personalization {
	out := Personalization{
		HasSetPreferences:   u.HasSetPreferences,
		PreferredCategories: make([]PreferredCategory, 0, len(prefs)),
	}
	for _, p := range prefs {
		pc := PreferredCategory{ID: p.CategoryID, Weight: p.Weight}
		if p.Category != nil {
			pc.Name = p.Category.Name
		}
		out.PreferredCategories = append(out.PreferredCategories, pc)
	}
	return out
}

func windowLabel(d time.Duration) string {
	if d%(24*time.Hour) == 0 {
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "day"
		}
		return fmt.Sprintf("%d days", days)
	}
	return fmt.Sprintf("%d hours", int(d/time.Hour))
}
