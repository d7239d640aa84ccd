// Package ranking scores feed candidates for a single user and orders them.
//
// Preferred posts (category in the user's preference set):
//
//	weight*100 + engagement*20 + popularity*5 - hoursSinceCreated*0.1 + likes*2
//
// Every other post, including posts without a category:
//
//	10 + popularity*2 + likes*1 - hoursSinceCreated*0.05
//
// The recency term is linear in elapsed hours and never clamped.
package ranking

import "time"

// Weights holds the coefficients of both scoring branches.
type Weights struct {
	PreferenceFactor    float64 // multiplies the user's preference weight
	EngagementFactor    float64 // per like the user gave in the category
	PreferredPopularity float64
	PreferredRecency    float64 // penalty per hour since creation
	PreferredLikes      float64

	OtherBase       float64
	OtherPopularity float64
	OtherLikes      float64
	OtherRecency    float64
}

// DefaultWeights returns the production coefficients.
func DefaultWeights() Weights {
	return Weights{
		PreferenceFactor:    100,
		EngagementFactor:    20,
		PreferredPopularity: 5,
		PreferredRecency:    0.1,
		PreferredLikes:      2,

		OtherBase:       10,
		OtherPopularity: 2,
		OtherLikes:      1,
		OtherRecency:    0.05,
	}
}

// Candidate is the ranking view of a post.
// Popularity is the category popularity and is ignored when CategoryID is nil.
type Candidate struct {
	PostID     uint
	CategoryID *uint
	Popularity float64
	LikeCount  int64
	CreatedAt  time.Time
}

// Preferences maps category IDs to the user's preference weight.
type Preferences map[uint]float64

// Engagement maps category IDs to the number of posts the user liked there.
// Missing categories count as zero.
type Engagement map[uint]int64

func hoursSince(t, now time.Time) float64 {
	return now.Sub(t).Hours()
}

// Score computes the relevance score of c.
func (w Weights) Score(c Candidate, prefs Preferences, eng Engagement, now time.Time) float64 {
	hours := hoursSince(c.CreatedAt, now)
	likes := float64(c.LikeCount)

	if Preferred(c, prefs) {
		id := *c.CategoryID
		return prefs[id]*w.PreferenceFactor +
			float64(eng[id])*w.EngagementFactor +
			c.Popularity*w.PreferredPopularity -
			hours*w.PreferredRecency +
			likes*w.PreferredLikes
	}

	score := w.OtherBase + likes*w.OtherLikes - hours*w.OtherRecency
	if c.CategoryID != nil {
		score += c.Popularity * w.OtherPopularity
	}
	return score
}

// Preferred reports whether c falls in the preferred branch. A weight of zero still counts.
func Preferred(c Candidate, prefs Preferences) bool {
	if c.CategoryID == nil {
		return false
	}
	_, ok := prefs[*c.CategoryID]
	return ok
}

// Score computes the relevance score of c with the default weights.
func Score(c Candidate, prefs Preferences, eng Engagement, now time.Time) float64 {
	return DefaultWeights().Score(c, prefs, eng, now)
}
