package ranking

import (
	"sort"
	"time"
)

// Scored pairs a candidate with its relevance score.
type Scored struct {
	Candidate
	Score float64
}

// Rank scores every candidate and orders them by score desc, then CreatedAt desc.
// PostID desc breaks remaining ties so page boundaries are stable.
func (w Weights) Rank(cands []Candidate, prefs Preferences, eng Engagement, now time.Time) []Scored {
	out := make([]Scored, len(cands))
	for i, c := range cands {
		out[i] = Scored{Candidate: c, Score: w.Score(c, prefs, eng, now)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.PostID > b.PostID
	})
	return out
}

// Rank orders candidates with the default weights.
func Rank(cands []Candidate, prefs Preferences, eng Engagement, now time.Time) []Scored {
	return DefaultWeights().Rank(cands, prefs, eng, now)
}

// Window returns the [offset, offset+limit) slice of scored, clipped to its bounds.
func Window(scored []Scored, offset, limit int) []Scored {
	if offset < 0 || limit <= 0 || offset >= len(scored) {
		return []Scored{}
	}
	end := offset + limit
	if end > len(scored) {
		end = len(scored)
	}
	return scored[offset:end]
}
