package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordLikeToggle(t *testing.T) {
	likeBefore := testutil.ToFloat64(LikeToggles.WithLabelValues("like"))
	unlikeBefore := testutil.ToFloat64(LikeToggles.WithLabelValues("unlike"))

	RecordLikeToggle(true)
	RecordLikeToggle(true)
	RecordLikeToggle(false)

	if got := testutil.ToFloat64(LikeToggles.WithLabelValues("like")) - likeBefore; got != 2 {
		t.Errorf("like delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(LikeToggles.WithLabelValues("unlike")) - unlikeBefore; got != 1 {
		t.Errorf("unlike delta = %v, want 1", got)
	}
}

func TestRecordFeed(t *testing.T) {
	before := testutil.ToFloat64(FeedRequests.WithLabelValues("trending"))
	RecordFeed("trending")
	if got := testutil.ToFloat64(FeedRequests.WithLabelValues("trending")) - before; got != 1 {
		t.Errorf("trending delta = %v, want 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/posts", "200"))
	RecordAPIRequest("GET", "/api/v1/posts", 200, 15*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/posts", "200")) - before; got != 1 {
		t.Errorf("request delta = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(APIRequestDuration); n == 0 {
		t.Errorf("duration histogram has no series")
	}
}

func TestRecordRank(t *testing.T) {
	RecordRank(12, 2*time.Millisecond)
	if n := testutil.CollectAndCount(RankDuration); n != 1 {
		t.Errorf("rank duration series = %d, want 1", n)
	}
}
