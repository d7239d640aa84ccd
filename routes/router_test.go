package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jayeshjain4/StatusGo/config"
	"github.com/jayeshjain4/StatusGo/controllers"
	"github.com/jayeshjain4/StatusGo/services"
	"github.com/jayeshjain4/StatusGo/storage"
	"github.com/jayeshjain4/StatusGo/store"
	"github.com/jayeshjain4/StatusGo/store/storetest"
	"github.com/jayeshjain4/StatusGo/utils"
)

func TestMain(m *testing.M) {
	utils.PasswordCost = 4
	if err := controllers.RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t *testing.T
	r *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.AppConfig{
		App: config.AppSection{
			JWTSecret:          "test-secret",
			TokenTTL:           time.Hour,
			RateLimitPerMinute: 1000,
			AllowedOrigins:     []string{"*"},
			AdminEmails:        []string{"admin@example.com"},
			GinMode:            "test",
		},
		Upload: config.UploadSection{Driver: "local", PublicBaseURL: "/static/uploads"},
		Feed:   config.FeedSection{SuggestedWindowHours: 168},
	}
	st := store.New(storetest.Open(t))
	up := storage.NewLocal(t.TempDir(), cfg.Upload.PublicBaseURL, 1<<20)
	deps := NewDeps(cfg, st, up, utils.NewTokenBlacklist(nil))
	return &testServer{t: t, r: SetupRouter(cfg, deps)}
}

func (s *testServer) do(method, path, token string, body io.Reader, contentType string) (int, envelope) {
	s.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		s.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
	}
	return w.Code, env
}

func (s *testServer) json(method, path, token string, payload any) (int, envelope) {
	s.t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			s.t.Fatal(err)
		}
		body = bytes.NewReader(b)
	}
	return s.do(method, path, token, body, "application/json")
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return v
}

// signup registers an account and returns its bearer token.
func (s *testServer) signup(email string) string {
	s.t.Helper()
	status, env := s.json(http.MethodPost, "/api/v1/auth/signup", "", map[string]any{
		"first_name": "Test",
		"last_name":  "User",
		"email":      email,
		"password":   "secret123",
	})
	if status != http.StatusCreated {
		s.t.Fatalf("signup %s: %d %+v", email, status, env)
	}
	return decode[services.Session](s.t, env).Token
}

func (s *testServer) createCategory(token, name string) uint {
	s.t.Helper()
	status, env := s.json(http.MethodPost, "/api/v1/categories", token, map[string]any{"name": name})
	if status != http.StatusCreated {
		s.t.Fatalf("create category %s: %d %+v", name, status, env)
	}
	return decode[struct {
		ID uint `json:"id"`
	}](s.t, env).ID
}

func (s *testServer) createPost(token string, categoryID uint) services.PostView {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if categoryID != 0 {
		_ = mw.WriteField("category_id", fmt.Sprint(categoryID))
	}
	fw, err := mw.CreateFormFile("attachment", "pic.png")
	if err != nil {
		s.t.Fatal(err)
	}
	_, _ = fw.Write(pngBytes)
	_ = mw.Close()

	status, env := s.do(http.MethodPost, "/api/v1/posts", token, &buf, mw.FormDataContentType())
	if status != http.StatusCreated {
		s.t.Fatalf("create post: %d %+v", status, env)
	}
	return decode[services.PostView](s.t, env)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, env := s.do(http.MethodGet, "/health", "", nil, "")
	if status != http.StatusOK || env.Code != 0 {
		t.Fatalf("health = %d %+v", status, env)
	}
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("jane@example.com")

	status, env := s.json(http.MethodPost, "/api/v1/auth/signup", "", map[string]any{
		"first_name": "Jane", "last_name": "Doe", "email": "jane@example.com", "password": "secret123",
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicate signup = %d %+v", status, env)
	}

	status, env = s.json(http.MethodPost, "/api/v1/auth/signup", "", map[string]any{
		"first_name": " ", "last_name": "Doe", "email": "x@example.com", "password": "secret123",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("blank first name = %d %+v", status, env)
	}

	status, env = s.json(http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": "jane@example.com", "password": "wrong-pass"})
	if status != http.StatusUnauthorized {
		t.Fatalf("bad password = %d %+v", status, env)
	}
	status, env = s.json(http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": "jane@example.com", "password": "secret123"})
	if status != http.StatusOK {
		t.Fatalf("login = %d %+v", status, env)
	}

	status, env = s.do(http.MethodGet, "/api/v1/auth/profile", token, nil, "")
	if status != http.StatusOK {
		t.Fatalf("profile = %d %+v", status, env)
	}
	if bytes.Contains(env.Data, []byte("password")) {
		t.Fatalf("profile leaks password: %s", env.Data)
	}

	if status, env = s.do(http.MethodPost, "/api/v1/auth/logout", token, nil, ""); status != http.StatusOK {
		t.Fatalf("logout = %d %+v", status, env)
	}
	if status, _ = s.do(http.MethodGet, "/api/v1/auth/profile", token, nil, ""); status != http.StatusUnauthorized {
		t.Fatalf("revoked token status = %d", status)
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.signup("admin@example.com")
	user := s.signup("user@example.com")

	status, _ := s.json(http.MethodPost, "/api/v1/categories", user, map[string]any{"name": "Music"})
	if status != http.StatusForbidden {
		t.Fatalf("non-admin create = %d", status)
	}
	if status, _ = s.do(http.MethodGet, "/api/v1/users", user, nil, ""); status != http.StatusForbidden {
		t.Fatalf("non-admin list users = %d", status)
	}

	id := s.createCategory(admin, "Music")
	status, env := s.json(http.MethodPost, "/api/v1/categories", admin, map[string]any{"name": "Music"})
	if status != http.StatusConflict {
		t.Fatalf("duplicate category = %d %+v", status, env)
	}
	status, env = s.json(http.MethodPost, "/api/v1/categories", admin, map[string]any{"name": "Art", "image_url": "not a url"})
	if status != http.StatusBadRequest {
		t.Fatalf("bad image url = %d %+v", status, env)
	}

	status, env = s.do(http.MethodGet, "/api/v1/users?page=1&limit=1", admin, nil, "")
	if status != http.StatusOK {
		t.Fatalf("list users = %d %+v", status, env)
	}
	users := decode[services.Page[json.RawMessage]](t, env)
	if users.Pagination.TotalItems != 2 || len(users.Items) != 1 || !users.Pagination.HasNextPage {
		t.Fatalf("users page = %+v", users.Pagination)
	}

	path := fmt.Sprintf("/api/v1/categories/%d", id)
	if status, env = s.do(http.MethodDelete, path, admin, nil, ""); status != http.StatusOK {
		t.Fatalf("delete = %d %+v", status, env)
	}
	if status, _ = s.do(http.MethodDelete, path, admin, nil, ""); status != http.StatusBadRequest {
		t.Fatalf("second delete = %d", status)
	}
}

func TestPersonalizedFeed(t *testing.T) {
	s := newTestServer(t)
	admin := s.signup("admin@example.com")
	user := s.signup("reader@example.com")

	travel := s.createCategory(admin, "Travel")
	food := s.createCategory(admin, "Food")
	s.createPost(admin, food)
	travelPost := s.createPost(admin, travel)
	s.createPost(admin, 0)

	// Without preferences the feed falls back to the popularity listing
	status, env := s.do(http.MethodGet, "/api/v1/posts/personalized", user, nil, "")
	if status != http.StatusOK {
		t.Fatalf("cold feed = %d %+v", status, env)
	}
	cold := decode[services.FeedPage](t, env)
	if cold.Strategy != services.StrategyColdStart || cold.Personalization.HasSetPreferences || len(cold.Items) != 3 {
		t.Fatalf("cold feed = %+v", cold)
	}
	for _, it := range cold.Items {
		if it.RelevanceScore != nil {
			t.Fatalf("cold item carries a score: %+v", it)
		}
	}

	status, env = s.json(http.MethodPost, "/api/v1/preferences", user, map[string]any{"category_ids": []uint{travel}})
	if status != http.StatusOK {
		t.Fatalf("set preferences = %d %+v", status, env)
	}
	status, env = s.json(http.MethodPost, "/api/v1/preferences", user, map[string]any{"category_ids": []uint{travel, 999}})
	if status != http.StatusBadRequest {
		t.Fatalf("unknown category preference = %d %+v", status, env)
	}

	status, env = s.do(http.MethodGet, "/api/v1/posts/personalized?limit=2", user, nil, "")
	if status != http.StatusOK {
		t.Fatalf("feed = %d %+v", status, env)
	}
	feed := decode[services.FeedPage](t, env)
	if feed.Strategy != services.StrategyPersonalized {
		t.Fatalf("strategy = %q", feed.Strategy)
	}
	if len(feed.Items) != 2 || feed.Items[0].ID != travelPost.ID || feed.Items[0].RelevanceScore == nil {
		t.Fatalf("feed items = %+v", feed.Items)
	}
	// Preferred or uncategorized posts: the travel post and the loose post
	if feed.Pagination.TotalItems != 2 {
		t.Fatalf("total = %d", feed.Pagination.TotalItems)
	}
	if got := feed.Personalization.PreferredCategories; len(got) != 1 || got[0].ID != travel {
		t.Fatalf("preferred = %+v", got)
	}

	status, env = s.json(http.MethodPut, fmt.Sprintf("/api/v1/preferences/%d/weight", travel), user, map[string]any{"weight": 7})
	if status != http.StatusBadRequest {
		t.Fatalf("out of range weight = %d %+v", status, env)
	}
	status, _ = s.json(http.MethodPut, fmt.Sprintf("/api/v1/preferences/%d/weight", travel), user, map[string]any{"weight": 2.5})
	if status != http.StatusOK {
		t.Fatalf("update weight = %d", status)
	}

	if status, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/preferences/%d", travel), user, nil, ""); status != http.StatusOK {
		t.Fatalf("remove preference = %d", status)
	}
	if status, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/preferences/%d", travel), user, nil, ""); status != http.StatusNotFound {
		t.Fatalf("remove twice = %d", status)
	}
}

func TestFeedRejectsBadPagination(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("reader@example.com")

	for _, q := range []string{"page=0", "limit=0", "limit=101", "page=abc"} {
		status, env := s.do(http.MethodGet, "/api/v1/posts/personalized?"+q, user, nil, "")
		if status != http.StatusBadRequest || env.Code != 40030 {
			t.Errorf("%s: %d %+v", q, status, env)
		}
	}
}

func TestSuggestedFeed(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("reader@example.com")
	s.createPost(user, 0)

	status, env := s.do(http.MethodGet, "/api/v1/posts/suggested", user, nil, "")
	if status != http.StatusOK {
		t.Fatalf("suggested = %d %+v", status, env)
	}
	page := decode[services.FeedPage](t, env)
	if page.Strategy != services.StrategyTrending || page.Suggestion == nil || len(page.Items) != 1 {
		t.Fatalf("suggested = %+v", page)
	}
}

func TestLikeToggleAndComments(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("reader@example.com")
	post := s.createPost(user, 0)
	likePath := fmt.Sprintf("/api/v1/posts/%d/like", post.ID)

	status, env := s.do(http.MethodPost, likePath, user, nil, "")
	if status != http.StatusOK {
		t.Fatalf("like = %d %+v", status, env)
	}
	if res := decode[services.LikeResult](t, env); !res.Liked || res.LikeCount != 1 {
		t.Fatalf("like result = %+v", res)
	}
	status, env = s.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/likes", post.ID), "", nil, "")
	if status != http.StatusOK {
		t.Fatalf("list likes = %d", status)
	}
	if likes := decode[services.Page[json.RawMessage]](t, env); likes.Pagination.TotalItems != 1 {
		t.Fatalf("likes total = %d", likes.Pagination.TotalItems)
	}

	_, env = s.do(http.MethodPost, likePath, user, nil, "")
	if res := decode[services.LikeResult](t, env); res.Liked || res.LikeCount != 0 {
		t.Fatalf("unlike result = %+v", res)
	}
	if status, _ = s.do(http.MethodPost, "/api/v1/posts/999/like", user, nil, ""); status != http.StatusNotFound {
		t.Fatalf("like unknown post = %d", status)
	}

	commentsPath := fmt.Sprintf("/api/v1/posts/%d/comments", post.ID)
	status, env = s.json(http.MethodPost, commentsPath, user, map[string]any{"content": "  nice shot  "})
	if status != http.StatusCreated {
		t.Fatalf("comment = %d %+v", status, env)
	}
	comment := decode[struct {
		ID      uint   `json:"id"`
		Content string `json:"content"`
	}](t, env)
	if comment.Content != "nice shot" {
		t.Fatalf("content = %q", comment.Content)
	}

	other := s.signup("other@example.com")
	deletePath := fmt.Sprintf("%s/%d", commentsPath, comment.ID)
	if status, _ = s.do(http.MethodDelete, deletePath, other, nil, ""); status != http.StatusForbidden {
		t.Fatalf("foreign delete = %d", status)
	}
	if status, _ = s.do(http.MethodDelete, deletePath, user, nil, ""); status != http.StatusOK {
		t.Fatalf("owner delete = %d", status)
	}

	status, env = s.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", post.ID), "", nil, "")
	if status != http.StatusOK {
		t.Fatalf("get post = %d", status)
	}
	if got := decode[services.PostView](t, env); got.Counts.Likes != 0 || got.Counts.Comments != 0 {
		t.Fatalf("counts = %+v", got.Counts)
	}
}

func TestCreatePostValidation(t *testing.T) {
	s := newTestServer(t)
	user := s.signup("reader@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("category_id", "42")
	fw, _ := mw.CreateFormFile("attachment", "pic.png")
	_, _ = fw.Write(pngBytes)
	_ = mw.Close()
	status, env := s.do(http.MethodPost, "/api/v1/posts", user, &buf, mw.FormDataContentType())
	if status != http.StatusBadRequest || env.Code != 40061 {
		t.Fatalf("unknown category = %d %+v", status, env)
	}

	buf.Reset()
	mw = multipart.NewWriter(&buf)
	fw, _ = mw.CreateFormFile("attachment", "notes.txt")
	_, _ = fw.Write([]byte("plain text is not an image"))
	_ = mw.Close()
	status, env = s.do(http.MethodPost, "/api/v1/posts", user, &buf, mw.FormDataContentType())
	if status != http.StatusBadRequest || env.Code != 40062 {
		t.Fatalf("text upload = %d %+v", status, env)
	}

	status, env = s.json(http.MethodPost, "/api/v1/posts", user, map[string]any{})
	if status != http.StatusBadRequest || env.Code != 40064 {
		t.Fatalf("missing attachment = %d %+v", status, env)
	}
}

func TestNoRoute(t *testing.T) {
	s := newTestServer(t)
	status, env := s.do(http.MethodGet, "/api/v1/nope", "", nil, "")
	if status != http.StatusNotFound || env.Code != 40400 {
		t.Fatalf("no route = %d %+v", status, env)
	}
}

func TestPanicRecoveredAsEnvelope(t *testing.T) {
	s := newTestServer(t)
	s.r.GET("/api/v1/explode", func(*gin.Context) { panic("boom") })

	status, env := s.do(http.MethodGet, "/api/v1/explode", "", nil, "")
	if status != http.StatusInternalServerError || env.Code != 50000 {
		t.Fatalf("panic = %d %+v", status, env)
	}
}
