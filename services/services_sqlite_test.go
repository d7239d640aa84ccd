package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jayeshjain4/StatusGo/models"
	"github.com/jayeshjain4/StatusGo/storage"
	"github.com/jayeshjain4/StatusGo/store"
	"github.com/jayeshjain4/StatusGo/store/storetest"
	"github.com/jayeshjain4/StatusGo/utils"
)

func init() {
	utils.PasswordCost = 4
}

func sqliteStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(storetest.Open(t))
}

type memUploader struct {
	folder string
	n      int
}

func (m *memUploader) Upload(_ context.Context, folder string, obj storage.Object) (string, error) {
	if _, err := storage.Inspect(obj, 1024); err != nil {
		return "", err
	}
	m.folder = folder
	m.n++
	return "https://cdn.example/" + folder + "/file.png", nil
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func pngObject() storage.Object {
	return storage.Object{Name: "a.png", Size: int64(len(pngBytes)), Body: bytes.NewReader(pngBytes)}
}

func TestCategoryLifecycle(t *testing.T) {
	svc := NewCategoryService(sqliteStore(t))
	ctx := context.Background()

	c, err := svc.Create(ctx, 1, CategoryInput{Name: strPtr("  Travel "), ImageURL: strPtr("https://img.example/t.png")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Name != "Travel" || c.CreatedByID == nil || *c.CreatedByID != 1 {
		t.Fatalf("category = %+v", c)
	}
	if _, err := svc.Create(ctx, 1, CategoryInput{Name: strPtr("Travel")}); KindOf(err) != KindConflict {
		t.Fatalf("duplicate err = %v", err)
	}

	other, err := svc.Create(ctx, 1, CategoryInput{Name: strPtr("Food")})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Edit(ctx, other.ID, CategoryInput{Name: strPtr("Travel")}); KindOf(err) != KindConflict {
		t.Fatalf("rename onto taken name err = %v", err)
	}
	if _, err := svc.Edit(ctx, 999, CategoryInput{Name: strPtr("X")}); KindOf(err) != KindNotFound {
		t.Fatalf("edit unknown err = %v", err)
	}
	edited, err := svc.Edit(ctx, other.ID, CategoryInput{ImageURL: strPtr("https://img.example/f.png")})
	if err != nil || edited.Name != "Food" || edited.ImageURL == nil {
		t.Fatalf("Edit image = %+v, %v", edited, err)
	}

	if _, err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Delete(ctx, c.ID); KindOf(err) != KindValidation {
		t.Fatalf("second delete err = %v, want validation", err)
	}
	if _, err := svc.Create(ctx, 1, CategoryInput{Name: strPtr("Travel")}); KindOf(err) != KindConflict {
		t.Fatalf("deleted name must stay reserved, err = %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 || list[0].ID != other.ID {
		t.Fatalf("List = %+v, %v", list, err)
	}
}

func TestPostCreateAndList(t *testing.T) {
	st := sqliteStore(t)
	up := &memUploader{}
	svc := NewPostService(st, up)
	ctx := context.Background()

	cat := &models.Category{Name: "Art"}
	if err := st.CreateCategory(ctx, cat); err != nil {
		t.Fatal(err)
	}

	post, err := svc.Create(ctx, &cat.ID, pngObject())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if up.folder != PostFolder || post.Attachment == "" || post.Category == nil || post.Category.Name != "Art" {
		t.Fatalf("post = %+v", post)
	}

	missing := uint(404)
	if _, err := svc.Create(ctx, &missing, pngObject()); KindOf(err) != KindValidation {
		t.Fatalf("unknown category err = %v", err)
	}
	text := storage.Object{Name: "a.txt", Size: 5, Body: bytes.NewReader([]byte("hello"))}
	if _, err := svc.Create(ctx, nil, text); AsError(err).Code != 40062 {
		t.Fatalf("text upload err = %v", err)
	}
	if up.n != 1 {
		t.Fatalf("uploader called %d times", up.n)
	}

	page, err := svc.ListByCategory(ctx, cat.ID, utils.PageParams{Page: 1, Limit: 10})
	if err != nil || len(page.Items) != 1 {
		t.Fatalf("ListByCategory = %+v, %v", page, err)
	}
	if _, err := svc.ListByCategory(ctx, missing, utils.PageParams{Page: 1, Limit: 10}); KindOf(err) != KindNotFound {
		t.Fatalf("unknown category list err = %v", err)
	}
	if _, err := svc.Get(ctx, 12345); KindOf(err) != KindNotFound {
		t.Fatalf("Get unknown err = %v", err)
	}
}

func TestCommentOwnership(t *testing.T) {
	st := sqliteStore(t)
	ctx := context.Background()
	author := &models.User{FirstName: "A", LastName: "A", Email: "a@example.com", PasswordHash: "x"}
	other := &models.User{FirstName: "B", LastName: "B", Email: "b@example.com", PasswordHash: "x"}
	for _, u := range []*models.User{author, other} {
		if err := st.CreateUser(ctx, u); err != nil {
			t.Fatal(err)
		}
	}
	post := &models.Post{Attachment: "x.png", CreatedAt: time.Now().UTC()}
	if err := st.CreatePost(ctx, post); err != nil {
		t.Fatal(err)
	}
	svc := NewCommentService(st)

	if _, err := svc.Create(ctx, author.ID, post.ID, "   "); KindOf(err) != KindValidation {
		t.Fatalf("blank comment err = %v", err)
	}
	c, err := svc.Create(ctx, author.ID, post.ID, "  great shot  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Content != "great shot" {
		t.Fatalf("content = %q", c.Content)
	}
	if err := svc.Delete(ctx, other.ID, post.ID, c.ID); KindOf(err) != KindForbidden {
		t.Fatalf("foreign delete err = %v, want forbidden", err)
	}
	if err := svc.Delete(ctx, author.ID, post.ID, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, author.ID, post.ID, c.ID); KindOf(err) != KindNotFound {
		t.Fatalf("second delete err = %v", err)
	}
	page, err := svc.List(ctx, post.ID, utils.PageParams{Page: 1, Limit: 10})
	if err != nil || page.Pagination.TotalItems != 0 {
		t.Fatalf("List = %+v, %v", page, err)
	}
}

func newUserService(t *testing.T, st *store.Store, admins ...string) *UserService {
	t.Helper()
	return NewUserService(st, utils.NewTokenIssuer("test-secret", time.Hour), utils.NewTokenBlacklist(nil), &memUploader{}, admins)
}

func TestSignupLoginLogout(t *testing.T) {
	st := sqliteStore(t)
	svc := newUserService(t, st, "Boss@Example.com")
	ctx := context.Background()

	sess, err := svc.Signup(ctx, SignupInput{FirstName: "Ada", LastName: "L", Email: "Boss@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if sess.Token == "" || sess.User.Email != "boss@example.com" {
		t.Fatalf("session = %+v", sess)
	}
	if !svc.IsAdmin(sess.User) {
		t.Fatalf("admin email not recognised")
	}
	if _, err := svc.Signup(ctx, SignupInput{FirstName: "A", LastName: "B", Email: "boss@example.com", Password: "secret1"}); KindOf(err) != KindConflict {
		t.Fatalf("duplicate signup err = %v", err)
	}
	if _, err := svc.Signup(ctx, SignupInput{FirstName: "A", LastName: "B", Email: "c@example.com", Password: "123"}); KindOf(err) != KindValidation {
		t.Fatalf("short password err = %v", err)
	}
	for _, email := range []string{"", "not-an-email", "a@"} {
		_, err := svc.Signup(ctx, SignupInput{FirstName: "A", LastName: "B", Email: email, Password: "secret1"})
		if e := AsError(err); e.Kind != KindValidation || e.Code != 40011 {
			t.Errorf("email %q: err = %v, want 40011", email, err)
		}
	}

	if _, err := svc.Login(ctx, "boss@example.com", "wrong"); KindOf(err) != KindUnauthorized {
		t.Fatalf("wrong password err = %v", err)
	}
	login, err := svc.Login(ctx, " BOSS@example.com ", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	u, claims, err := svc.Authenticate(ctx, login.Token)
	if err != nil || u.ID != sess.User.ID {
		t.Fatalf("Authenticate = %+v, %v", u, err)
	}
	if err := svc.Logout(ctx, login.Token, claims); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, login.Token); KindOf(err) != KindUnauthorized {
		t.Fatalf("revoked token err = %v", err)
	}
}

func TestDeletedUserRejected(t *testing.T) {
	st := sqliteStore(t)
	svc := newUserService(t, st)
	ctx := context.Background()

	sess, err := svc.Signup(ctx, SignupInput{FirstName: "Ada", LastName: "L", Email: "ada@example.com", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}
	sess.User.IsDeleted = true
	if err := st.SaveUser(ctx, sess.User); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Login(ctx, "ada@example.com", "secret1"); AsError(err).Code != 40111 {
		t.Fatalf("login err = %v", err)
	}
	if _, err := svc.Profile(ctx, sess.User.ID); KindOf(err) != KindUnauthorized {
		t.Fatalf("profile err = %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, sess.Token); KindOf(err) != KindUnauthorized {
		t.Fatalf("authenticate err = %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	st := sqliteStore(t)
	svc := newUserService(t, st)
	ctx := context.Background()

	sess, err := svc.Signup(ctx, SignupInput{FirstName: "Ada", LastName: "L", Email: "ada@example.com", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}
	img := pngObject()
	u, err := svc.UpdateProfile(ctx, sess.User.ID, ProfileInput{FirstName: strPtr("Grace"), Image: &img})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if u.FirstName != "Grace" || u.LastName != "L" || u.ProfileImage == "" {
		t.Fatalf("user = %+v", u)
	}
	if _, err := svc.UpdateProfile(ctx, sess.User.ID, ProfileInput{LastName: strPtr(" ")}); KindOf(err) != KindValidation {
		t.Fatalf("blank last name err = %v", err)
	}

	page, err := svc.ListUsers(ctx, utils.PageParams{Page: 1, Limit: 10})
	if err != nil || page.Pagination.TotalItems != 1 {
		t.Fatalf("ListUsers = %+v, %v", page, err)
	}
}
