package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jayeshjain4/StatusGo/models"
	"github.com/jayeshjain4/StatusGo/storage"
	"github.com/jayeshjain4/StatusGo/store"
	"github.com/jayeshjain4/StatusGo/utils"
)

var emailValidator = validator.New()

// UserStore is the storage behind UserService.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UserExists(ctx context.Context, email string, phone *string) (bool, error)
	SaveUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error)
}

// TokenRevoker revokes and checks bearer tokens.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) bool
}

// ProfileFolder is the upload folder of profile images.
const ProfileFolder = "profiles"

const minPasswordLength = 6

// SignupInput is a new account request. Image is optional.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Password  string
	Image     *storage.Object
}

// ProfileInput carries profile changes; nil fields are left untouched.
type ProfileInput struct {
	FirstName *string
	LastName  *string
	Image     *storage.Object
}

// Session is an authenticated user with a bearer token.
type Session struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// UserService handles accounts and bearer tokens.
type UserService struct {
	store       UserStore
	tokens      *utils.TokenIssuer
	revoker     TokenRevoker
	uploader    storage.Uploader
	adminEmails map[string]struct{}
}

func NewUserService(st UserStore, tokens *utils.TokenIssuer, revoker TokenRevoker, up storage.Uploader, adminEmails []string) *UserService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &UserService{store: st, tokens: tokens, revoker: revoker, uploader: up, adminEmails: admins}
}

// Signup creates an account and returns a session for it.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	email := normalizeEmail(in.Email)
	if firstName == "" || lastName == "" {
		return nil, ValidationError(40010, "first name and last name are required")
	}
	// Same rule as the binding tag; the service is also called without the HTTP layer.
	if err := emailValidator.Var(email, "required,email"); err != nil {
		return nil, ValidationError(40011, "a valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, ValidationError(40012, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	phone := in.Phone
	if phone != nil {
		if p := strings.TrimSpace(*phone); p != "" {
			phone = &p
		} else {
			phone = nil
		}
	}

	exists, err := s.store.UserExists(ctx, email, phone)
	if err != nil {
		return nil, InternalError(50010, "failed to check user", fmt.Errorf("user exists: %w", err))
	}
	if exists {
		return nil, ConflictError(40910, "user already exists with same email or phone")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, InternalError(50011, "failed to create user", fmt.Errorf("hash password: %w", err))
	}
	u := &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if in.Image != nil {
		url, err := s.uploadImage(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		u.ProfileImage = url
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ConflictError(40910, "user already exists with same email or phone")
		}
		return nil, InternalError(50011, "failed to create user", fmt.Errorf("create user: %w", err))
	}
	return s.session(u)
}

// Login checks credentials. Unknown emails and wrong passwords look the same to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, UnauthorizedError(40110, "invalid email or password")
		}
		return nil, InternalError(50012, "failed to login", fmt.Errorf("get user by email: %w", err))
	}
	if !utils.CheckPassword(u.PasswordHash, password) {
		return nil, UnauthorizedError(40110, "invalid email or password")
	}
	if u.IsDeleted {
		return nil, UnauthorizedError(40111, "account has been deleted")
	}
	return s.session(u)
}

// Logout revokes token until it would have expired anyway.
func (s *UserService) Logout(ctx context.Context, token string, claims *utils.Claims) error {
	if err := s.revoker.Revoke(ctx, token, s.tokens.ExpiresAt(claims)); err != nil {
		return InternalError(50013, "failed to logout", fmt.Errorf("revoke token: %w", err))
	}
	return nil
}

// Authenticate verifies a bearer token and loads its active user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, *utils.Claims, error) {
	if s.revoker.IsRevoked(ctx, token) {
		return nil, nil, UnauthorizedError(40104, "token revoked")
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil, UnauthorizedError(40105, "invalid or expired token")
	}
	u, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, UnauthorizedError(40106, "user not found")
		}
		return nil, nil, InternalError(50014, "failed to load user", fmt.Errorf("get user: %w", err))
	}
	if u.IsDeleted {
		return nil, nil, UnauthorizedError(40111, "account has been deleted")
	}
	return u, claims, nil
}

// IsAdmin reports whether u may use the admin endpoints.
func (s *UserService) IsAdmin(u *models.User) bool {
	if u == nil {
		return false
	}
	if u.Role == models.RoleAdmin {
		return true
	}
	_, ok := s.adminEmails[normalizeEmail(u.Email)]
	return ok
}

// Profile returns the active account of userID.
func (s *UserService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFoundError(40430, "user not found")
		}
		return nil, InternalError(50014, "failed to load user", fmt.Errorf("get user: %w", err))
	}
	if u.IsDeleted {
		return nil, UnauthorizedError(40111, "account has been deleted")
	}
	return u, nil
}

// UpdateProfile changes names and the profile image of an active account.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		if v == "" {
			return nil, ValidationError(40010, "first name and last name are required")
		}
		u.FirstName = v
	}
	if in.LastName != nil {
		v := strings.TrimSpace(*in.LastName)
		if v == "" {
			return nil, ValidationError(40010, "first name and last name are required")
		}
		u.LastName = v
	}
	if in.Image != nil {
		url, err := s.uploadImage(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		u.ProfileImage = url
	}
	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, InternalError(50015, "failed to update profile", fmt.Errorf("save user: %w", err))
	}
	return u, nil
}

// ListUsers returns active accounts, newest first.
func (s *UserService) ListUsers(ctx context.Context, p utils.PageParams) (*Page[models.User], error) {
	if err := p.Validate(); err != nil {
		return nil, ValidationError(40030, err.Error())
	}
	users, total, err := s.store.ListUsers(ctx, p.Offset(), p.Limit)
	if err != nil {
		return nil, InternalError(50016, "failed to list users", fmt.Errorf("list users: %w", err))
	}
	return newPage(users, p, total), nil
}

func (s *UserService) session(u *models.User) (*Session, error) {
	token, err := s.tokens.Generate(u.ID, u.Role)
	if err != nil {
		return nil, InternalError(50017, "failed to issue token", fmt.Errorf("generate token: %w", err))
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, InternalError(50017, "failed to issue token", fmt.Errorf("parse issued token: %w", err))
	}
	return &Session{User: u, Token: token, ExpiresAt: s.tokens.ExpiresAt(claims)}, nil
}

func (s *UserService) uploadImage(ctx context.Context, obj storage.Object) (string, error) {
	url, err := s.uploader.Upload(ctx, ProfileFolder, obj)
	if err != nil {
		if verr := uploadError(err); verr != nil {
			return "", verr
		}
		return "", InternalError(50018, "failed to store profile image", fmt.Errorf("upload profile image: %w", err))
	}
	return url, nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
