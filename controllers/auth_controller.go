package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/jayeshjain4/StatusGo/middleware"
	"github.com/jayeshjain4/StatusGo/services"
	"github.com/jayeshjain4/StatusGo/utils"
)

// AuthController handles signup, login and profile endpoints.
type AuthController struct {
	users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

type signupRequest struct {
	FirstName string  `json:"first_name" form:"first_name" binding:"required,notblank,max=64"`
	LastName  string  `json:"last_name" form:"last_name" binding:"required,notblank,max=64"`
	Email     string  `json:"email" form:"email" binding:"required,email,max=255"`
	Phone     *string `json:"phone" form:"phone" binding:"omitempty,max=32"`
	Password  string  `json:"password" form:"password" binding:"required,min=6,max=72"`
}

// Signup registers an account. Accepts JSON, or multipart with an optional profile_image file.
func (a *AuthController) Signup(ctx *gin.Context) {
	var req signupRequest
	if err := ctx.ShouldBind(&req); err != nil {
		badRequest(ctx, 40010, "invalid signup payload")
		return
	}
	image, closeImage, err := formObject(ctx, "profile_image")
	defer closeImage()
	if err != nil {
		badRequest(ctx, 40013, "invalid profile image")
		return
	}

	sess, err := a.users.Signup(ctx.Request.Context(), services.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Image:     image,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, "user created successfully", sess)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for a bearer token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, 40014, "invalid login payload")
		return
	}
	sess, err := a.users.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, "login successful", sess)
}

// Logout revokes the bearer token of the request.
func (a *AuthController) Logout(ctx *gin.Context) {
	token, claims, ok := middleware.CurrentToken(ctx)
	if !ok {
		utils.Error(ctx, 401, 40100, "unauthorized")
		return
	}
	if err := a.users.Logout(ctx.Request.Context(), token, claims); err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, "logged out", nil)
}

// Profile returns the authenticated account.
func (a *AuthController) Profile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	u, err := a.users.Profile(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, u)
}

type profileRequest struct {
	FirstName *string `json:"first_name" form:"first_name" binding:"omitempty,notblank,max=64"`
	LastName  *string `json:"last_name" form:"last_name" binding:"omitempty,notblank,max=64"`
}

// UpdateProfile changes names and, in multipart requests, the profile_image.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req profileRequest
	if err := ctx.ShouldBind(&req); err != nil {
		badRequest(ctx, 40015, "invalid profile payload")
		return
	}
	image, closeImage, err := formObject(ctx, "profile_image")
	defer closeImage()
	if err != nil {
		badRequest(ctx, 40013, "invalid profile image")
		return
	}

	u, err := a.users.UpdateProfile(ctx.Request.Context(), userID, services.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Image:     image,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, "profile updated", u)
}

// ListUsers returns active accounts for admins.
func (a *AuthController) ListUsers(ctx *gin.Context) {
	p, ok := pageParams(ctx)
	if !ok {
		return
	}
	page, err := a.users.ListUsers(ctx.Request.Context(), p)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, page)
}
