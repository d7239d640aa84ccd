package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/jayeshjain4/StatusGo/middleware"
	"github.com/jayeshjain4/StatusGo/services"
	"github.com/jayeshjain4/StatusGo/utils"
)

// CategoryController exposes category management.
type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

type createCategoryRequest struct {
	Name     *string `json:"name" binding:"required,notblank,max=128"`
	ImageURL *string `json:"image_url" binding:"omitempty,url,max=1024"`
}

type updateCategoryRequest struct {
	Name     *string `json:"name" binding:"omitempty,notblank,max=128"`
	ImageURL *string `json:"image_url" binding:"omitempty,url,max=1024"`
}

func (c *CategoryController) Create(ctx *gin.Context) {
	var req createCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, 40020, "invalid category payload")
		return
	}
	actorID, _ := middleware.CurrentUserID(ctx)
	cat, err := c.categories.Create(ctx.Request.Context(), actorID, services.CategoryInput{Name: req.Name, ImageURL: req.ImageURL})
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, "category created successfully", cat)
}

func (c *CategoryController) Update(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req updateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, 40020, "invalid category payload")
		return
	}
	cat, err := c.categories.Edit(ctx.Request.Context(), id, services.CategoryInput{Name: req.Name, ImageURL: req.ImageURL})
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, "category updated successfully", cat)
}

func (c *CategoryController) Delete(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	cat, err := c.categories.Delete(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, "category deleted successfully", cat)
}

func (c *CategoryController) List(ctx *gin.Context) {
	cats, err := c.categories.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, cats)
}
