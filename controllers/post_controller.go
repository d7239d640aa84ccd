package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jayeshjain4/StatusGo/services"
	"github.com/jayeshjain4/StatusGo/utils"
)

// PostController serves post creation and listings.
type PostController struct {
	posts *services.PostService
}

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

// Create expects multipart with an "attachment" file and an optional category_id.
func (p *PostController) Create(ctx *gin.Context) {
	var categoryID *uint
	if raw := strings.TrimSpace(ctx.PostForm("category_id")); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || n == 0 {
			badRequest(ctx, 40060, "category_id must be a positive integer")
			return
		}
		id := uint(n)
		categoryID = &id
	}

	fh, err := ctx.FormFile("attachment")
	if err != nil {
		badRequest(ctx, 40064, "attachment is required")
		return
	}
	obj, closeFile, err := openFileHeader(fh)
	defer closeFile()
	if err != nil {
		badRequest(ctx, 40064, "attachment is required")
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(), categoryID, *obj)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, "post created successfully", post)
}

func (p *PostController) List(ctx *gin.Context) {
	pp, ok := pageParams(ctx)
	if !ok {
		return
	}
	page, err := p.posts.List(ctx.Request.Context(), pp)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, page)
}

func (p *PostController) Get(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	post, err := p.posts.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, post)
}

func (p *PostController) ListByCategory(ctx *gin.Context) {
	categoryID, ok := paramID(ctx, "categoryId")
	if !ok {
		return
	}
	pp, ok := pageParams(ctx)
	if !ok {
		return
	}
	page, err := p.posts.ListByCategory(ctx.Request.Context(), categoryID, pp)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, page)
}
