package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/jayeshjain4/StatusGo/services"
	"github.com/jayeshjain4/StatusGo/utils"
)

type CommentController struct {
	comments *services.CommentService
}

func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (c *CommentController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req commentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, 40070, "comment content cannot be empty")
		return
	}
	comment, err := c.comments.Create(ctx.Request.Context(), userID, postID, req.Content)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, "comment created successfully", comment)
}

func (c *CommentController) List(ctx *gin.Context) {
	postID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	p, ok := pageParams(ctx)
	if !ok {
		return
	}
	page, err := c.comments.List(ctx.Request.Context(), postID, p)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, page)
}

// Delete removes a comment written by the current user.
func (c *CommentController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	commentID, ok := paramID(ctx, "commentId")
	if !ok {
		return
	}
	if err := c.comments.Delete(ctx.Request.Context(), userID, postID, commentID); err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, "comment deleted successfully", nil)
}
