package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/jayeshjain4/StatusGo/services"
	"github.com/jayeshjain4/StatusGo/utils"
)

type LikeController struct {
	likes *services.LikeService
}

func NewLikeController(likes *services.LikeService) *LikeController {
	return &LikeController{likes: likes}
}

// Toggle likes or unlikes the post for the current user.
func (l *LikeController) Toggle(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	postID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	res, err := l.likes.Toggle(ctx.Request.Context(), userID, postID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	msg := "post unliked"
	if res.Liked {
		msg = "post liked"
	}
	utils.SuccessMessage(ctx, msg, res)
}

func (l *LikeController) List(ctx *gin.Context) {
	postID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	p, ok := pageParams(ctx)
	if !ok {
		return
	}
	page, err := l.likes.List(ctx.Request.Context(), postID, p)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, page)
}
