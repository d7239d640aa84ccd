package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/jayeshjain4/StatusGo/services"
	"github.com/jayeshjain4/StatusGo/utils"
)

// FeedController serves the personalized and trending feeds.
type FeedController struct {
	feeds *services.FeedService
}

func NewFeedController(feeds *services.FeedService) *FeedController {
	return &FeedController{feeds: feeds}
}

func (f *FeedController) Personalized(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	p, ok := pageParams(ctx)
	if !ok {
		return
	}
	page, err := f.feeds.PersonalizedFeed(ctx.Request.Context(), userID, p)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, "personalized posts fetched successfully", page)
}

func (f *FeedController) Suggested(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	p, ok := pageParams(ctx)
	if !ok {
		return
	}
	page, err := f.feeds.SuggestedFeed(ctx.Request.Context(), userID, p)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, "suggested posts fetched successfully", page)
}
