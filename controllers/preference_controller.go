package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/jayeshjain4/StatusGo/services"
	"github.com/jayeshjain4/StatusGo/utils"
)

type PreferenceController struct {
	prefs *services.PreferenceService
}

func NewPreferenceController(prefs *services.PreferenceService) *PreferenceController {
	return &PreferenceController{prefs: prefs}
}

type setPreferencesRequest struct {
	CategoryIDs []uint `json:"category_ids"`
}

// Set replaces the preference set. Non-numeric ids fail binding and reject the request.
func (p *PreferenceController) Set(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req setPreferencesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, 40041, "category_ids must be an array of positive integers")
		return
	}
	list, err := p.prefs.Set(ctx.Request.Context(), userID, req.CategoryIDs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, "preferences saved successfully", list)
}

func (p *PreferenceController) Get(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	list, err := p.prefs.Get(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, list)
}

type weightRequest struct {
	Weight *float64 `json:"weight" binding:"required"`
}

func (p *PreferenceController) UpdateWeight(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	categoryID, ok := paramID(ctx, "categoryId")
	if !ok {
		return
	}
	var req weightRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, 40044, "weight must be a number between 0 and 5")
		return
	}
	pref, err := p.prefs.UpdateWeight(ctx.Request.Context(), userID, categoryID, *req.Weight)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, "preference weight updated", pref)
}

func (p *PreferenceController) Remove(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	categoryID, ok := paramID(ctx, "categoryId")
	if !ok {
		return
	}
	if err := p.prefs.Remove(ctx.Request.Context(), userID, categoryID); err != nil {
		respondError(ctx, err)
		return
	}
	utils.SuccessMessage(ctx, "preference removed", nil)
}
