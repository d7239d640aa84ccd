package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/jayeshjain4/StatusGo/middleware"
	"github.com/jayeshjain4/StatusGo/storage"
	"github.com/jayeshjain4/StatusGo/utils"
)

// RegisterValidators adds the custom binding tags used by the request structs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected gin validator engine")
	}
	return v.RegisterValidation("notblank", validators.NotBlank)
}

func respondError(ctx *gin.Context, err error) {
	middleware.AbortWithError(ctx, err)
}

func badRequest(ctx *gin.Context, code int, msg string) {
	utils.Error(ctx, http.StatusBadRequest, code, msg)
}

func currentUserID(ctx *gin.Context) (uint, bool) {
	id, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40100, "unauthorized")
	}
	return id, ok
}

// paramID parses a positive integer path parameter.
func paramID(ctx *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(ctx.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		badRequest(ctx, 40001, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func pageParams(ctx *gin.Context) (utils.PageParams, bool) {
	p, err := utils.ParsePagination(ctx.Query("page"), ctx.Query("limit"))
	if err != nil {
		badRequest(ctx, 40030, err.Error())
		return utils.PageParams{}, false
	}
	return p, true
}

// formObject opens an optional multipart file. The returned closer is never nil.
func formObject(ctx *gin.Context, field string) (*storage.Object, func(), error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}
	return openFileHeader(fh)
}

func openFileHeader(fh *multipart.FileHeader) (*storage.Object, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	obj := &storage.Object{Name: fh.Filename, Size: fh.Size, Body: f}
	return obj, func() { _ = f.Close() }, nil
}
