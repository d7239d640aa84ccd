package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jayeshjain4/StatusGo/models"
	"github.com/jayeshjain4/StatusGo/services"
	"github.com/jayeshjain4/StatusGo/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUserKey stores the loaded *models.User.
	ContextUserKey = "user"
	// ContextClaimsKey stores the verified *utils.Claims.
	ContextClaimsKey = "claims"
	// ContextTokenKey stores the raw bearer token, needed to revoke it on logout.
	ContextTokenKey = "token"
)

// Authenticator verifies bearer tokens and decides admin access.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, *utils.Claims, error)
	IsAdmin(u *models.User) bool
}

// AuthRequired ensures the request carries a valid, unrevoked JWT of an active user.
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, 401, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, 401, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, 401, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		user, claims, err := auth.Authenticate(ctx.Request.Context(), tokenString)
		if err != nil {
			AbortWithError(ctx, err)
			return
		}

		ctx.Set(ContextUserIDKey, user.ID)
		ctx.Set(ContextUserKey, user)
		ctx.Set(ContextClaimsKey, claims)
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired(auth Authenticator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		if !ok || !auth.IsAdmin(user) {
			utils.Error(ctx, 403, 40301, "access denied, admins only")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// CurrentUserID returns the authenticated user id.
func CurrentUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// CurrentUser returns the authenticated user.
func CurrentUser(ctx *gin.Context) (*models.User, bool) {
	v, ok := ctx.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}

// CurrentToken returns the raw bearer token and its claims.
func CurrentToken(ctx *gin.Context) (string, *utils.Claims, bool) {
	token := ctx.GetString(ContextTokenKey)
	v, _ := ctx.Get(ContextClaimsKey)
	claims, ok := v.(*utils.Claims)
	return token, claims, ok && token != ""
}

// AbortWithError writes the envelope for a service error and stops the chain.
// Internal causes are logged and never sent to the client.
func AbortWithError(ctx *gin.Context, err error) {
	se := services.AsError(err)
	if se.Kind == services.KindInternal {
		utils.Logger.Error("request failed",
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("code", se.Code),
			zap.Error(se),
		)
	}
	utils.Error(ctx, se.Kind.HTTPStatus(), se.Code, se.Message)
	ctx.Abort()
}
