package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jayeshjain4/StatusGo/config"
	"github.com/jayeshjain4/StatusGo/controllers"
	"github.com/jayeshjain4/StatusGo/middleware"
	"github.com/jayeshjain4/StatusGo/services"
	"github.com/jayeshjain4/StatusGo/storage"
	"github.com/jayeshjain4/StatusGo/store"
	"github.com/jayeshjain4/StatusGo/utils"
)

// Deps carries everything the router needs to build its controllers.
type Deps struct {
	Store       *store.Store
	Uploader    storage.Uploader
	Users       *services.UserService
	Categories  *services.CategoryService
	Posts       *services.PostService
	Likes       *services.LikeService
	Comments    *services.CommentService
	Preferences *services.PreferenceService
	Feeds       *services.FeedService
}

// NewDeps builds the services on top of one store.
func NewDeps(cfg config.AppConfig, st *store.Store, up storage.Uploader, revoker services.TokenRevoker) Deps {
	tokens := utils.NewTokenIssuer(cfg.App.JWTSecret, cfg.App.TokenTTL)
	return Deps{
		Store:       st,
		Uploader:    up,
		Users:       services.NewUserService(st, tokens, revoker, up, cfg.App.AdminEmails),
		Categories:  services.NewCategoryService(st),
		Posts:       services.NewPostService(st, up),
		Likes:       services.NewLikeService(st),
		Comments:    services.NewCommentService(st),
		Preferences: services.NewPreferenceService(st),
		Feeds:       services.NewFeedService(st, cfg.Feed.SuggestedWindow()),
	}
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, deps Deps) *gin.Engine {
	switch strings.ToLower(cfg.App.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file when configured
	gl, err := utils.NewRollingFileLogger(cfg.Log.GinPath, cfg.Log)
	if err == nil {
		r.Use(ginzap.Ginzap(gl, time.RFC3339, true))
		r.Use(ginzap.CustomRecoveryWithZap(gl, false, recoverJSON))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.App.AllowedOrigins) == 1 && cfg.App.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.App.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.Metrics())

	if local, ok := deps.Uploader.(*storage.Local); ok && strings.HasPrefix(cfg.Upload.PublicBaseURL, "/") {
		r.Static(cfg.Upload.PublicBaseURL, local.Dir())
	}

	r.GET("/health", func(ctx *gin.Context) {
		if err := deps.Store.Ping(ctx.Request.Context()); err != nil {
			utils.Sugar.Warnf("health check: %v", err)
			utils.Error(ctx, http.StatusServiceUnavailable, 50300, "database unavailable")
			return
		}
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authController := controllers.NewAuthController(deps.Users)
	categoryController := controllers.NewCategoryController(deps.Categories)
	postController := controllers.NewPostController(deps.Posts)
	likeController := controllers.NewLikeController(deps.Likes)
	commentController := controllers.NewCommentController(deps.Comments)
	preferenceController := controllers.NewPreferenceController(deps.Preferences)
	feedController := controllers.NewFeedController(deps.Feeds)

	limiter := middleware.NewRateLimiter(cfg.App.RateLimitPerMinute)
	authRequired := middleware.AuthRequired(deps.Users)
	adminRequired := middleware.AdminRequired(deps.Users)
	rateLimit := middleware.RateLimitMiddleware(limiter)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(rateLimit)
	authGroup.POST("/signup", authController.Signup)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", authRequired, authController.Logout)
	authGroup.GET("/profile", authRequired, authController.Profile)
	authGroup.PUT("/profile", authRequired, authController.UpdateProfile)

	// Public reads
	api.GET("/posts", postController.List)
	api.GET("/posts/:id", postController.Get)
	api.GET("/posts/category/:categoryId", postController.ListByCategory)
	api.GET("/posts/:id/likes", likeController.List)
	api.GET("/posts/:id/comments", commentController.List)

	protected := api.Group("")
	protected.Use(authRequired, rateLimit)
	protected.GET("/categories", categoryController.List)
	protected.POST("/posts", postController.Create)
	protected.GET("/posts/personalized", feedController.Personalized)
	protected.GET("/posts/suggested", feedController.Suggested)
	protected.POST("/posts/:id/like", likeController.Toggle)
	protected.POST("/posts/:id/comments", commentController.Create)
	protected.DELETE("/posts/:id/comments/:commentId", commentController.Delete)
	protected.POST("/preferences", preferenceController.Set)
	protected.GET("/preferences", preferenceController.Get)
	protected.PUT("/preferences/:categoryId/weight", preferenceController.UpdateWeight)
	protected.DELETE("/preferences/:categoryId", preferenceController.Remove)

	admin := protected.Group("")
	admin.Use(adminRequired)
	admin.GET("/users", authController.ListUsers)
	admin.POST("/categories", categoryController.Create)
	admin.PUT("/categories/:id", categoryController.Update)
	admin.DELETE("/categories/:id", categoryController.Delete)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		utils.Error(ctx, http.StatusNotFound, 40400, "not found")
	})

	return r
}

// recoverJSON answers a recovered panic with the 500 envelope.
func recoverJSON(ctx *gin.Context, _ any) {
	utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
	ctx.Abort()
}
