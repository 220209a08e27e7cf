package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/LVVS666/yatube-project/config"
	"github.com/LVVS666/yatube-project/controllers"
	"github.com/LVVS666/yatube-project/middleware"
	"github.com/LVVS666/yatube-project/services"
	"github.com/LVVS666/yatube-project/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Bare paths permanently redirect to their slash-terminated canonical form.
	r.RedirectTrailingSlash = true

	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
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
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	feedService := services.NewFeedService(db, cfg.PageSize)
	followService := services.NewFollowService(db)

	feedController := controllers.NewFeedController(db, feedService, followService)
	postController := controllers.NewPostController(db)
	followController := controllers.NewFollowController(feedService, followService)
	groupController := controllers.NewGroupController(db)
	authController := controllers.NewAuthController(db)

	auth := r.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware())
	auth.POST("/register/", authController.Register)
	auth.POST("/login/", authController.Login)
	auth.POST("/logout/", middleware.AuthRequired(), authController.Logout)
	auth.GET("/me/", middleware.AuthRequired(), authController.Me)

	// Public feeds. OptionalAuth lets the profile view render follow state.
	r.GET("/", feedController.Index)
	r.GET("/group/:slug/", feedController.GroupPosts)
	r.GET("/profile/:username/", middleware.OptionalAuth(), feedController.Profile)
	r.GET("/posts/:id/", feedController.PostDetail)
	r.GET("/groups/", groupController.ListGroups)

	protected := r.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.GET("/create/", postController.NewPostForm)
	protected.POST("/create/", postController.CreatePost)
	protected.GET("/posts/:id/edit/", postController.EditPostForm)
	protected.POST("/posts/:id/edit/", postController.EditPost)
	protected.POST("/posts/:id/comment/", postController.AddComment)
	protected.DELETE("/posts/:id/", postController.DeletePost)
	protected.POST("/upload/", postController.UploadImage)
	protected.GET("/follow/", followController.FollowIndex)
	protected.GET("/profile/:username/follow/", followController.Follow)
	protected.GET("/profile/:username/unfollow/", followController.Unfollow)
	protected.POST("/group/", groupController.CreateGroup)
	protected.DELETE("/group/:slug/", groupController.DeleteGroup)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "page not found")
	})

	return r
}
