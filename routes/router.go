package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pattarawin/webboard/cache"
	"github.com/pattarawin/webboard/config"
	"github.com/pattarawin/webboard/controllers"
	"github.com/pattarawin/webboard/middleware"
	"github.com/pattarawin/webboard/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, c *cache.Cache) *gin.Engine {
	// Load config and set Gin mode from configuration
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
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
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

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db, c)
	threadController := controllers.NewThreadController(db, c)
	commentController := controllers.NewCommentController(db, c)
	reportController := controllers.NewReportController(db)
	adminController := controllers.NewAdminController(db, c)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(c), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(c), authController.Me)

	// Read paths are public; AuthOptional resolves the viewer for liked flags.
	public := api.Group("")
	public.Use(middleware.AuthOptional(c))
	public.GET("/threads", threadController.List)
	public.GET("/threads/:id", threadController.Detail)
	public.GET("/trending", threadController.Trending)
	public.GET("/categories", threadController.ListCategories)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(c), middleware.RateLimitMiddleware(), middleware.OnlineRecorder(c))
	protected.POST("/threads", threadController.Create)
	protected.PUT("/threads/:id", threadController.Update)
	protected.DELETE("/threads/:id", threadController.Delete)
	protected.POST("/threads/:id/like", threadController.LikeToggle)
	protected.POST("/threads/:id/comments", commentController.Create)
	protected.PUT("/comments/:id", commentController.Update)
	protected.DELETE("/comments/:id", commentController.Delete)
	protected.POST("/reports/:type/:id", reportController.Create)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(c), middleware.StaffRequired(), middleware.OnlineRecorder(c))
	admin.GET("/dashboard", adminController.Dashboard)
	admin.GET("/reports", adminController.ListReports)
	admin.POST("/reports/:id/resolve", adminController.ResolveReport)
	admin.POST("/reports/:id/remove-target", adminController.RemoveReportTarget)
	admin.POST("/categories", adminController.CreateCategory)
	admin.PUT("/categories/:id", adminController.UpdateCategory)
	admin.DELETE("/categories/:id", adminController.DeleteCategory)
	admin.POST("/categories/:id/move", adminController.MoveCategory)
	admin.GET("/users", adminController.ListUsers)
	admin.PUT("/users/:id/role", adminController.SetUserRole)
	admin.DELETE("/comments/:id", adminController.HardDeleteComment)
	admin.POST("/threads/:id/restore", adminController.RestoreThread)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
