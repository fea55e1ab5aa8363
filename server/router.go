package server

import (
	"time"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/metrics"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/realtime"
	httpHandler "github.com/Shumail-AbdulRehman/Shahmeer-Backend/interfaces/http"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	healthHandler httpHandler.IHealthHandler,
	videoHandler httpHandler.IVideoHandler,
	hub *realtime.Hub,
	m *metrics.Metrics,
	userRepository repository.IUser,
	secretKey string,
	allowOrigins []string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics(m))
	router.Use(cors.New(corsConfig(allowOrigins)))

	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	video := router.Group("/video")
	video.Use(middleware.Identify(secretKey, userRepository))
	{
		// Feed
		video.GET("", videoHandler.ListVideos)
		video.GET("/random", videoHandler.GetRandomVideo)
		video.GET("/search", videoHandler.SearchVideos)
		video.GET("/:videoId", videoHandler.GetVideo)

		// Engagement reads
		video.GET("/:videoId/comments", videoHandler.ListComments)
		video.GET("/:videoId/stream", hub.Serve)
	}

	authed := video.Group("", middleware.RequireIdentity())
	{
		authed.POST("/react", videoHandler.React)
		authed.POST("/comment", videoHandler.Comment)
		authed.POST("/upload", videoHandler.Upload)
		authed.PUT("/:videoId", videoHandler.Update)
		authed.DELETE("/:videoId", videoHandler.Delete)
	}

	return router
}

func corsConfig(allowOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(allowOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = allowOrigins
	cfg.AllowCredentials = true
	return cfg
}
