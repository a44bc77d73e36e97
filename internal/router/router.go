package router

import (
	"ClipHub/internal/handler"
	"ClipHub/internal/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers 路由需要的全部依赖，由main组装
type Handlers struct {
	User     handler.UserHandler
	Video    handler.VideoHandler
	Playlist handler.PlaylistHandler

	Sessions    middleware.SessionResolver
	AuthLimiter *middleware.RateLimiter
}

func SetupRouter(h Handlers) *gin.Engine {
	// 访问日志用自己的AccessLog，所以不用gin.Default()自带的Logger
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(), middleware.CORS())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	auth := middleware.Auth(h.Sessions)
	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			limited := authGroup.Group("/")
			if h.AuthLimiter != nil {
				limited.Use(h.AuthLimiter.Limit())
			}
			limited.POST("/register", h.User.Register)
			limited.POST("/login", h.User.Login)

			authGroup.GET("/user", auth, h.User.GetProfile)
			authGroup.DELETE("/user", auth, h.User.DeleteAccount)
		}

		videos := api.Group("/videos")
		{
			videos.GET("/search", h.Video.Search)
			videos.GET("/trending", h.Video.Trending)
			videos.GET("/related/:videoId", h.Video.Related)

			videos.GET("/saved", auth, h.Video.ListSaved)
			videos.POST("/save", auth, h.Video.Save)
			videos.DELETE("/saved/:id", auth, h.Video.RemoveSaved)

			// 参数路由放最后，静态段优先匹配
			videos.GET("/:videoId", h.Video.GetVideoByID)
		}

		playlists := api.Group("/playlists")
		playlists.Use(auth)
		{
			playlists.GET("", h.Playlist.List)
			playlists.POST("", h.Playlist.Create)
			playlists.GET("/:id", h.Playlist.Get)
			playlists.PUT("/:id", h.Playlist.Update)
			playlists.DELETE("/:id", h.Playlist.Delete)
			playlists.POST("/:id/videos", h.Playlist.AddVideo)
			playlists.DELETE("/:id/videos/:videoId", h.Playlist.RemoveVideo)
		}
	}

	return r
}
