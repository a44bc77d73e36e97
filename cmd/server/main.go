package main

import (
	"ClipHub/internal/config"
	"ClipHub/internal/data"
	"ClipHub/internal/handler"
	"ClipHub/internal/middleware"
	"ClipHub/internal/repository"
	"ClipHub/internal/router"
	"ClipHub/internal/service"
	"ClipHub/pkg/logger"
	"ClipHub/pkg/rabbitmq"
	"ClipHub/pkg/redis"
	"ClipHub/pkg/youtube"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置，.env不存在时只读环境变量
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("配置校验失败: %v", err)
	}
	// 初始化logger
	if err := logger.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}

	ctx := context.Background()

	store, err := data.Open(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("无法连接到数据库: %v", err)
	}
	defer store.Close(context.Background())
	logger.Log.WithField("driver", cfg.StoreDriver).Info("数据库连接成功")

	// Redis是可选的，没配置就不缓存视频详情
	var catalogCache repository.CatalogCache
	if cfg.RedisAddr != "" {
		redisClient, err := redis.InitRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Log.Fatalf("无法连接到Redis: %v", err)
		}
		defer redisClient.Close()
		catalogCache = repository.NewRedisCatalogCache(redisClient, cfg.CatalogCacheTTL)
		logger.Log.Info("Redis连接成功")
	}

	// RabbitMQ同样可选，没配置就不记录搜索历史
	var recorder service.SearchRecorder = service.NopSearchRecorder{}
	if cfg.RabbitMQURL != "" {
		rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			logger.Log.Fatalf("无法连接到RabbitMQ: %v", err)
		}
		defer rabbitMQConn.Close() // 确保程序退出时关闭连接
		recorder, err = service.NewSearchRecorder(rabbitMQConn)
		if err != nil {
			logger.Log.Fatalf("搜索历史队列声明失败: %v", err)
		}
		logger.Log.Info("RabbitMQ连接成功")
	}

	provider := youtube.NewClient(cfg.YouTubeAPIKey, cfg.YouTubeBaseURL, &http.Client{Timeout: cfg.YouTubeTimeout})
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	authService := service.NewAuthService(store, tokens)
	catalogService := service.NewCatalogService(provider, catalogCache, recorder)
	videoService := service.NewVideoService(store.Videos(), store.Playlists())
	playlistService := service.NewPlaylistService(store.Playlists(), store.Videos())

	gin.SetMode(cfg.GinMode)
	r := router.SetupRouter(router.Handlers{
		User:        handler.NewUserHandler(authService),
		Video:       handler.NewVideoHandler(catalogService, videoService),
		Playlist:    handler.NewPlaylistHandler(playlistService),
		Sessions:    authService,
		AuthLimiter: middleware.NewRateLimiter(cfg.AuthRatePerSecond, cfg.AuthRateBurst),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Log.Printf("服务器将在: %s端口启动", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("收到退出信号，开始关闭服务器")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("服务器关闭超时")
	}
	logger.Log.Info("服务器已退出")
}
