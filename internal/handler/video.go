package handler

import (
	"ClipHub/internal/dto"
	"ClipHub/internal/middleware"
	"ClipHub/internal/service"
	"ClipHub/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type VideoHandler interface {
	Search(c *gin.Context)
	Trending(c *gin.Context)
	GetVideoByID(c *gin.Context)
	Related(c *gin.Context)

	ListSaved(c *gin.Context)
	Save(c *gin.Context)
	RemoveSaved(c *gin.Context)
}

type videoHandler struct {
	CatalogService service.CatalogService
	VideoService   service.VideoService
}

func NewVideoHandler(catalogService service.CatalogService, videoService service.VideoService) VideoHandler {
	return &videoHandler{CatalogService: catalogService, VideoService: videoService}
}

// 搜索短片：q必填
func (h *videoHandler) Search(c *gin.Context) {
	query := c.Query("q")
	logCtx := logger.Log.WithFields(map[string]interface{}{
		"query":      query,
		"request_id": middleware.GetRequestID(c),
	})

	videos, err := h.CatalogService.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, logCtx, err)
		return
	}
	logCtx.WithField("count", len(videos)).Info("搜索完成")
	c.JSON(http.StatusOK, dto.ToVideoResponses(videos))
}

// 热门短片，category默认drama
func (h *videoHandler) Trending(c *gin.Context) {
	category := c.Query("category")
	logCtx := logger.Log.WithField("category", category)

	videos, err := h.CatalogService.Trending(c.Request.Context(), category)
	if err != nil {
		respondError(c, logCtx, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToVideoResponses(videos))
}

func (h *videoHandler) GetVideoByID(c *gin.Context) {
	videoID := c.Param("videoId")
	logCtx := logger.Log.WithField("video_id", videoID)

	video, err := h.CatalogService.GetByID(c.Request.Context(), videoID)
	if err != nil {
		respondError(c, logCtx, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToVideoResponse(video))
}

func (h *videoHandler) Related(c *gin.Context) {
	videoID := c.Param("videoId")
	logCtx := logger.Log.WithField("video_id", videoID)

	videos, err := h.CatalogService.Related(c.Request.Context(), videoID)
	if err != nil {
		respondError(c, logCtx, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToVideoResponses(videos))
}

// 当前用户的收藏，按收藏时间倒序
func (h *videoHandler) ListSaved(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	logCtx := logger.Log.WithField("user_id", userID)

	videos, err := h.VideoService.ListSaved(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logCtx, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToVideoResponses(videos))
}

// 收藏：1、解析请求体 2、service层落库 3、返回201和完整记录
func (h *videoHandler) Save(c *gin.Context) {
	var req dto.SaveVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("收藏视频参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "Video ID and title are required")
		return
	}
	userID := middleware.CurrentUserID(c)
	// 蛇形命名，方便日志平台检索
	logCtx := logger.Log.WithFields(map[string]interface{}{
		"user_id":  userID,
		"video_id": req.VideoID,
	})
	logCtx.Info("开始处理收藏视频请求")

	video, err := h.VideoService.Save(c.Request.Context(), userID, req.ToModel())
	if err != nil {
		respondError(c, logCtx, err)
		return
	}
	logCtx.WithField("saved_id", video.ID).Info("视频收藏成功")
	c.JSON(http.StatusCreated, dto.ToVideoResponse(video))
}

// 取消收藏，路径参数是YouTube的videoId
func (h *videoHandler) RemoveSaved(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	videoID := c.Param("id")
	logCtx := logger.Log.WithFields(map[string]interface{}{
		"user_id":  userID,
		"video_id": videoID,
	})

	if err := h.VideoService.Remove(c.Request.Context(), userID, videoID); err != nil {
		respondError(c, logCtx, err)
		return
	}
	logCtx.Info("取消收藏成功")
	c.JSON(http.StatusOK, MessageResponse{Message: "Video removed successfully"})
}
