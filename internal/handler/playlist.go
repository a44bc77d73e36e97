package handler

import (
	"ClipHub/internal/dto"
	"ClipHub/internal/middleware"
	"ClipHub/internal/service"
	"ClipHub/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PlaylistHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	AddVideo(c *gin.Context)
	RemoveVideo(c *gin.Context)
}

type playlistHandler struct {
	PlaylistService service.PlaylistService
}

func NewPlaylistHandler(playlistService service.PlaylistService) PlaylistHandler {
	return &playlistHandler{PlaylistService: playlistService}
}

func playlistLog(c *gin.Context) *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"user_id":     middleware.CurrentUserID(c),
		"playlist_id": c.Param("id"),
		"request_id":  middleware.GetRequestID(c),
	})
}

// 列表页的视频只带摘要字段
func (h *playlistHandler) List(c *gin.Context) {
	playlists, err := h.PlaylistService.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, playlistLog(c), err)
		return
	}
	resp := make([]dto.PlaylistSummaryResponse, 0, len(playlists))
	for _, p := range playlists {
		resp = append(resp, dto.ToPlaylistSummaryResponse(p.Playlist, p.Videos))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *playlistHandler) Create(c *gin.Context) {
	var req dto.CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("创建歌单参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "Playlist name is required")
		return
	}
	logCtx := playlistLog(c).WithField("name", req.Name)

	created, err := h.PlaylistService.Create(c.Request.Context(), middleware.CurrentUserID(c), req.Name, req.Description)
	if err != nil {
		respondError(c, logCtx, err)
		return
	}
	logCtx.WithField("playlist_id", created.Playlist.ID).Info("歌单创建成功")
	c.JSON(http.StatusCreated, dto.ToPlaylistResponse(created.Playlist, created.Videos))
}

func (h *playlistHandler) Get(c *gin.Context) {
	got, err := h.PlaylistService.Get(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, playlistLog(c), err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPlaylistResponse(got.Playlist, got.Videos))
}

func (h *playlistHandler) Update(c *gin.Context) {
	var req dto.UpdatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("更新歌单参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	updated, err := h.PlaylistService.Update(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), req.Name, req.Description)
	if err != nil {
		respondError(c, playlistLog(c), err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPlaylistResponse(updated.Playlist, updated.Videos))
}

func (h *playlistHandler) Delete(c *gin.Context) {
	logCtx := playlistLog(c)
	if err := h.PlaylistService.Delete(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		respondError(c, logCtx, err)
		return
	}
	logCtx.Info("歌单删除成功")
	c.JSON(http.StatusOK, MessageResponse{Message: "Playlist removed successfully"})
}

func (h *playlistHandler) AddVideo(c *gin.Context) {
	var req dto.AddPlaylistVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("添加歌单视频参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "Video ID is required")
		return
	}
	logCtx := playlistLog(c).WithField("video_id", req.VideoID)

	updated, err := h.PlaylistService.AddVideo(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), req.VideoID)
	if err != nil {
		respondError(c, logCtx, err)
		return
	}
	logCtx.Info("视频已加入歌单")
	c.JSON(http.StatusOK, dto.ToPlaylistResponse(updated.Playlist, updated.Videos))
}

func (h *playlistHandler) RemoveVideo(c *gin.Context) {
	videoID := c.Param("videoId")
	logCtx := playlistLog(c).WithField("video_id", videoID)

	updated, err := h.PlaylistService.RemoveVideo(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), videoID)
	if err != nil {
		respondError(c, logCtx, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPlaylistResponse(updated.Playlist, updated.Videos))
}
