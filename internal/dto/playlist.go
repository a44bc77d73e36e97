package dto

import (
	"ClipHub/internal/model"
	"time"
)

// PlaylistVideoSummary 歌单列表页只需要的视频字段
type PlaylistVideoSummary struct {
	ID        string `json:"id"`
	VideoID   string `json:"videoId"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Duration  string `json:"duration"`
}

// PlaylistSummaryResponse GET /api/playlists 列表中的一项
type PlaylistSummaryResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	User        string                 `json:"user"`
	Videos      []PlaylistVideoSummary `json:"videos"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// PlaylistResponse 单个歌单详情，视频是完整记录
type PlaylistResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	User        string          `json:"user"`
	Videos      []VideoResponse `json:"videos"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func ToPlaylistResponse(playlist *model.Playlist, videos []model.Video) PlaylistResponse {
	return PlaylistResponse{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		User:        playlist.UserID,
		Videos:      ToVideoResponses(videos),
		CreatedAt:   playlist.CreatedAt,
		UpdatedAt:   playlist.UpdatedAt,
	}
}

func ToPlaylistSummaryResponse(playlist *model.Playlist, videos []model.Video) PlaylistSummaryResponse {
	summaries := make([]PlaylistVideoSummary, 0, len(videos))
	for _, v := range videos {
		summaries = append(summaries, PlaylistVideoSummary{
			ID:        v.ID,
			VideoID:   v.VideoID,
			Title:     v.Title,
			Thumbnail: v.Thumbnail,
			Duration:  v.Duration,
		})
	}
	return PlaylistSummaryResponse{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		User:        playlist.UserID,
		Videos:      summaries,
		CreatedAt:   playlist.CreatedAt,
		UpdatedAt:   playlist.UpdatedAt,
	}
}

// CreatePlaylistRequest name的必填校验放在service层，这样空白字符串也能被拦住
type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdatePlaylistRequest 字段为空视为不修改
type UpdatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type AddPlaylistVideoRequest struct {
	VideoID string `json:"videoId" binding:"required"`
}
