package dto

import (
	"ClipHub/internal/model"
	"time"
)

// VideoResponse 搜索结果和收藏记录共用的响应结构，收藏记录才会带上id/user/createdAt
type VideoResponse struct {
	ID           string     `json:"id,omitempty"`
	VideoID      string     `json:"videoId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Thumbnail    string     `json:"thumbnail"`
	ChannelTitle string     `json:"channelTitle"`
	PublishedAt  string     `json:"publishedAt"`
	ViewCount    string     `json:"viewCount"`
	LikeCount    string     `json:"likeCount"`
	Duration     string     `json:"duration"`
	User         string     `json:"user,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

func ToVideoResponse(video *model.Video) VideoResponse {
	resp := VideoResponse{
		ID:           video.ID,
		VideoID:      video.VideoID,
		Title:        video.Title,
		Description:  video.Description,
		Thumbnail:    video.Thumbnail,
		ChannelTitle: video.ChannelTitle,
		PublishedAt:  video.PublishedAt,
		ViewCount:    video.ViewCount,
		LikeCount:    video.LikeCount,
		Duration:     video.Duration,
		User:         video.UserID,
	}
	if !video.CreatedAt.IsZero() {
		createdAt := video.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

// ToVideoResponses 保证空结果序列化成[]而不是null
func ToVideoResponses(videos []model.Video) []VideoResponse {
	response := make([]VideoResponse, 0, len(videos))
	for i := range videos {
		response = append(response, ToVideoResponse(&videos[i]))
	}
	return response
}

// SaveVideoRequest 收藏视频的请求体，字段和搜索结果一致，前端直接把卡片数据POST回来
type SaveVideoRequest struct {
	VideoID      string `json:"videoId" binding:"required"`
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	ViewCount    string `json:"viewCount"`
	LikeCount    string `json:"likeCount"`
	Duration     string `json:"duration"`
}

func (r SaveVideoRequest) ToModel() *model.Video {
	return &model.Video{
		VideoID:      r.VideoID,
		Title:        r.Title,
		Description:  r.Description,
		Thumbnail:    r.Thumbnail,
		ChannelTitle: r.ChannelTitle,
		PublishedAt:  r.PublishedAt,
		ViewCount:    r.ViewCount,
		LikeCount:    r.LikeCount,
		Duration:     r.Duration,
	}
}
