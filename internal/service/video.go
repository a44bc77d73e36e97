package service

import (
	"ClipHub/internal/apperr"
	"ClipHub/internal/model"
	"ClipHub/internal/repository"
	"ClipHub/pkg/logger"
	"context"
	"errors"
	"strings"
)

// 收藏视频服务：收藏、取消收藏、收藏列表
type VideoService interface {
	Save(ctx context.Context, userID string, video *model.Video) (*model.Video, error)
	Remove(ctx context.Context, userID, videoID string) error
	ListSaved(ctx context.Context, userID string) ([]model.Video, error)
}

type videoService struct {
	videoRepo    repository.VideoRepository
	playlistRepo repository.PlaylistRepository
}

func NewVideoService(videoRepo repository.VideoRepository, playlistRepo repository.PlaylistRepository) VideoService {
	return &videoService{
		videoRepo:    videoRepo,
		playlistRepo: playlistRepo,
	}
}

// 收藏：1、校验必填 2、检查是否已收藏 3、落库，唯一索引兜底并发重复收藏
func (s *videoService) Save(ctx context.Context, userID string, video *model.Video) (*model.Video, error) {
	video.VideoID = strings.TrimSpace(video.VideoID)
	video.Title = strings.TrimSpace(video.Title)
	if video.VideoID == "" || video.Title == "" {
		return nil, apperr.BadRequest("Video ID and title are required")
	}

	if _, err := s.videoRepo.FindOwned(ctx, userID, video.VideoID); err == nil {
		return nil, apperr.Conflict("Video already saved")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("Error saving video", err)
	}

	video.ID = ""
	video.UserID = userID
	if err := s.videoRepo.Create(ctx, video); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Video already saved")
		}
		return nil, apperr.Internal("Error saving video", err)
	}
	return video, nil
}

// 取消收藏：删掉记录后把它从所有歌单里摘掉
func (s *videoService) Remove(ctx context.Context, userID, videoID string) error {
	removed, err := s.videoRepo.DeleteOwned(ctx, userID, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Video not found")
		}
		return apperr.Internal("Error removing video", err)
	}
	// 摘引用失败不回滚，读歌单时会跳过悬空引用
	if err := s.playlistRepo.PullVideo(ctx, removed.ID); err != nil {
		logger.Log.WithError(err).WithField("video_ref", removed.ID).Warn("从歌单中移除视频引用失败")
	}
	return nil
}

func (s *videoService) ListSaved(ctx context.Context, userID string) ([]model.Video, error) {
	videos, err := s.videoRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Error fetching saved videos", err)
	}
	return videos, nil
}
