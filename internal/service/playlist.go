package service

import (
	"ClipHub/internal/apperr"
	"ClipHub/internal/model"
	"ClipHub/internal/repository"
	"context"
	"errors"
	"strings"
)

// PopulatedPlaylist 歌单加上解析好的视频记录，顺序和加入顺序一致，悬空引用已被跳过
type PopulatedPlaylist struct {
	Playlist *model.Playlist
	Videos   []model.Video
}

// 歌单服务：除了Create和List，其余操作都要先校验歌单存在且属于请求者
type PlaylistService interface {
	Create(ctx context.Context, userID, name, description string) (*PopulatedPlaylist, error)
	List(ctx context.Context, userID string) ([]PopulatedPlaylist, error)
	Get(ctx context.Context, playlistID, requesterID string) (*PopulatedPlaylist, error)
	Update(ctx context.Context, playlistID, requesterID, name, description string) (*PopulatedPlaylist, error)
	Delete(ctx context.Context, playlistID, requesterID string) error
	AddVideo(ctx context.Context, playlistID, requesterID, videoID string) (*PopulatedPlaylist, error)
	RemoveVideo(ctx context.Context, playlistID, requesterID, videoID string) (*PopulatedPlaylist, error)
}

type playlistService struct {
	playlistRepo repository.PlaylistRepository
	videoRepo    repository.VideoRepository
}

func NewPlaylistService(playlistRepo repository.PlaylistRepository, videoRepo repository.VideoRepository) PlaylistService {
	return &playlistService{
		playlistRepo: playlistRepo,
		videoRepo:    videoRepo,
	}
}

func (s *playlistService) Create(ctx context.Context, userID, name, description string) (*PopulatedPlaylist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.BadRequest("Playlist name is required")
	}
	playlist := &model.Playlist{
		Name:        name,
		Description: strings.TrimSpace(description),
		UserID:      userID,
	}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, apperr.Internal("Error creating playlist", err)
	}
	return &PopulatedPlaylist{Playlist: playlist, Videos: []model.Video{}}, nil
}

// List 所有歌单的视频一次批量查出来，避免N+1
func (s *playlistService) List(ctx context.Context, userID string) ([]PopulatedPlaylist, error) {
	playlists, err := s.playlistRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Error fetching playlists", err)
	}
	var refs []string
	for _, p := range playlists {
		refs = append(refs, p.VideoRefs...)
	}
	byID, err := s.loadVideos(ctx, refs)
	if err != nil {
		return nil, apperr.Internal("Error fetching playlists", err)
	}

	result := make([]PopulatedPlaylist, 0, len(playlists))
	for i := range playlists {
		result = append(result, PopulatedPlaylist{
			Playlist: &playlists[i],
			Videos:   pick(byID, playlists[i].VideoRefs),
		})
	}
	return result, nil
}

func (s *playlistService) Get(ctx context.Context, playlistID, requesterID string) (*PopulatedPlaylist, error) {
	playlist, err := s.authorize(ctx, playlistID, requesterID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, playlist, "Error fetching playlist")
}

// Update 空白字段视为不修改
func (s *playlistService) Update(ctx context.Context, playlistID, requesterID, name, description string) (*PopulatedPlaylist, error) {
	playlist, err := s.authorize(ctx, playlistID, requesterID)
	if err != nil {
		return nil, err
	}

	var namePtr, descPtr *string
	if n := strings.TrimSpace(name); n != "" {
		namePtr = &n
	}
	if d := strings.TrimSpace(description); d != "" {
		descPtr = &d
	}
	if namePtr != nil || descPtr != nil {
		playlist, err = s.playlistRepo.Update(ctx, playlistID, namePtr, descPtr)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperr.NotFound("Playlist not found")
			}
			return nil, apperr.Internal("Error updating playlist", err)
		}
	}
	return s.populate(ctx, playlist, "Error updating playlist")
}

// Delete 只删歌单，不动里面引用的视频
func (s *playlistService) Delete(ctx context.Context, playlistID, requesterID string) error {
	if _, err := s.authorize(ctx, playlistID, requesterID); err != nil {
		return err
	}
	if err := s.playlistRepo.Delete(ctx, playlistID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Playlist not found")
		}
		return apperr.Internal("Error deleting playlist", err)
	}
	return nil
}

// AddVideo 同一个YouTube视频在歌单里只出现一次：先按videoId查重，再用存储层的原子追加兜住并发
func (s *playlistService) AddVideo(ctx context.Context, playlistID, requesterID, videoID string) (*PopulatedPlaylist, error) {
	playlist, err := s.authorize(ctx, playlistID, requesterID)
	if err != nil {
		return nil, err
	}
	video, err := s.resolveVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	members, err := s.membersByVideoID(ctx, playlist, video.VideoID)
	if err != nil {
		return nil, apperr.Internal("Error adding video to playlist", err)
	}
	if len(members) > 0 {
		return nil, apperr.Conflict("Video already in playlist")
	}

	added, err := s.playlistRepo.AddVideo(ctx, playlistID, video.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Playlist not found")
		}
		return nil, apperr.Internal("Error adding video to playlist", err)
	}
	if !added {
		return nil, apperr.Conflict("Video already in playlist")
	}
	return s.reload(ctx, playlistID, "Error adding video to playlist")
}

// RemoveVideo 摘掉歌单里所有videoId相同的成员，不管当初加的是谁收藏的那条；不在歌单里时静默成功
func (s *playlistService) RemoveVideo(ctx context.Context, playlistID, requesterID, videoID string) (*PopulatedPlaylist, error) {
	playlist, err := s.authorize(ctx, playlistID, requesterID)
	if err != nil {
		return nil, err
	}
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, apperr.BadRequest("Video ID is required")
	}
	members, err := s.membersByVideoID(ctx, playlist, videoID)
	if err != nil {
		return nil, apperr.Internal("Error removing video from playlist", err)
	}
	if len(members) == 0 {
		// 没有任何人收藏过的视频不可能在歌单里，按NotFound处理
		if _, err := s.resolveVideo(ctx, videoID); err != nil {
			return nil, err
		}
		return s.populate(ctx, playlist, "Error removing video from playlist")
	}

	for _, ref := range members {
		if _, err := s.playlistRepo.RemoveVideo(ctx, playlistID, ref); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperr.NotFound("Playlist not found")
			}
			return nil, apperr.Internal("Error removing video from playlist", err)
		}
	}
	return s.reload(ctx, playlistID, "Error removing video from playlist")
}

// authorize 歌单不存在（包括ID格式不对）返回NotFound，不是自己的返回Forbidden
func (s *playlistService) authorize(ctx context.Context, playlistID, requesterID string) (*model.Playlist, error) {
	playlist, err := s.playlistRepo.FindByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Playlist not found")
		}
		return nil, apperr.Internal("Error fetching playlist", err)
	}
	if playlist.UserID != requesterID {
		return nil, apperr.Forbidden("Not authorized")
	}
	return playlist, nil
}

// resolveVideo 按YouTube的videoId找已落库的视频，固定取最早收藏的那条
func (s *playlistService) resolveVideo(ctx context.Context, videoID string) (*model.Video, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, apperr.BadRequest("Video ID is required")
	}
	video, err := s.videoRepo.FindAnyByVideoID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Video not found")
		}
		return nil, apperr.Internal("Error fetching video", err)
	}
	return video, nil
}

// membersByVideoID 歌单里指向同一个YouTube视频的引用，悬空引用忽略
func (s *playlistService) membersByVideoID(ctx context.Context, playlist *model.Playlist, videoID string) ([]string, error) {
	byID, err := s.loadVideos(ctx, playlist.VideoRefs)
	if err != nil {
		return nil, err
	}
	var refs []string
	for _, ref := range playlist.VideoRefs {
		if v, ok := byID[ref]; ok && v.VideoID == videoID {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func (s *playlistService) reload(ctx context.Context, playlistID, failMsg string) (*PopulatedPlaylist, error) {
	playlist, err := s.playlistRepo.FindByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Playlist not found")
		}
		return nil, apperr.Internal(failMsg, err)
	}
	return s.populate(ctx, playlist, failMsg)
}

func (s *playlistService) populate(ctx context.Context, playlist *model.Playlist, failMsg string) (*PopulatedPlaylist, error) {
	byID, err := s.loadVideos(ctx, playlist.VideoRefs)
	if err != nil {
		return nil, apperr.Internal(failMsg, err)
	}
	return &PopulatedPlaylist{Playlist: playlist, Videos: pick(byID, playlist.VideoRefs)}, nil
}

func (s *playlistService) loadVideos(ctx context.Context, refs []string) (map[string]model.Video, error) {
	byID := make(map[string]model.Video, len(refs))
	if len(refs) == 0 {
		return byID, nil
	}
	videos, err := s.videoRepo.FindByIDs(ctx, refs)
	if err != nil {
		return nil, err
	}
	for _, v := range videos {
		byID[v.ID] = v
	}
	return byID, nil
}

// pick 按引用顺序取出视频，查不到的引用直接跳过
func pick(byID map[string]model.Video, refs []string) []model.Video {
	videos := make([]model.Video, 0, len(refs))
	for _, ref := range refs {
		if v, ok := byID[ref]; ok {
			videos = append(videos, v)
		}
	}
	return videos
}
