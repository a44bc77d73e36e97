package sqlstore

import (
	"ClipHub/internal/model"
	"ClipHub/internal/repository"
	"fmt"
	"strconv"
	"time"
)

// BaseModel 统一成uint64主键；没有DeletedAt，删除都是硬删除，否则软删除的行会继续占着唯一索引，取消收藏后就没法再收藏
type BaseModel struct {
	ID        uint64 `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type userRow struct {
	BaseModel
	Username string `gorm:"size:191;uniqueIndex;not null"`
	Email    string `gorm:"size:191;uniqueIndex;not null"`
	Password string `gorm:"not null"`
}

func (userRow) TableName() string {
	return "users"
}

func (r *userRow) toModel() *model.User {
	return &model.User{
		ID:           formatID(r.ID),
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.Password,
		CreatedAt:    r.CreatedAt,
	}
}

// 联合唯一索引idx_video_user：一个用户对一个视频只能收藏一次
type videoRow struct {
	BaseModel
	VideoID      string `gorm:"size:64;not null;uniqueIndex:idx_video_user"`
	UserID       uint64 `gorm:"not null;uniqueIndex:idx_video_user;index"`
	Title        string `gorm:"size:512;not null"`
	Description  string `gorm:"type:text"`
	Thumbnail    string `gorm:"size:512"`
	ChannelTitle string `gorm:"size:255"`
	PublishedAt  string `gorm:"size:64"`
	ViewCount    string `gorm:"size:32"`
	LikeCount    string `gorm:"size:32"`
	Duration     string `gorm:"size:32"`
}

func (videoRow) TableName() string {
	return "videos"
}

func (r *videoRow) toModel() model.Video {
	return model.Video{
		ID:           formatID(r.ID),
		VideoID:      r.VideoID,
		Title:        r.Title,
		Description:  r.Description,
		Thumbnail:    r.Thumbnail,
		ChannelTitle: r.ChannelTitle,
		PublishedAt:  r.PublishedAt,
		ViewCount:    r.ViewCount,
		LikeCount:    r.LikeCount,
		Duration:     r.Duration,
		UserID:       formatID(r.UserID),
		CreatedAt:    r.CreatedAt,
	}
}

type playlistRow struct {
	BaseModel
	Name        string             `gorm:"size:255;not null"`
	Description string             `gorm:"type:text"`
	UserID      uint64             `gorm:"not null;index"`
	Videos      []playlistVideoRow `gorm:"foreignKey:PlaylistID"`
}

func (playlistRow) TableName() string {
	return "playlists"
}

func (r *playlistRow) toModel() model.Playlist {
	refs := make([]string, 0, len(r.Videos))
	for _, v := range r.Videos {
		refs = append(refs, formatID(v.VideoRef))
	}
	return model.Playlist{
		ID:          formatID(r.ID),
		Name:        r.Name,
		Description: r.Description,
		UserID:      formatID(r.UserID),
		VideoRefs:   refs,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// 歌单成员关系表，自增ID就是加入顺序；(playlist_id, video_ref)唯一，保证同一个视频在歌单里只出现一次
type playlistVideoRow struct {
	ID         uint64 `gorm:"primarykey"`
	PlaylistID uint64 `gorm:"not null;uniqueIndex:idx_playlist_video"`
	VideoRef   uint64 `gorm:"not null;uniqueIndex:idx_playlist_video;index"`
	CreatedAt  time.Time
}

func (playlistVideoRow) TableName() string {
	return "playlist_videos"
}

type searchHistoryRow struct {
	ID        uint64 `gorm:"primarykey"`
	Query     string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (searchHistoryRow) TableName() string {
	return "search_histories"
}

// Models AutoMigrate需要的全部表
func Models() []any {
	return []any{&userRow{}, &videoRow{}, &playlistRow{}, &playlistVideoRow{}, &searchHistoryRow{}}
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// parseID 非数字的ID当作不存在
func parseID(id string) (uint64, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q: %w", id, repository.ErrNotFound)
	}
	return n, nil
}
