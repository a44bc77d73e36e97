package repository

import (
	"ClipHub/internal/model"
	"context"
	"errors"
)

// 各存储实现必须把驱动自己的错误翻译成这两个哨兵错误（用%w包裹），service层只认它们
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// 用户仓库：email和username都有唯一索引，冲突时返回ErrDuplicate
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

// 收藏视频仓库：(videoId, user)联合唯一
type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	FindOwned(ctx context.Context, userID, videoID string) (*model.Video, error)
	// 任意用户收藏过的同一个YouTube视频，取最早的那条
	FindAnyByVideoID(ctx context.Context, videoID string) (*model.Video, error)
	// 按存储ID批量查，结果顺序不保证，查不到的ID直接跳过
	FindByIDs(ctx context.Context, ids []string) ([]model.Video, error)
	// 按创建时间倒序
	ListByUser(ctx context.Context, userID string) ([]model.Video, error)
	// 删除并返回被删掉的记录，不存在返回ErrNotFound
	DeleteOwned(ctx context.Context, userID, videoID string) (*model.Video, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// 歌单仓库
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	FindByID(ctx context.Context, id string) (*model.Playlist, error)
	// 按创建时间倒序
	ListByUser(ctx context.Context, userID string) ([]model.Playlist, error)
	// nil表示不修改该字段
	Update(ctx context.Context, id string, name, description *string) (*model.Playlist, error)
	Delete(ctx context.Context, id string) error
	// 原子的"不存在才追加"，已存在返回added=false
	AddVideo(ctx context.Context, playlistID, videoRef string) (added bool, err error)
	RemoveVideo(ctx context.Context, playlistID, videoRef string) (removed bool, err error)
	// 从所有歌单里摘掉某个视频引用
	PullVideo(ctx context.Context, videoRef string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type SearchHistoryRepository interface {
	Create(ctx context.Context, entry *model.SearchHistory) error
}

// Store 一个存储后端提供的全部仓库，外加级联删除用户这种跨仓库操作
type Store interface {
	Users() UserRepository
	Videos() VideoRepository
	Playlists() PlaylistRepository
	Searches() SearchHistoryRepository
	// 删除用户及其歌单、收藏视频
	DeleteUserCascade(ctx context.Context, userID string) error
	Close(ctx context.Context) error
}
