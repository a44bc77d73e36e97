package sqlstore

import (
	"ClipHub/internal/model"
	"ClipHub/internal/repository"
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type playlistRepository struct {
	db *gorm.DB
}

func (r *playlistRepository) WithTx(tx *gorm.DB) *playlistRepository {
	return &playlistRepository{db: tx}
}

// preloadVideos 成员关系按自增ID排序，也就是加入歌单的顺序
func preloadVideos(db *gorm.DB) *gorm.DB {
	return db.Preload("Videos", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	})
}

func (r *playlistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	owner, err := parseID(playlist.UserID)
	if err != nil {
		return err
	}
	row := playlistRow{
		Name:        playlist.Name,
		Description: playlist.Description,
		UserID:      owner,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err)
	}
	playlist.ID = formatID(row.ID)
	playlist.VideoRefs = []string{}
	playlist.CreatedAt = row.CreatedAt
	playlist.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *playlistRepository) FindByID(ctx context.Context, id string) (*model.Playlist, error) {
	pid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var row playlistRow
	if err := preloadVideos(r.db.WithContext(ctx)).First(&row, pid).Error; err != nil {
		return nil, translate(err)
	}
	playlist := row.toModel()
	return &playlist, nil
}

func (r *playlistRepository) ListByUser(ctx context.Context, userID string) ([]model.Playlist, error) {
	owner, err := parseID(userID)
	if err != nil {
		return []model.Playlist{}, nil
	}
	var rows []playlistRow
	err = preloadVideos(r.db.WithContext(ctx)).
		Where("user_id = ?", owner).
		Order("created_at desc").Order("id desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	playlists := make([]model.Playlist, 0, len(rows))
	for i := range rows {
		playlists = append(playlists, rows[i].toModel())
	}
	return playlists, nil
}

func (r *playlistRepository) Update(ctx context.Context, id string, name, description *string) (*model.Playlist, error) {
	pid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	if err := r.exists(db, pid); err != nil {
		return nil, err
	}
	updates := map[string]any{"updated_at": time.Now()}
	if name != nil {
		updates["name"] = *name
	}
	if description != nil {
		updates["description"] = *description
	}
	if err := db.Model(&playlistRow{}).Where("id = ?", pid).Updates(updates).Error; err != nil {
		return nil, translate(err)
	}
	return r.FindByID(ctx, id)
}

// Delete 成员关系和歌单在同一个事务里删除，不动被引用的视频
func (r *playlistRepository) Delete(ctx context.Context, id string) error {
	pid, err := parseID(id)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", pid).Delete(&playlistVideoRow{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&playlistRow{}, pid)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

// AddVideo 依赖唯一索引idx_playlist_video做"不存在才插入"，一条INSERT完成检查和追加
func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoRef string) (bool, error) {
	pid, err := parseID(playlistID)
	if err != nil {
		return false, err
	}
	vid, err := parseID(videoRef)
	if err != nil {
		return false, err
	}
	db := r.db.WithContext(ctx)
	if err := r.touch(db, pid); err != nil {
		return false, err
	}
	// 冲突时什么都不做，RowsAffected为0就说明已经在歌单里了
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "playlist_id"}, {Name: "video_ref"}},
		DoNothing: true,
	}).Create(&playlistVideoRow{PlaylistID: pid, VideoRef: vid})
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoRef string) (bool, error) {
	pid, err := parseID(playlistID)
	if err != nil {
		return false, err
	}
	db := r.db.WithContext(ctx)
	if err := r.touch(db, pid); err != nil {
		return false, err
	}
	vid, err := strconv.ParseUint(videoRef, 10, 64)
	if err != nil {
		return false, nil
	}
	result := db.Where("playlist_id = ? AND video_ref = ?", pid, vid).Delete(&playlistVideoRow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *playlistRepository) PullVideo(ctx context.Context, videoRef string) error {
	vid, err := strconv.ParseUint(videoRef, 10, 64)
	if err != nil {
		return nil
	}
	return r.db.WithContext(ctx).Where("video_ref = ?", vid).Delete(&playlistVideoRow{}).Error
}

func (r *playlistRepository) DeleteByUser(ctx context.Context, userID string) error {
	owner, err := parseID(userID)
	if err != nil {
		return err
	}
	db := r.db.WithContext(ctx)
	owned := db.Model(&playlistRow{}).Select("id").Where("user_id = ?", owner)
	if err := db.Where("playlist_id IN (?)", owned).Delete(&playlistVideoRow{}).Error; err != nil {
		return err
	}
	return db.Where("user_id = ?", owner).Delete(&playlistRow{}).Error
}

// touch 确认歌单存在并刷新updated_at
func (r *playlistRepository) touch(db *gorm.DB, pid uint64) error {
	if err := r.exists(db, pid); err != nil {
		return err
	}
	return db.Model(&playlistRow{}).Where("id = ?", pid).UpdateColumn("updated_at", time.Now()).Error
}

// MySQL的RowsAffected统计的是真正改变的行，不能拿来判断存在性，单独count一次
func (r *playlistRepository) exists(db *gorm.DB, pid uint64) error {
	var n int64
	if err := db.Model(&playlistRow{}).Where("id = ?", pid).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
