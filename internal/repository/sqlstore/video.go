package sqlstore

import (
	"ClipHub/internal/model"
	"context"
	"strconv"

	"gorm.io/gorm"
)

type videoRepository struct {
	db *gorm.DB
}

func (r *videoRepository) WithTx(tx *gorm.DB) *videoRepository {
	return &videoRepository{db: tx}
}

func (r *videoRepository) Create(ctx context.Context, video *model.Video) error {
	owner, err := parseID(video.UserID)
	if err != nil {
		return err
	}
	row := videoRow{
		VideoID:      video.VideoID,
		UserID:       owner,
		Title:        video.Title,
		Description:  video.Description,
		Thumbnail:    video.Thumbnail,
		ChannelTitle: video.ChannelTitle,
		PublishedAt:  video.PublishedAt,
		ViewCount:    video.ViewCount,
		LikeCount:    video.LikeCount,
		Duration:     video.Duration,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err)
	}
	video.ID = formatID(row.ID)
	video.CreatedAt = row.CreatedAt
	return nil
}

func (r *videoRepository) FindOwned(ctx context.Context, userID, videoID string) (*model.Video, error) {
	owner, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	var row videoRow
	err = r.db.WithContext(ctx).Where("video_id = ? AND user_id = ?", videoID, owner).First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	video := row.toModel()
	return &video, nil
}

func (r *videoRepository) FindAnyByVideoID(ctx context.Context, videoID string) (*model.Video, error) {
	var row videoRow
	// First默认按主键升序，取到的就是最早收藏的那条
	if err := r.db.WithContext(ctx).Where("video_id = ?", videoID).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	video := row.toModel()
	return &video, nil
}

func (r *videoRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Video, error) {
	keys := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if n, err := strconv.ParseUint(id, 10, 64); err == nil {
			keys = append(keys, n)
		}
	}
	if len(keys) == 0 {
		return []model.Video{}, nil
	}
	var rows []videoRow
	if err := r.db.WithContext(ctx).Where("id IN ?", keys).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toVideos(rows), nil
}

func (r *videoRepository) ListByUser(ctx context.Context, userID string) ([]model.Video, error) {
	owner, err := parseID(userID)
	if err != nil {
		return []model.Video{}, nil
	}
	var rows []videoRow
	err = r.db.WithContext(ctx).Where("user_id = ?", owner).Order("created_at desc").Order("id desc").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toVideos(rows), nil
}

// DeleteOwned 先查后删，返回被删除的记录，调用方要用它的ID去清理歌单引用
func (r *videoRepository) DeleteOwned(ctx context.Context, userID, videoID string) (*model.Video, error) {
	owner, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	var row videoRow
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ? AND user_id = ?", videoID, owner).First(&row).Error; err != nil {
			return err
		}
		return tx.Delete(&videoRow{}, row.ID).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	video := row.toModel()
	return &video, nil
}

// DeleteByUser 连同这些视频在任何歌单里的成员关系一起删掉
func (r *videoRepository) DeleteByUser(ctx context.Context, userID string) error {
	owner, err := parseID(userID)
	if err != nil {
		return err
	}
	db := r.db.WithContext(ctx)
	owned := db.Model(&videoRow{}).Select("id").Where("user_id = ?", owner)
	if err := db.Where("video_ref IN (?)", owned).Delete(&playlistVideoRow{}).Error; err != nil {
		return err
	}
	return db.Where("user_id = ?", owner).Delete(&videoRow{}).Error
}

func toVideos(rows []videoRow) []model.Video {
	videos := make([]model.Video, 0, len(rows))
	for i := range rows {
		videos = append(videos, rows[i].toModel())
	}
	return videos
}
