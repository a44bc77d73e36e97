package repository

import (
	"ClipHub/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"
)

// CatalogCache 缓存YouTube单个视频详情（已格式化的记录），未命中返回(nil, nil)
type CatalogCache interface {
	GetVideo(ctx context.Context, videoID string) (*model.Video, error)
	SetVideo(ctx context.Context, video *model.Video) error
}

type redisCatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCatalogCache(rdb *redis.Client, ttl time.Duration) CatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisCatalogCache{rdb: rdb, ttl: ttl}
}

func (r *redisCatalogCache) keyVideoInfo(videoID string) string {
	return fmt.Sprintf("catalog:video:%s", videoID)
}

func (r *redisCatalogCache) GetVideo(ctx context.Context, videoID string) (*model.Video, error) {
	videoJSON, err := r.rdb.Get(ctx, r.keyVideoInfo(videoID)).Result()
	if err == redis.Nil {
		return nil, nil // 缓存不存在，但Redis正常
	} else if err != nil {
		return nil, err
	}
	var video model.Video
	if err := json.Unmarshal([]byte(videoJSON), &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *redisCatalogCache) SetVideo(ctx context.Context, video *model.Video) error {
	videoJSON, err := json.Marshal(video)
	if err != nil {
		return err
	}
	// 加随机抖动，防止同一批key同时过期造成缓存雪崩
	expiration := r.ttl + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(ctx, r.keyVideoInfo(video.VideoID), videoJSON, expiration).Err()
}
