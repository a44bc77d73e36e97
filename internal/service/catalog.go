package service

import (
	"ClipHub/internal/apperr"
	"ClipHub/internal/format"
	"ClipHub/internal/model"
	"ClipHub/internal/repository"
	"ClipHub/pkg/logger"
	"ClipHub/pkg/youtube"
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	searchSuffix     = " movie clip"
	searchLimit      = 20
	trendingLimit    = 12
	relatedLimit     = 5
	defaultCategory  = "drama"
	orderRelevance   = "relevance"
	orderViewCount   = "viewCount"
	msgSearchFailed  = "Error searching videos"
	msgTrendFailed   = "Error fetching trending videos"
	msgDetailFailed  = "Error fetching video details"
	msgRelatedFailed = "Error fetching related videos"
)

// VideoProvider 视频数据源，生产环境是*youtube.Client
type VideoProvider interface {
	Search(ctx context.Context, p youtube.SearchParams) ([]youtube.SearchResult, error)
	Videos(ctx context.Context, ids []string, parts ...string) ([]youtube.VideoItem, error)
}

// 视频目录服务：搜索、热门、详情、相关推荐，都是先search拿ID再videos拿详情
type CatalogService interface {
	Search(ctx context.Context, query string) ([]model.Video, error)
	Trending(ctx context.Context, category string) ([]model.Video, error)
	GetByID(ctx context.Context, videoID string) (*model.Video, error)
	Related(ctx context.Context, videoID string) ([]model.Video, error)
}

type catalogService struct {
	sf singleflight.Group

	provider VideoProvider
	cache    repository.CatalogCache
	recorder SearchRecorder
	now      func() time.Time
}

// NewCatalogService cache和recorder可以为nil，分别表示不缓存、不记录搜索
func NewCatalogService(provider VideoProvider, cache repository.CatalogCache, recorder SearchRecorder) CatalogService {
	if recorder == nil {
		recorder = NopSearchRecorder{}
	}
	return &catalogService{
		provider: provider,
		cache:    cache,
		recorder: recorder,
		now:      time.Now,
	}
}

func (s *catalogService) Search(ctx context.Context, query string) ([]model.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.BadRequest("Search query is required")
	}
	videos, err := s.searchAndDetail(ctx, youtube.SearchParams{
		Query:      query + searchSuffix,
		MaxResults: searchLimit,
		Order:      orderRelevance,
	}, "")
	if err != nil {
		return nil, apperr.Upstream(msgSearchFailed, err)
	}

	// 搜索记录是旁路，失败只记日志
	if err := s.recorder.Record(ctx, query); err != nil {
		logger.Log.WithError(err).WithField("query", query).Warn("搜索记录发布失败")
	}
	return videos, nil
}

func (s *catalogService) Trending(ctx context.Context, category string) ([]model.Video, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = defaultCategory
	}
	videos, err := s.searchAndDetail(ctx, youtube.SearchParams{
		Query:      category + searchSuffix,
		MaxResults: trendingLimit,
		Order:      orderViewCount,
	}, "")
	if err != nil {
		return nil, apperr.Upstream(msgTrendFailed, err)
	}
	return videos, nil
}

// 根据videoID查找视频：1、查找Redis缓存 2、未命中通过SingleFlight请求YouTube，结果写回缓存
func (s *catalogService) GetByID(ctx context.Context, videoID string) (*model.Video, error) {
	if s.cache != nil {
		cached, err := s.cache.GetVideo(ctx, videoID)
		if err != nil {
			// Redis本身出错不影响主流程，当作未命中
			logger.Log.WithError(err).WithField("video_id", videoID).Warn("读取视频缓存失败")
		} else if cached != nil {
			return cached, nil
		}
	}

	// 同一时间对同一个视频的请求只打一次YouTube；共享的请求不跟随第一个调用方取消
	flightCtx := context.WithoutCancel(ctx)
	result, err, _ := s.sf.Do("video:"+videoID, func() (interface{}, error) {
		items, err := s.provider.Videos(flightCtx, []string{videoID})
		if err != nil {
			return nil, apperr.Upstream(msgDetailFailed, err)
		}
		if len(items) == 0 {
			return nil, apperr.NotFound("Video not found")
		}
		video := s.normalize(items[0])
		if s.cache != nil {
			if err := s.cache.SetVideo(flightCtx, &video); err != nil {
				logger.Log.WithError(err).WithField("video_id", videoID).Warn("写入视频缓存失败")
			}
		}
		return &video, nil
	})
	if err != nil {
		return nil, err
	}
	// 结果被多个调用方共享，各自拿一份拷贝
	video := *result.(*model.Video)
	return &video, nil
}

func (s *catalogService) Related(ctx context.Context, videoID string) ([]model.Video, error) {
	items, err := s.provider.Videos(ctx, []string{videoID}, "snippet")
	if err != nil {
		return nil, apperr.Upstream(msgRelatedFailed, err)
	}
	if len(items) == 0 {
		return nil, apperr.NotFound("Video not found")
	}
	videos, err := s.searchAndDetail(ctx, youtube.SearchParams{
		Query:      items[0].Snippet.Title + searchSuffix,
		MaxResults: relatedLimit,
		Order:      orderRelevance,
	}, videoID)
	if err != nil {
		return nil, apperr.Upstream(msgRelatedFailed, err)
	}
	return videos, nil
}

// searchAndDetail 搜索拿到ID列表后批量查详情；没有ID时不发第二个请求。exclude非空时剔除该ID
func (s *catalogService) searchAndDetail(ctx context.Context, params youtube.SearchParams, exclude string) ([]model.Video, error) {
	results, err := s.provider.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(results))
	for _, r := range results {
		if r.ID.VideoID == "" || r.ID.VideoID == exclude {
			continue
		}
		ids = append(ids, r.ID.VideoID)
	}
	if len(ids) == 0 {
		return []model.Video{}, nil
	}

	items, err := s.provider.Videos(ctx, ids)
	if err != nil {
		return nil, err
	}
	videos := make([]model.Video, 0, len(items))
	for _, item := range items {
		videos = append(videos, s.normalize(item))
	}
	return videos, nil
}

// normalize YouTube原始数据转成前端直接展示的视频记录
func (s *catalogService) normalize(item youtube.VideoItem) model.Video {
	return model.Video{
		VideoID:      item.ID,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		Thumbnail:    item.Snippet.Thumbnails.Best(),
		ChannelTitle: item.Snippet.ChannelTitle,
		PublishedAt:  format.RelativeDateString(item.Snippet.PublishedAt, s.now()),
		ViewCount:    format.Count(item.Statistics.ViewCount),
		LikeCount:    format.Count(item.Statistics.LikeCount),
		Duration:     format.Duration(item.ContentDetails.Duration),
	}
}
