package service

import (
	"ClipHub/internal/model"
	"context"
	"testing"
)

// BenchmarkGetByID_CacheBreakdown 缓存为空时大量并发请求同一个视频，singleflight应该把它们合并成极少的上游请求
func BenchmarkGetByID_CacheBreakdown(b *testing.B) {
	provider := newFakeProvider()
	provider.add("a1", "Heist")
	cache := &memoryCache{videos: map[string]model.Video{}}
	svc := NewCatalogService(provider, cache, nil)

	b.ResetTimer() // 忽略前面的准备时间
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := svc.GetByID(context.Background(), "a1"); err != nil {
				b.Errorf("GetByID failed: %v", err)
			}
		}
	})
	b.ReportMetric(float64(len(provider.videoCalls)), "upstream-calls")
}
