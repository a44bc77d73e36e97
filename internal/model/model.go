package model

import "time"

// 领域模型与具体存储无关，ID统一用字符串：Mongo里是ObjectID的hex，SQL里是自增主键的十进制
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // 永远不返回给客户端
	CreatedAt    time.Time `json:"createdAt"`
}

// Video 两种生命周期：搜索结果只在内存里（ID、UserID为空），收藏后才落库并带上owner
type Video struct {
	ID           string    `json:"id,omitempty"`
	VideoID      string    `json:"videoId"` // YouTube的视频ID
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Thumbnail    string    `json:"thumbnail"`
	ChannelTitle string    `json:"channelTitle"`
	PublishedAt  string    `json:"publishedAt"`
	ViewCount    string    `json:"viewCount"`
	LikeCount    string    `json:"likeCount"`
	Duration     string    `json:"duration"`
	UserID       string    `json:"user,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Playlist 的VideoRefs存的是已落库Video的ID（不是YouTube的videoId），按加入顺序排列
type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UserID      string    `json:"user"`
	VideoRefs   []string  `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SearchHistory 只写不读的搜索日志，由consumer进程落库
type SearchHistory struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"createdAt"`
}
