// cmd/seeder/main.go

package main

import (
	"ClipHub/internal/config"
	"ClipHub/internal/data"
	"ClipHub/internal/format"
	"ClipHub/internal/model"
	"ClipHub/internal/repository"
	"ClipHub/internal/service"
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/go-faker/faker/v4"
)

const (
	userCount           = 20
	videosPerUser       = 10
	playlistsPerUser    = 2
	videosPerPlaylist   = 4
	defaultSeedPassword = "password"
)

const videoIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"

// 随机生成一个11位、形似YouTube的videoId
func fakeVideoID() string {
	b := make([]byte, 11)
	for i := range b {
		b[i] = videoIDAlphabet[rand.Intn(len(videoIDAlphabet))]
	}
	return string(b)
}

func main() {
	fmt.Println("🚀 开始填充测试数据...")

	// --- 1. 连接存储，和server使用同一份配置 ---
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ 配置校验失败: %v", err)
	}
	ctx := context.Background()
	store, err := data.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ 无法连接到数据库: %v", err)
	}
	defer store.Close(ctx)
	fmt.Printf("✅ 数据库连接成功! driver=%s\n", cfg.StoreDriver)

	// 所有用户共用一个默认密码 "password"，只哈希一次
	hashedPassword, err := service.HashPassword(defaultSeedPassword)
	if err != nil {
		log.Fatalf("❌ 密码加密失败: %v", err)
	}

	// --- 2. 创建用户 ---
	fmt.Println("👥 正在创建用户...")
	users := make([]*model.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		user := &model.User{
			Username:     fmt.Sprintf("%s%d", faker.Username(), i),
			Email:        fmt.Sprintf("seed%d_%s", i, faker.Email()),
			PasswordHash: hashedPassword,
		}
		if err := store.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue // 重复运行seeder时跳过已存在的用户
			}
			log.Fatalf("❌ 创建用户失败: %v", err)
		}
		users = append(users, user)
	}
	fmt.Printf("✅ 成功创建 %d 个用户!\n", len(users))

	// --- 3. 每个用户收藏若干视频 ---
	fmt.Println("🎬 正在创建收藏视频...")
	savedByUser := make(map[string][]*model.Video, len(users))
	for _, user := range users {
		for i := 0; i < videosPerUser; i++ {
			published := time.Now().Add(-time.Duration(rand.Intn(400*24)) * time.Hour)
			video := &model.Video{
				VideoID:      fakeVideoID(),
				Title:        faker.Sentence(),
				Description:  faker.Paragraph(),
				Thumbnail:    "https://i.ytimg.com/vi/placeholder/hqdefault.jpg",
				ChannelTitle: faker.Word(),
				PublishedAt:  format.RelativeDate(published, time.Now()),
				ViewCount:    format.Count(fmt.Sprint(rand.Intn(5_000_000))),
				LikeCount:    format.Count(fmt.Sprint(rand.Intn(100_000))),
				Duration:     format.Duration(fmt.Sprintf("PT%dM%dS", rand.Intn(4), rand.Intn(60))),
				UserID:       user.ID,
			}
			if err := store.Videos().Create(ctx, video); err != nil {
				log.Fatalf("❌ 创建视频失败: %v", err)
			}
			savedByUser[user.ID] = append(savedByUser[user.ID], video)
		}
	}
	fmt.Printf("✅ 成功创建 %d 个收藏视频!\n", len(users)*videosPerUser)

	// --- 4. 创建歌单并随机放入自己收藏的视频 ---
	fmt.Println("📂 正在创建歌单...")
	added := 0
	for _, user := range users {
		for i := 0; i < playlistsPerUser; i++ {
			playlist := &model.Playlist{
				Name:        faker.Word() + " clips",
				Description: faker.Sentence(),
				UserID:      user.ID,
			}
			if err := store.Playlists().Create(ctx, playlist); err != nil {
				log.Fatalf("❌ 创建歌单失败: %v", err)
			}
			saved := savedByUser[user.ID]
			for j := 0; j < videosPerPlaylist; j++ {
				video := saved[rand.Intn(len(saved))]
				// 随机可能抽到重复的视频，AddVideo保证只加一次
				ok, err := store.Playlists().AddVideo(ctx, playlist.ID, video.ID)
				if err != nil {
					log.Fatalf("❌ 歌单添加视频失败: %v", err)
				}
				if ok {
					added++
				}
			}
		}
	}
	fmt.Printf("✅ 成功创建 %d 个歌单，共放入 %d 个视频!\n", len(users)*playlistsPerUser, added)

	fmt.Printf("🎉🎉🎉 所有测试数据填充完毕! 默认密码: %s 🎉🎉🎉\n", defaultSeedPassword)
}
