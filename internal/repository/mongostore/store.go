// Package mongostore 基于MongoDB的存储实现，是默认的存储后端
package mongostore

import (
	"ClipHub/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type store struct {
	client    *mongo.Client
	db        *mongo.Database
	users     *userRepository
	videos    *videoRepository
	playlists *playlistRepository
	searches  *searchHistoryRepository
}

// New 在指定数据库上创建Store，client由调用方创建，Close时一并断开
func New(client *mongo.Client, database string) repository.Store {
	db := client.Database(database)
	return &store{
		client:    client,
		db:        db,
		users:     &userRepository{coll: db.Collection(collUsers)},
		videos:    &videoRepository{coll: db.Collection(collVideos)},
		playlists: &playlistRepository{coll: db.Collection(collPlaylists)},
		searches:  &searchHistoryRepository{coll: db.Collection(collSearches)},
	}
}

func (s *store) Users() repository.UserRepository { return s.users }
func (s *store) Videos() repository.VideoRepository { return s.videos }
func (s *store) Playlists() repository.PlaylistRepository { return s.playlists }
func (s *store) Searches() repository.SearchHistoryRepository { return s.searches }

// EnsureIndexes 创建唯一索引，重复执行是幂等的
func EnsureIndexes(ctx context.Context, st repository.Store) error {
	s, ok := st.(*store)
	if !ok {
		return errors.New("mongostore: not a mongo store")
	}
	indexes := map[string][]mongo.IndexModel{
		collUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collVideos: {
			// 同一个用户不能重复收藏同一个视频
			{Keys: bson.D{{Key: "videoId", Value: 1}, {Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		collPlaylists: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "videos", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// DeleteUserCascade 没有副本集就没有多文档事务，所以先删子文档，最后删用户，失败了可以重试
func (s *store) DeleteUserCascade(ctx context.Context, userID string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	if err := s.playlists.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	// 别人的歌单也可能引用了这个用户收藏的视频
	owned, err := s.videos.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, v := range owned {
		if err := s.playlists.PullVideo(ctx, v.ID); err != nil {
			return err
		}
	}
	if err := s.videos.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}

func (s *store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// now Mongo只保存到毫秒，提前截断，保证写入后返回的时间和再读出来的一致
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %v", repository.ErrNotFound, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	default:
		return err
	}
}
