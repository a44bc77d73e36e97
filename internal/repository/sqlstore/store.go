// Package sqlstore 基于GORM的关系型存储实现，生产用MySQL，本地和测试用SQLite
package sqlstore

import (
	"ClipHub/internal/repository"
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type store struct {
	db        *gorm.DB
	users     *userRepository
	videos    *videoRepository
	playlists *playlistRepository
	searches  *searchHistoryRepository
	uow       UnitOfWork
}

// Open 打开数据库并自动迁移表结构；AutoMigrate只建表、加列、加索引，不会删改已有的
func Open(dialector gorm.Dialector, logLevel logger.LogLevel) (repository.Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true, // 唯一索引冲突统一翻译成gorm.ErrDuplicatedKey
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return New(db), nil
}

// New 包装一个已经迁移好的*gorm.DB
func New(db *gorm.DB) repository.Store {
	s := &store{
		db:        db,
		users:     &userRepository{db: db},
		videos:    &videoRepository{db: db},
		playlists: &playlistRepository{db: db},
		searches:  &searchHistoryRepository{db: db},
	}
	s.uow = NewUnitOfWork(db, s.users, s.videos, s.playlists)
	return s
}

func (s *store) Users() repository.UserRepository { return s.users }
func (s *store) Videos() repository.VideoRepository { return s.videos }
func (s *store) Playlists() repository.PlaylistRepository { return s.playlists }
func (s *store) Searches() repository.SearchHistoryRepository { return s.searches }

// DeleteUserCascade 在一个事务里删掉用户、他的歌单（含成员关系）和收藏视频
func (s *store) DeleteUserCascade(ctx context.Context, userID string) error {
	return s.uow.Execute(ctx, func(repos *TransactionalRepositories) error {
		if _, err := repos.UserRepo.FindByID(ctx, userID); err != nil {
			return err
		}
		if err := repos.PlaylistRepo.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := repos.VideoRepo.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return repos.UserRepo.Delete(ctx, userID)
	})
}

func (s *store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate 把gorm/驱动的错误翻译成仓库层的哨兵错误
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", repository.ErrNotFound, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	// TranslateError关闭或者驱动没有实现翻译时，MySQL的1062就是Duplicate entry
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}
