package sqlstore

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork 事务管理器
type UnitOfWork interface {
	// Execute 将一个函数包裹在数据库事务中执行，并为它提供绑定了该事务的 Repositories
	Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error
}

// TransactionalRepositories 持有所有需要在同一个事务中操作的 Repository
type TransactionalRepositories struct {
	UserRepo     *userRepository
	VideoRepo    *videoRepository
	PlaylistRepo *playlistRepository
}

// db是事务的入口和管理者
type gormUnitOfWork struct {
	db           *gorm.DB
	userRepo     *userRepository
	videoRepo    *videoRepository
	playlistRepo *playlistRepository
}

// NewUnitOfWork 接收的是原始的、非事务的 repositories
func NewUnitOfWork(db *gorm.DB, userRepo *userRepository, videoRepo *videoRepository, playlistRepo *playlistRepository) UnitOfWork {
	return &gormUnitOfWork{
		db:           db,
		userRepo:     userRepo,
		videoRepo:    videoRepo,
		playlistRepo: playlistRepo,
	}
}

// fn返回error时回滚，返回nil时提交
func (u *gormUnitOfWork) Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 临时创建"一次性"的、绑定了当前事务的Repo副本
		return fn(&TransactionalRepositories{
			UserRepo:     u.userRepo.WithTx(tx),
			VideoRepo:    u.videoRepo.WithTx(tx),
			PlaylistRepo: u.playlistRepo.WithTx(tx),
		})
	})
}
