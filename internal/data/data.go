// Package data 按配置打开存储后端
package data

import (
	"ClipHub/internal/config"
	"ClipHub/internal/repository"
	"ClipHub/internal/repository/mongostore"
	"ClipHub/internal/repository/sqlstore"
	"ClipHub/pkg/mongodb"
	"context"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	gormlogger "gorm.io/gorm/logger"
)

// Open 根据STORE_DRIVER返回对应的Store；Mongo会顺带建好索引，SQL会自动迁移
func Open(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := mongodb.InitMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		st := mongostore.New(client, cfg.MongoDatabase)
		if err := mongostore.EnsureIndexes(ctx, st); err != nil {
			_ = st.Close(ctx)
			return nil, err
		}
		return st, nil
	case config.DriverMySQL:
		// DSN形如 user:pass@tcp(127.0.0.1:3306)/cliphub?charset=utf8mb4&parseTime=True&loc=Local
		return sqlstore.Open(mysql.Open(cfg.MySQLDSN), gormlogger.Warn)
	case config.DriverSQLite:
		return sqlstore.Open(sqlite.Open(cfg.SQLitePath), gormlogger.Warn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
