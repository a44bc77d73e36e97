// Package testutil 测试共用的脚手架
package testutil

import (
	"ClipHub/internal/repository"
	"ClipHub/internal/repository/sqlstore"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteStore 每次返回一个独立的内存SQLite库，测试结束自动关闭
func NewSQLiteStore(t *testing.T) repository.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库只开一个连接，避免SQLite的写锁冲突
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(sqlstore.Models()...))
	st := sqlstore.New(db)
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st
}
