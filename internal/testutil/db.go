// Package testutil 提供测试用的 sqlite 数据库
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/burbuqebeqiraj/PlusAPI/pkg/database"
)

// SeedPassword 测试库中超级管理员的密码
const SeedPassword = "super@admin@2025"

// NewSQLiteDB 创建临时 sqlite 数据库，完成建表与初始数据写入
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(path)), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	if err := database.Seed(context.Background(), db, SeedPassword, zap.NewNop()); err != nil {
		t.Fatalf("写入初始数据失败: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
