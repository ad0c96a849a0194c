// Package testutil 提供测试用的内存数据库、数据工厂和断言辅助。
package testutil

import (
	"testing"

	"github.com/ShamirSecret/invest/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// allModels 测试库需要迁移的全部模型
var allModels = []interface{}{
	&model.AssetModel{},
	&model.AssetTermModel{},
	&model.InvestmentModel{},
	&model.ProfitDepositModel{},
	&model.PlatformMetricsModel{},
	&model.ChainEventModel{},
	&model.ReconcileRecordModel{},
}

// SetupTestDB 创建内存SQLite库并迁移全部模型
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// TeardownTestDB 关闭底层连接
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
