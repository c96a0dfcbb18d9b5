package database

import (
	"fmt"

	"github.com/wfunc/hell-game/internal/logger"
	"github.com/wfunc/hell-game/internal/models"
	"go.uber.org/zap"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	// 清理过期锁文件
	CleanupStaleLocks()

	// 获取迁移锁，避免多个进程同时迁移
	dbPath := getDBPath()
	if dbPath != "" {
		lockFile, err := acquireMigrationLock(dbPath)
		if err != nil {
			logger.Error("无法获取迁移锁", zap.Error(err))
			return fmt.Errorf("获取迁移锁失败: %w", err)
		}
		defer releaseMigrationLock(lockFile)
	}

	migrationModels := []interface{}{
		// 玩家相关
		&models.Player{},

		// 存档相关
		&models.SaveSlot{},
		&models.SharedLedger{},
	}

	logger.Info("开始数据库迁移...")

	if DB.Dialector.Name() == "sqlite" {
		// 禁用外键约束，避免重建表时的问题
		DB.Exec("PRAGMA foreign_keys = OFF")
		defer DB.Exec("PRAGMA foreign_keys = ON")
	}

	for _, model := range migrationModels {
		if err := DB.AutoMigrate(model); err != nil {
			logger.Error("迁移失败",
				zap.String("model", fmt.Sprintf("%T", model)),
				zap.Error(err),
			)
			return err
		}
		logger.Debug("迁移成功", zap.String("model", fmt.Sprintf("%T", model)))
	}

	// 创建索引
	if err := createIndexes(); err != nil {
		return err
	}

	logger.Info("数据库迁移完成")
	return nil
}

// createIndexes 创建数据库索引
func createIndexes() error {
	// 玩家表索引
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_players_username ON players(username)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_players_username"), zap.Error(err))
	}

	// 存档表索引
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_save_slots_player_id ON save_slots(player_id)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_save_slots_player_id"), zap.Error(err))
	}

	// 槽位复用依赖软删除，索引不加唯一约束
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_save_slots_player_slot ON save_slots(player_id, slot)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_save_slots_player_slot"), zap.Error(err))
	}

	// 账本表索引
	if err := DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_shared_ledgers_player_id ON shared_ledgers(player_id)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_shared_ledgers_player_id"), zap.Error(err))
	}

	logger.Info("数据库索引创建完成")
	return nil
}

// DropAllTables 删除所有表（仅用于测试环境）
func DropAllTables() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	var tables []string
	if err := DB.Raw("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&tables).Error; err != nil {
		return err
	}

	for _, table := range tables {
		if err := DB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Error; err != nil {
			logger.Error("删除表失败", zap.String("table", table), zap.Error(err))
			return err
		}
	}

	logger.Info("所有表已删除")
	return nil
}
