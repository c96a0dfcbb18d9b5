package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wfunc/hell-game/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 创建内存测试数据库并迁移全部模型
func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Player{},
		&models.SaveSlot{},
		&models.SharedLedger{},
	)
	require.NoError(t, err)

	return db
}

// SeedTestPlayer 创建测试玩家
func SeedTestPlayer(t *testing.T, db *gorm.DB, username string) *models.Player {
	player := &models.Player{
		Username:     username,
		Nickname:     username,
		PasswordHash: "test-hash",
		Status:       "active",
	}
	require.NoError(t, db.Create(player).Error)
	return player
}

// CreateTestSave 构造测试存档
func CreateTestSave(playerID uint, slot int, stateID string, soulcoins int) *models.SaveSlot {
	return &models.SaveSlot{
		PlayerID:      playerID,
		Slot:          slot,
		StateID:       stateID,
		CharacterID:   "ch-" + stateID,
		CharacterName: "Test Devil",
		Turn:          1,
		Soulcoins:     soulcoins,
		StateData:     `{"turn":1}`,
	}
}
