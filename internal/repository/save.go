package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/wfunc/hell-game/internal/models"
	"gorm.io/gorm"
)

// MaxSaveSlots 存档槽位上限
const MaxSaveSlots = 5

// ErrNoFreeSlot 槽位已满
var ErrNoFreeSlot = errors.New("存档槽位已满")

// SaveRepository 存档仓储接口
// Load在存档缺失时返回(nil, nil)，缺失不是错误
type SaveRepository interface {
	BaseRepository
	Save(ctx context.Context, save *models.SaveSlot) error
	Load(ctx context.Context, playerID uint, slot int) (*models.SaveSlot, error)
	List(ctx context.Context, playerID uint) ([]*models.SaveSlot, error)
	Delete(ctx context.Context, playerID uint, slot int) error
	DeleteAll(ctx context.Context, playerID uint) error
	NextFreeSlot(ctx context.Context, playerID uint) (int, error)
	SumSoulcoins(ctx context.Context, playerID uint) (int, error)
}

// saveRepo 存档仓储实现
type saveRepo struct {
	*BaseRepo
}

// NewSaveRepository 创建存档仓储
func NewSaveRepository(db *gorm.DB) SaveRepository {
	return &saveRepo{BaseRepo: &BaseRepo{db: db}}
}

// Save 写入存档（同槽位覆盖）
func (r *saveRepo) Save(ctx context.Context, save *models.SaveSlot) error {
	if save.Slot < 1 || save.Slot > MaxSaveSlots {
		return fmt.Errorf("无效的存档槽位: %d", save.Slot)
	}

	var existing models.SaveSlot
	err := r.db.WithContext(ctx).
		Where("player_id = ? AND slot = ?", save.PlayerID, save.Slot).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.WithContext(ctx).Create(save).Error
		}
		return err
	}

	save.ID = existing.ID
	save.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(save).Error
}

// Load 读取存档，缺失时返回(nil, nil)
func (r *saveRepo) Load(ctx context.Context, playerID uint, slot int) (*models.SaveSlot, error) {
	var save models.SaveSlot
	err := r.db.WithContext(ctx).
		Where("player_id = ? AND slot = ?", playerID, slot).
		First(&save).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &save, nil
}

// List 列出玩家全部存档（按槽位升序）
func (r *saveRepo) List(ctx context.Context, playerID uint) ([]*models.SaveSlot, error) {
	var saves []*models.SaveSlot
	err := r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("slot ASC").
		Find(&saves).Error
	return saves, err
}

// Delete 删除单个存档
func (r *saveRepo) Delete(ctx context.Context, playerID uint, slot int) error {
	return r.db.WithContext(ctx).
		Where("player_id = ? AND slot = ?", playerID, slot).
		Delete(&models.SaveSlot{}).Error
}

// DeleteAll 删除玩家全部存档
func (r *saveRepo) DeleteAll(ctx context.Context, playerID uint) error {
	return r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Delete(&models.SaveSlot{}).Error
}

// NextFreeSlot 返回最小的空闲槽位，槽位满时返回ErrNoFreeSlot
func (r *saveRepo) NextFreeSlot(ctx context.Context, playerID uint) (int, error) {
	saves, err := r.List(ctx, playerID)
	if err != nil {
		return 0, err
	}

	used := make(map[int]bool, len(saves))
	for _, s := range saves {
		used[s.Slot] = true
	}
	for slot := 1; slot <= MaxSaveSlots; slot++ {
		if !used[slot] {
			return slot, nil
		}
	}
	return 0, ErrNoFreeSlot
}

// SumSoulcoins 跨存档求和魂币（共享魂币池）
func (r *saveRepo) SumSoulcoins(ctx context.Context, playerID uint) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.SaveSlot{}).
		Where("player_id = ?", playerID).
		Select("COALESCE(SUM(soulcoins), 0)").
		Scan(&total).Error
	return int(total), err
}

// WithTx 使用事务
func (r *saveRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &saveRepo{BaseRepo: &BaseRepo{db: tx}}
}
