package repository

import (
	"context"
	"errors"

	"github.com/wfunc/hell-game/internal/models"
	"gorm.io/gorm"
)

// LedgerRepository 跨存档共享账本仓储接口
type LedgerRepository interface {
	BaseRepository
	GetOrCreate(ctx context.Context, playerID uint) (*models.SharedLedger, error)
	RecordCreation(ctx context.Context, playerID uint) error
	AddMythicalPower(ctx context.Context, playerID uint, powerID string) error
	UnlockOrigin(ctx context.Context, playerID uint, originID string) error
}

// ledgerRepo 账本仓储实现
type ledgerRepo struct {
	*BaseRepo
}

// NewLedgerRepository 创建账本仓储
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepo{BaseRepo: &BaseRepo{db: db}}
}

// GetOrCreate 获取玩家账本，不存在时创建空账本
func (r *ledgerRepo) GetOrCreate(ctx context.Context, playerID uint) (*models.SharedLedger, error) {
	var ledger models.SharedLedger
	err := r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		First(&ledger).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ledger = models.SharedLedger{PlayerID: playerID}
			if err := r.db.WithContext(ctx).Create(&ledger).Error; err != nil {
				return nil, err
			}
			return &ledger, nil
		}
		return nil, err
	}
	return &ledger, nil
}

// RecordCreation 记录一次角色创建
func (r *ledgerRepo) RecordCreation(ctx context.Context, playerID uint) error {
	if _, err := r.GetOrCreate(ctx, playerID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.SharedLedger{}).
		Where("player_id = ?", playerID).
		Update("characters_created", gorm.Expr("characters_created + 1")).Error
}

// AddMythicalPower 记录跨角色保留的神话能力（去重）
func (r *ledgerRepo) AddMythicalPower(ctx context.Context, playerID uint, powerID string) error {
	ledger, err := r.GetOrCreate(ctx, playerID)
	if err != nil {
		return err
	}
	for _, id := range ledger.MythicalPowers {
		if id == powerID {
			return nil
		}
	}
	ledger.MythicalPowers = append(ledger.MythicalPowers, powerID)
	return r.db.WithContext(ctx).Save(ledger).Error
}

// UnlockOrigin 记录已解锁出身（去重）
func (r *ledgerRepo) UnlockOrigin(ctx context.Context, playerID uint, originID string) error {
	ledger, err := r.GetOrCreate(ctx, playerID)
	if err != nil {
		return err
	}
	for _, id := range ledger.UnlockedOrigins {
		if id == originID {
			return nil
		}
	}
	ledger.UnlockedOrigins = append(ledger.UnlockedOrigins, originID)
	return r.db.WithContext(ctx).Save(ledger).Error
}

// WithTx 使用事务
func (r *ledgerRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &ledgerRepo{BaseRepo: &BaseRepo{db: tx}}
}
