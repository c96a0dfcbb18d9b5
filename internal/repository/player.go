package repository

import (
	"context"
	"errors"

	"github.com/wfunc/hell-game/internal/models"
	"gorm.io/gorm"
)

// ErrPlayerNotFound 玩家不存在
var ErrPlayerNotFound = errors.New("玩家不存在")

// PlayerRepository 玩家仓储接口
type PlayerRepository interface {
	BaseRepository
	Create(ctx context.Context, player *models.Player) error
	FindByID(ctx context.Context, id uint) (*models.Player, error)
	FindByUsername(ctx context.Context, username string) (*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// playerRepo 玩家仓储实现
type playerRepo struct {
	*BaseRepo
}

// NewPlayerRepository 创建玩家仓储
func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepo{BaseRepo: &BaseRepo{db: db}}
}

// Create 创建玩家
func (r *playerRepo) Create(ctx context.Context, player *models.Player) error {
	return r.db.WithContext(ctx).Create(player).Error
}

// FindByID 根据ID查找玩家
func (r *playerRepo) FindByID(ctx context.Context, id uint) (*models.Player, error) {
	var player models.Player
	err := r.db.WithContext(ctx).First(&player, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

// FindByUsername 根据用户名查找玩家
func (r *playerRepo) FindByUsername(ctx context.Context, username string) (*models.Player, error) {
	var player models.Player
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

// Update 更新玩家
func (r *playerRepo) Update(ctx context.Context, player *models.Player) error {
	return r.db.WithContext(ctx).Save(player).Error
}

// ExistsByUsername 检查用户名是否已注册
func (r *playerRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Player{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

// WithTx 使用事务
func (r *playerRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &playerRepo{BaseRepo: &BaseRepo{db: tx}}
}
