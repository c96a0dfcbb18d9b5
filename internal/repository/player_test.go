package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/hell-game/internal/models"
)

func TestPlayerRepository(t *testing.T) {
	db := TestDB(t)
	repo := NewPlayerRepository(db)
	ctx := context.Background()

	t.Run("创建并按ID查找", func(t *testing.T) {
		player := &models.Player{
			Username:     "morgan",
			Nickname:     "Morgan",
			PasswordHash: "hash",
			Status:       "active",
		}
		require.NoError(t, repo.Create(ctx, player))
		require.NotZero(t, player.ID)

		found, err := repo.FindByID(ctx, player.ID)
		require.NoError(t, err)
		assert.Equal(t, "morgan", found.Username)
	})

	t.Run("按用户名查找", func(t *testing.T) {
		found, err := repo.FindByUsername(ctx, "morgan")
		require.NoError(t, err)
		assert.Equal(t, "Morgan", found.Nickname)
	})

	t.Run("不存在的玩家返回ErrPlayerNotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 9999)
		assert.ErrorIs(t, err, ErrPlayerNotFound)

		_, err = repo.FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})

	t.Run("用户名存在性检查", func(t *testing.T) {
		exists, err := repo.ExistsByUsername(ctx, "morgan")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("更新玩家", func(t *testing.T) {
		player, err := repo.FindByUsername(ctx, "morgan")
		require.NoError(t, err)

		player.Nickname = "Morgan Vael"
		require.NoError(t, repo.Update(ctx, player))

		found, err := repo.FindByID(ctx, player.ID)
		require.NoError(t, err)
		assert.Equal(t, "Morgan Vael", found.Nickname)
	})
}
