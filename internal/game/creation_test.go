package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraitBudget(t *testing.T) {
	cat := testCatalog()
	origin, _ := cat.Origin("gutter-born")

	spent, budget := TraitBudget(origin, []string{"silver-tongue", "iron-will"}, cat)
	assert.Equal(t, 5, spent)
	assert.Equal(t, 5, budget)

	// 负消耗的缺陷特质返还点数
	spent, _ = TraitBudget(origin, []string{"silver-tongue", "iron-will", "hunted"}, cat)
	assert.Equal(t, 3, spent)

	// 未知特质不计消耗
	spent, _ = TraitBudget(origin, []string{"no-such-trait"}, cat)
	assert.Equal(t, 0, spent)
}

func TestFinalizeCharacter(t *testing.T) {
	cat := testCatalog()

	baseSel := CreationSelections{
		FirstName:     "Morgan",
		LastName:      "Vael",
		Age:           28,
		OriginID:      "gutter-born",
		StartLocation: "ashen-market",
	}

	t.Run("缺少出身拒绝", func(t *testing.T) {
		sel := baseSel
		sel.OriginID = ""
		result := FinalizeCharacter(sel, LedgerSnapshot{}, cat)
		assert.False(t, result.Success)
	})

	t.Run("未知出身拒绝", func(t *testing.T) {
		sel := baseSel
		sel.OriginID = "no-such-origin"
		result := FinalizeCharacter(sel, LedgerSnapshot{}, cat)
		assert.False(t, result.Success)
	})

	t.Run("特质超预算拒绝", func(t *testing.T) {
		sel := baseSel
		sel.OriginID = "fallen-noble" // 预算3
		sel.TraitIDs = []string{"silver-tongue", "iron-will"}
		result := FinalizeCharacter(sel, LedgerSnapshot{}, cat)
		assert.False(t, result.Success)
	})

	t.Run("起始属性按能力加成缩放", func(t *testing.T) {
		sel := baseSel
		sel.PurchasedPowerIDs = []string{"crown-of-ash"} // legendary，加成1.5
		result := FinalizeCharacter(sel, LedgerSnapshot{Initialized: true, SoulcoinPool: 30}, cat)
		require.True(t, result.Success)

		ch := result.Character
		assert.Equal(t, 8, ch.Power)      // round(5×1.5)
		assert.Equal(t, 5, ch.Control)    // round(3×1.5)
		assert.Equal(t, 3, ch.Influence)  // round(2×1.5)
		assert.Equal(t, 6, ch.Corruption) // round(4×1.5)
		assert.Equal(t, 9, ch.Empathy)    // round(6×1.5)
		// 财富固定，不受加成影响
		assert.Equal(t, 1000, ch.Wealth)
		assert.Equal(t, 30, ch.Soulcoins)
		assert.Equal(t, 28, ch.Age)
		assert.NotEmpty(t, ch.ID)
	})

	t.Run("生命值缩放后按100封顶", func(t *testing.T) {
		sel := baseSel
		sel.PurchasedPowerIDs = []string{"crown-of-ash"}
		result := FinalizeCharacter(sel, LedgerSnapshot{}, cat)
		require.True(t, result.Success)
		// round(80×1.5) = 120 -> 100
		assert.Equal(t, HealthCap, result.Character.Health)
	})

	t.Run("首个角色发放魂币津贴", func(t *testing.T) {
		result := FinalizeCharacter(baseSel, LedgerSnapshot{Initialized: false}, cat)
		require.True(t, result.Success)
		assert.Equal(t, 50, result.Character.Soulcoins)
	})

	t.Run("后续角色使用共享魂币池", func(t *testing.T) {
		result := FinalizeCharacter(baseSel, LedgerSnapshot{Initialized: true, SoulcoinPool: 7}, cat)
		require.True(t, result.Success)
		assert.Equal(t, 7, result.Character.Soulcoins)
	})

	t.Run("账本中的神话能力跨角色保留", func(t *testing.T) {
		sel := baseSel
		sel.PurchasedPowerIDs = []string{"ember-touch"}
		ledger := LedgerSnapshot{
			Initialized:    true,
			MythicalPowers: []string{"leviathan-pact", "ember-touch"},
		}
		result := FinalizeCharacter(sel, ledger, cat)
		require.True(t, result.Success)
		// 去重合并
		assert.ElementsMatch(t, []string{"ember-touch", "leviathan-pact"}, result.Character.Powers)
	})

	t.Run("没有任何能力时自动补发普通能力", func(t *testing.T) {
		result := FinalizeCharacter(baseSel, LedgerSnapshot{}, cat)
		require.True(t, result.Success)
		// 测试目录里有两个common
		assert.ElementsMatch(t, []string{"ash-veil", "ember-touch"}, result.Character.Powers)
	})

	t.Run("默认年龄与装备上限", func(t *testing.T) {
		sel := baseSel
		sel.Age = 0
		sel.PurchasedPowerIDs = []string{"ember-touch", "ash-veil", "shadow-step", "soul-brand", "crown-of-ash", "leviathan-pact"}
		result := FinalizeCharacter(sel, LedgerSnapshot{Initialized: true}, cat)
		require.True(t, result.Success)
		assert.Equal(t, 21, result.Character.Age)
		assert.Len(t, result.Character.EquippedPowers, MaxEquipped)
		assert.Len(t, result.Character.Powers, 6)
	})
}
