package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/hell-game/internal/repository"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB, uint) {
	t.Helper()
	db := repository.TestDB(t)
	player := repository.SeedTestPlayer(t, db, "tester")

	svc := NewService(&ServiceConfig{
		DB:      db,
		Catalog: testCatalog(),
		RNG:     minRNG{},
		Logger:  testLogger(),
	})
	return svc, db, player.ID
}

func validSelections() CreationSelections {
	return CreationSelections{
		FirstName:     "Morgan",
		LastName:      "Vael",
		Age:           28,
		OriginID:      "gutter-born",
		StartLocation: "ashen-market",
	}
}

func TestServiceCreateAndLoad(t *testing.T) {
	svc, _, playerID := newTestService(t)
	ctx := context.Background()

	result, err := svc.CreateGame(ctx, playerID, validSelections())
	require.NoError(t, err)
	require.True(t, result.Creation.Success)
	assert.Equal(t, 1, result.Slot)
	assert.True(t, result.Save.Saved)
	// 首个角色发放魂币津贴
	assert.Equal(t, 50, result.State.Character.Soulcoins)

	loaded, err := svc.LoadGame(ctx, playerID, 1)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, result.State.ID, loaded.ID)
	assert.Equal(t, result.State.Character, loaded.Character)
	assert.NotNil(t, loaded.Relationships)
	assert.NotNil(t, loaded.ActionCooldowns)
}

func TestServiceLoadAbsentSlot(t *testing.T) {
	svc, _, playerID := newTestService(t)

	state, err := svc.LoadGame(context.Background(), playerID, 2)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestServiceSoulcoinPoolIsShared(t *testing.T) {
	svc, _, playerID := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateGame(ctx, playerID, validSelections())
	require.NoError(t, err)
	require.True(t, first.Creation.Success)

	// 花掉部分魂币后池随之缩小
	state := first.State
	buy, save := svc.BuyPower(ctx, playerID, first.Slot, state, "soul-brand")
	require.True(t, buy.Success)
	require.True(t, save.Saved)
	assert.Equal(t, 25, state.Character.Soulcoins)

	second, err := svc.CreateGame(ctx, playerID, validSelections())
	require.NoError(t, err)
	require.True(t, second.Creation.Success)
	assert.Equal(t, 2, second.Slot)
	// 池 = 所有存档魂币之和
	assert.Equal(t, 25, second.State.Character.Soulcoins)
}

func TestServiceMythicalPowerCarriesOver(t *testing.T) {
	svc, db, playerID := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateGame(ctx, playerID, validSelections())
	require.NoError(t, err)
	require.True(t, first.Creation.Success)

	state := first.State
	state.Character.MythicalShards = 5
	buy, _ := svc.BuyPower(ctx, playerID, first.Slot, state, "leviathan-pact")
	require.True(t, buy.Success)

	// 账本已记账
	ledger, err := repository.NewLedgerRepository(db).GetOrCreate(ctx, playerID)
	require.NoError(t, err)
	assert.Contains(t, []string(ledger.MythicalPowers), "leviathan-pact")

	// 新角色自动继承神话能力
	second, err := svc.CreateGame(ctx, playerID, validSelections())
	require.NoError(t, err)
	require.True(t, second.Creation.Success)
	assert.Contains(t, second.State.Character.Powers, "leviathan-pact")
}

func TestServicePerformAction(t *testing.T) {
	svc, _, playerID := newTestService(t)
	ctx := context.Background()
	state := testState()

	result, save := svc.PerformAction(ctx, playerID, 1, state, ActionTrainPower)
	require.True(t, result.Success)
	assert.True(t, save.Saved)

	// 冷却中的重复调用是空操作但Saved为真
	again, save := svc.PerformAction(ctx, playerID, 1, state, ActionTrainPower)
	assert.False(t, again.Success)
	assert.NotZero(t, again.AvailableAt)
	assert.True(t, save.Saved)
}

func TestServiceAdvanceTurnTribute(t *testing.T) {
	svc, _, playerID := newTestService(t)
	ctx := context.Background()

	state := testState()
	state.Character.Wealth = 990
	state.Territory["obsidian-spire"] = Territory{
		DistrictID: "obsidian-spire", OwnerID: state.Character.ID, TributePerTurn: 140,
	}

	result, save := svc.AdvanceTurn(ctx, playerID, 1, state)
	assert.Equal(t, 2, result.Turn)
	assert.Equal(t, 140, result.Tribute)
	assert.True(t, save.Saved)
	// 贡金走经济结算路径，不受1000夹取
	assert.Equal(t, 1130, state.Character.Wealth)
}

func TestServiceClaimDistrict(t *testing.T) {
	svc, _, playerID := newTestService(t)
	ctx := context.Background()

	state := testState()
	state.Character.Power = 70

	check := svc.CheckClaim(state, "obsidian-spire")
	require.True(t, check.Can)

	result, save := svc.ClaimDistrict(ctx, playerID, 1, state, "obsidian-spire")
	require.True(t, result.Success)
	assert.True(t, save.Saved)
	assert.Contains(t, state.Territory, "obsidian-spire")
	assert.Equal(t, 65, state.Character.Power)

	// 重复占领拒绝且不落盘新状态
	again, save := svc.ClaimDistrict(ctx, playerID, 1, state, "obsidian-spire")
	assert.False(t, again.Success)
	assert.True(t, save.Saved)
}

func TestServiceTravel(t *testing.T) {
	svc, _, playerID := newTestService(t)
	ctx := context.Background()
	state := testState()

	result, _ := svc.Travel(ctx, playerID, 1, state, "obsidian-spire")
	require.True(t, result.Success)
	assert.Equal(t, "obsidian-spire", state.Character.CurrentLocation)

	bad, _ := svc.Travel(ctx, playerID, 1, state, "no-such-district")
	assert.False(t, bad.Success)
	assert.Equal(t, "obsidian-spire", state.Character.CurrentLocation)
}

func TestServiceSocialAndRomance(t *testing.T) {
	svc, _, playerID := newTestService(t)
	ctx := context.Background()
	state := testState()

	t.Run("社交积累好感", func(t *testing.T) {
		result, save := svc.Socialize(ctx, playerID, 1, state, "vex")
		require.True(t, result.Success)
		assert.True(t, save.Saved)
		assert.Equal(t, 5, result.Relationship.Affinity)
		assert.Equal(t, StatusAcquaintance, result.Status)
	})

	t.Run("好感不足时浪漫被拒", func(t *testing.T) {
		result, _ := svc.Romance(ctx, playerID, 1, state, "vex")
		assert.False(t, result.Success)
	})

	t.Run("好感70加10触发恋人标记", func(t *testing.T) {
		state.Relationships["vex"] = Relationship{NPCID: "vex", Affinity: 70}
		result, _ := svc.Romance(ctx, playerID, 1, state, "vex")
		require.True(t, result.Success)
		assert.Equal(t, 80, result.Relationship.Affinity)
		assert.True(t, result.Relationship.IsRomanced)
		assert.Equal(t, StatusLover, result.Status)
	})

	t.Run("不可攻略NPC直接拒绝", func(t *testing.T) {
		state.Relationships["warden-kross"] = Relationship{NPCID: "warden-kross", Affinity: 90}
		result, _ := svc.Romance(ctx, playerID, 1, state, "warden-kross")
		assert.False(t, result.Success)
		assert.Equal(t, "对方对你毫无兴趣", result.Reason)
	})

	t.Run("未知NPC拒绝", func(t *testing.T) {
		result, _ := svc.Socialize(ctx, playerID, 1, state, "nobody")
		assert.False(t, result.Success)
	})
}

func TestServiceEventFlow(t *testing.T) {
	svc, _, playerID := newTestService(t)
	ctx := context.Background()
	state := testState()

	// minRNG恒取首个候选，生成服务未启用时回退静态事件
	event := svc.NextEvent(ctx, state)
	require.NotNil(t, event)
	assert.Equal(t, EventSourceStatic, event.Source)
	assert.Equal(t, "The Debt Collector", event.Title)

	resolution, save := svc.ResolveEvent(ctx, playerID, 1, state, event, "fight")
	require.True(t, resolution.Success)
	assert.True(t, save.Saved)
	assert.Equal(t, 32, state.Character.Power)
	assert.Equal(t, 90, state.Character.Health)
	assert.Equal(t, 11, state.Character.Corruption)
	require.Len(t, state.EventLog, 1)
	assert.Equal(t, "The Debt Collector", state.EventLog[0].Title)

	// onlyOnce事件不再出现
	next := svc.NextEvent(ctx, state)
	require.NotNil(t, next)
	assert.Equal(t, "Street Sermon", next.Title)

	// 未知选项不结算
	bad, save := svc.ResolveEvent(ctx, playerID, 1, state, next, "run-away")
	assert.False(t, bad.Success)
	assert.True(t, save.Saved)
	assert.Len(t, state.EventLog, 1)
}

func TestServiceBattleFlow(t *testing.T) {
	svc, _, playerID := newTestService(t)
	ctx := context.Background()

	state := testState()
	state.Character.Powers = []string{"soul-brand"}
	state.Character.EquippedPowers = []string{"soul-brand"}

	start := svc.StartBattle(state, "vex")
	require.True(t, start.Success)
	assert.NotEmpty(t, start.BattleID)
	require.NotNil(t, svc.Battle(state.ID))

	// 同一存档不允许并行开战
	dup := svc.StartBattle(state, "warden-kross")
	assert.False(t, dup.Success)

	var result BattleMoveResult
	var save SaveOutcome
	for {
		result, save = svc.BattleAction(ctx, playerID, 1, state, MoveBasicAttack)
		require.True(t, result.Accepted)
		if result.State != BattleActive {
			break
		}
	}

	assert.Equal(t, BattlePlayerVictory, result.State)
	assert.True(t, save.Saved)
	// 终态结算：生命同步、赏金入账、会话销毁
	assert.Equal(t, 52, state.Character.Health)
	assert.Equal(t, 33, state.Character.Power)
	assert.Equal(t, 600, state.Character.Wealth)
	assert.Nil(t, svc.Battle(state.ID))

	// 战斗结束后招式被拒
	after, save := svc.BattleAction(ctx, playerID, 1, state, MoveBasicAttack)
	assert.False(t, after.Accepted)
	assert.True(t, save.Saved)
}

func TestServiceFleeBattle(t *testing.T) {
	svc, _, playerID := newTestService(t)
	ctx := context.Background()

	state := testState()
	state.Character.EquippedPowers = []string{"soul-brand"}

	start := svc.StartBattle(state, "warden-kross")
	require.True(t, start.Success)

	result, save := svc.FleeBattle(ctx, playerID, 1, state)
	require.True(t, result.Accepted)
	assert.Equal(t, BattlePlayerDefeat, result.State)
	assert.True(t, save.Saved)
	assert.Equal(t, 28, state.Character.Power)
	assert.Equal(t, 450, state.Character.Wealth)
	assert.Nil(t, svc.Battle(state.ID))

	// 没有战斗时脱战被拒
	again, _ := svc.FleeBattle(ctx, playerID, 1, state)
	assert.False(t, again.Accepted)
}

func TestServiceUnknownBattleTargets(t *testing.T) {
	svc, _, _ := newTestService(t)
	state := testState()

	start := svc.StartBattle(state, "nobody")
	assert.False(t, start.Success)

	result, _ := svc.BattleAction(context.Background(), 1, 1, state, MoveBasicAttack)
	assert.False(t, result.Accepted)
}

func TestServiceDeleteSave(t *testing.T) {
	svc, _, playerID := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateGame(ctx, playerID, validSelections())
	require.NoError(t, err)
	require.True(t, created.Creation.Success)

	saves, err := svc.ListSaves(ctx, playerID)
	require.NoError(t, err)
	assert.Len(t, saves, 1)

	require.NoError(t, svc.DeleteSave(ctx, playerID, created.Slot))

	state, err := svc.LoadGame(ctx, playerID, created.Slot)
	require.NoError(t, err)
	assert.Nil(t, state)

	// 删除后槽位可复用
	again, err := svc.CreateGame(ctx, playerID, validSelections())
	require.NoError(t, err)
	require.True(t, again.Creation.Success)
	assert.Equal(t, created.Slot, again.Slot)
}
