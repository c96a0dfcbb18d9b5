package game

import (
	"fmt"
	"math"

	"github.com/wfunc/hell-game/internal/catalog"
	"go.uber.org/zap"
)

// BattleState 战斗状态枚举
type BattleState string

const (
	BattleActive        BattleState = "active"         // 进行中
	BattlePlayerVictory BattleState = "player_victory" // 玩家胜利（终态）
	BattlePlayerDefeat  BattleState = "player_defeat"  // 玩家失败（终态）
)

// BattleMove 玩家招式
type BattleMove string

const (
	MoveBasicAttack BattleMove = "basic"
	MovePowerAttack BattleMove = "power"
	MoveUltimate    BattleMove = "ultimate"
)

// 战斗资源与伤害数值，设计值照抄内容定义
const (
	CursedEnergyMax   = 100
	UltimateGaugeMax  = 700
	cursedEnergyGain  = 15  // 每次出手获得
	ultimateGaugeGain = 100 // 每次交锋获得
	powerAttackCostX  = 3   // 能量消耗 = basePower × 3
	ultimateMultiplier = 2.5
	basicFallbackDamage = 5   // 无可用能力时的兜底伤害
	opponentDamageFactor = 0.8
)

// Opponent 战斗对手快照
type Opponent struct {
	Name      string `json:"name"`
	BasePower int    `json:"base_power"`
	Health    int    `json:"health"`
}

// NewOpponentFromNPC 从NPC定义构建对手
func NewOpponentFromNPC(npc *catalog.NPC) Opponent {
	return Opponent{
		Name:      npc.Name,
		BasePower: npc.BasePower,
		Health:    50 + npc.BasePower*2,
	}
}

// BattlePayout 战斗结算
// PowerReward是玩家自己basePower最高的已装备能力，作为象征性战利品，
// 不由本核心写入背包，背包变更由调用方负责
type BattlePayout struct {
	Victory     bool        `json:"victory"`
	Changes     StatChanges `json:"changes"`
	PowerReward string      `json:"power_reward,omitempty"`
}

// BattleMoveResult 单次交锋结果
type BattleMoveResult struct {
	Accepted       bool          `json:"accepted"`
	Reason         string        `json:"reason,omitempty"`
	PlayerDamage   int           `json:"player_damage"`   // 玩家打出的伤害
	OpponentDamage int           `json:"opponent_damage"` // 对手反击伤害
	State          BattleState   `json:"state"`
	Payout         *BattlePayout `json:"payout,omitempty"`
	Log            []string      `json:"log"` // 本次交锋新增的叙事行
}

// BattleSession 战斗会话
// 不跨进程持久化，每次开战由角色与对手重建
// 同一会话不支持并发操作，意图由上层串行化
type BattleSession struct {
	ID            string      `json:"id"`
	State         BattleState `json:"state"`
	PlayerHealth  int         `json:"player_health"`
	OpponentHealth int        `json:"opponent_health"`
	CursedEnergy  int         `json:"cursed_energy"`  // [0,100]
	UltimateGauge int         `json:"ultimate_gauge"` // [0,700]
	TurnCounter   int         `json:"turn_counter"`
	BattleLog     []string    `json:"battle_log"` // 追加式叙事日志

	playerName   string
	activePowers []*catalog.Power
	opponent     Opponent
	rng          RandomGenerator
	logger       *zap.Logger
}

// NewBattleSession 创建战斗会话
func NewBattleSession(id string, ch *Character, activePowers []*catalog.Power, opp Opponent, rng RandomGenerator, logger *zap.Logger) *BattleSession {
	b := &BattleSession{
		ID:             id,
		State:          BattleActive,
		PlayerHealth:   ch.Health,
		OpponentHealth: opp.Health,
		playerName:     ch.Name(),
		activePowers:   activePowers,
		opponent:       opp,
		rng:            rng,
		logger:         logger,
	}
	b.appendLog(fmt.Sprintf("%s faces %s in the streets of Hell.", b.playerName, opp.Name))
	logger.Info("战斗开始",
		zap.String("battle_id", id),
		zap.String("opponent", opp.Name),
		zap.Int("player_health", b.PlayerHealth),
		zap.Int("opponent_health", b.OpponentHealth))
	return b
}

// Opponent 返回对手快照
func (b *BattleSession) Opponent() Opponent {
	return b.opponent
}

// bestActivePower 已装备能力中basePower最高者
func (b *BattleSession) bestActivePower() *catalog.Power {
	var best *catalog.Power
	for _, p := range b.activePowers {
		if best == nil || p.BasePower > best.BasePower {
			best = p
		}
	}
	return best
}

// appendLog 追加叙事行
func (b *BattleSession) appendLog(line string) {
	b.BattleLog = append(b.BattleLog, line)
}

// PlayerMove 执行玩家招式并结算整次交锋
// 对手死亡先于反击判定：同一交锋双方同时归零记为玩家胜利
func (b *BattleSession) PlayerMove(move BattleMove) BattleMoveResult {
	if b.State != BattleActive {
		return BattleMoveResult{
			Accepted: false,
			Reason:   "战斗已结束",
			State:    b.State,
		}
	}

	logStart := len(b.BattleLog)

	var damage int
	switch move {
	case MoveBasicAttack:
		damage = b.basicAttack()
	case MovePowerAttack:
		var result *BattleMoveResult
		damage, result = b.powerAttack()
		if result != nil {
			return *result
		}
	case MoveUltimate:
		var result *BattleMoveResult
		damage, result = b.ultimate()
		if result != nil {
			return *result
		}
	default:
		return BattleMoveResult{Accepted: false, Reason: "未知的招式", State: b.State}
	}

	b.OpponentHealth -= damage
	if b.OpponentHealth < 0 {
		b.OpponentHealth = 0
	}

	res := BattleMoveResult{Accepted: true, PlayerDamage: damage, State: b.State}

	// 先判对手死亡，后执行反击
	if b.OpponentHealth <= 0 {
		b.finish(true, &res)
		res.Log = b.BattleLog[logStart:]
		return res
	}

	counter := b.opponentCounter()
	res.OpponentDamage = counter
	b.PlayerHealth -= counter
	if b.PlayerHealth < 0 {
		b.PlayerHealth = 0
	}
	b.TurnCounter++

	if b.PlayerHealth <= 0 {
		b.finish(false, &res)
	}

	res.State = b.State
	res.Log = b.BattleLog[logStart:]
	return res
}

// basicAttack 普通攻击：无消耗，积攒两种量表
func (b *BattleSession) basicAttack() int {
	base := basicFallbackDamage
	if p := b.bestActivePower(); p != nil {
		base = p.BasePower
	}
	damage := base + b.rng.NextInt(0, 4)

	b.CursedEnergy = clampStat(b.CursedEnergy+cursedEnergyGain, 0, CursedEnergyMax)
	b.UltimateGauge = clampStat(b.UltimateGauge+ultimateGaugeGain, 0, UltimateGaugeMax)

	b.appendLog(fmt.Sprintf("%s strikes %s for %d damage.", b.playerName, b.opponent.Name, damage))
	return damage
}

// powerAttack 能力攻击：消耗诅咒能量 basePower×3
func (b *BattleSession) powerAttack() (int, *BattleMoveResult) {
	p := b.bestActivePower()
	if p == nil {
		return 0, &BattleMoveResult{Accepted: false, Reason: "没有可用的能力", State: b.State}
	}

	cost := p.BasePower * powerAttackCostX
	if b.CursedEnergy < cost {
		return 0, &BattleMoveResult{
			Accepted: false,
			Reason:   fmt.Sprintf("诅咒能量不足，需要 %d 点", cost),
			State:    b.State,
		}
	}

	b.CursedEnergy = clampStat(b.CursedEnergy-cost+cursedEnergyGain, 0, CursedEnergyMax)
	b.UltimateGauge = clampStat(b.UltimateGauge+ultimateGaugeGain, 0, UltimateGaugeMax)

	damage := p.BasePower + b.rng.NextInt(0, 7)
	b.appendLog(fmt.Sprintf("%s unleashes %s on %s for %d damage!", b.playerName, p.Name, b.opponent.Name, damage))
	return damage, nil
}

// ultimate 终极技：量表满700才可用，使用后无条件清零
func (b *BattleSession) ultimate() (int, *BattleMoveResult) {
	if b.UltimateGauge < UltimateGaugeMax {
		return 0, &BattleMoveResult{
			Accepted: false,
			Reason:   fmt.Sprintf("终极量表未满，需要 %d 点", UltimateGaugeMax),
			State:    b.State,
		}
	}

	b.UltimateGauge = 0

	base := basicFallbackDamage
	name := "raw fury"
	if p := b.bestActivePower(); p != nil {
		base = p.BasePower
		name = p.Name
	}
	damage := int(math.Round(float64(base)*ultimateMultiplier)) + b.rng.NextInt(0, 10)
	b.appendLog(fmt.Sprintf("%s channels everything into an ultimate %s, dealing %d damage!", b.playerName, name, damage))
	return damage, nil
}

// opponentCounter 对手反击
func (b *BattleSession) opponentCounter() int {
	damage := int(math.Round(float64(b.opponent.BasePower)*opponentDamageFactor)) + b.rng.NextInt(0, 5)
	b.appendLog(fmt.Sprintf("%s counters, hitting %s for %d damage.", b.opponent.Name, b.playerName, damage))
	return damage
}

// finish 进入终态并产出结算
func (b *BattleSession) finish(victory bool, res *BattleMoveResult) {
	if victory {
		b.State = BattlePlayerVictory
		payout := &BattlePayout{
			Victory: true,
			Changes: StatChanges{Power: 3, Influence: 2, Wealth: 100},
		}
		if p := b.bestActivePower(); p != nil {
			payout.PowerReward = p.ID
		}
		res.Payout = payout
		b.appendLog(fmt.Sprintf("%s stands victorious over %s.", b.playerName, b.opponent.Name))
	} else {
		b.State = BattlePlayerDefeat
		res.Payout = &BattlePayout{
			Victory: false,
			Changes: StatChanges{Power: -2, Wealth: -50},
		}
		b.appendLog(fmt.Sprintf("%s collapses. %s claims the streets tonight.", b.playerName, b.opponent.Name))
	}

	res.State = b.State
	b.logger.Info("战斗结束",
		zap.String("battle_id", b.ID),
		zap.String("state", string(b.State)),
		zap.Int("turns", b.TurnCounter))
}
