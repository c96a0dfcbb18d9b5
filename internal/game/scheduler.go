package game

import (
	"fmt"
	"math"
)

// 动作ID
const (
	ActionTrainPower = "train-power"
	ActionWork       = "work"
	ActionPerform    = "perform"
	ActionScheme     = "scheme"
	ActionTerritory  = "territory"
	ActionSocialize  = "socialize"
	ActionRest       = "rest"
)

// ActionDef 动作定义
type ActionDef struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Cooldown   int         `json:"cooldown"`    // 冷却回合数
	HealthCost int         `json:"health_cost"` // 2..10，rest除外
	Base       StatChanges `json:"base"`        // 基础收益，结算前按能力加成缩放
}

// restHealAmount rest固定回复量，受生命上限封顶
const restHealAmount = 30

// 动作表，冷却与消耗为设计值
var actionDefs = map[string]ActionDef{
	ActionTrainPower: {
		ID: ActionTrainPower, Name: "修炼力量", Cooldown: 3, HealthCost: 5,
		// 收益由递减曲线决定，不走Base
	},
	ActionWork: {
		ID: ActionWork, Name: "做工", Cooldown: 10, HealthCost: 10,
		Base: StatChanges{Wealth: 40},
	},
	ActionPerform: {
		ID: ActionPerform, Name: "卖艺", Cooldown: 8, HealthCost: 4,
		Base: StatChanges{Influence: 3, Wealth: 15},
	},
	ActionScheme: {
		ID: ActionScheme, Name: "密谋", Cooldown: 15, HealthCost: 6,
		Base: StatChanges{Corruption: 4, Influence: 2},
	},
	ActionTerritory: {
		ID: ActionTerritory, Name: "巡视领地", Cooldown: 5, HealthCost: 3,
		Base: StatChanges{Influence: 1},
	},
	ActionSocialize: {
		ID: ActionSocialize, Name: "社交", Cooldown: 2, HealthCost: 2,
		Base: StatChanges{Empathy: 2},
	},
	ActionRest: {
		ID: ActionRest, Name: "休息", Cooldown: 1,
		// 不消耗生命，回复restHealAmount
	},
}

// ActionDefs 返回动作表副本
func ActionDefs() map[string]ActionDef {
	defs := make(map[string]ActionDef, len(actionDefs))
	for id, def := range actionDefs {
		defs[id] = def
	}
	return defs
}

// IsOnCooldown 判断动作是否冷却中
// 条目缺失视为可用；turn >= 记录值后条目逻辑过期，无需清理
func IsOnCooldown(state *GameState, actionID string) bool {
	availableAt, ok := state.ActionCooldowns[actionID]
	return ok && availableAt > state.Turn
}

// TrainingGain 修炼力量的递减收益
// 使用次数0-2收益2，3-4收益1，≥5收益0.5，乘能力加成后保留一位小数
func TrainingGain(useCount int, powerBonus float64) float64 {
	var base float64
	switch {
	case useCount < 3:
		base = 2
	case useCount < 5:
		base = 1
	default:
		base = 0.5
	}
	return math.Round(base*powerBonus*10) / 10
}

// scaleGains 按能力加成缩放正向收益，消耗类负向变更不缩放
func scaleGains(changes StatChanges, bonus float64) StatChanges {
	scale := func(v int) int {
		if v <= 0 {
			return v
		}
		return int(math.Round(float64(v) * bonus))
	}
	changes.Power = scale(changes.Power)
	changes.Control = scale(changes.Control)
	changes.Influence = scale(changes.Influence)
	changes.Corruption = scale(changes.Corruption)
	changes.Empathy = scale(changes.Empathy)
	changes.Wealth = scale(changes.Wealth)
	changes.Soulcoins = scale(changes.Soulcoins)
	return changes
}

// InvokeAction 执行动作
// 冷却中的调用是严格空操作：不消耗动作、不增加使用计数、不改任何属性，
// 仅返回"第N回合可用"的信号
func InvokeAction(state *GameState, actionID string, powerBonus float64) ActionResult {
	def, ok := actionDefs[actionID]
	if !ok {
		return ActionResult{Success: false, Reason: "未知的行动"}
	}

	if IsOnCooldown(state, actionID) {
		availableAt := state.ActionCooldowns[actionID]
		return ActionResult{
			Success:     false,
			Reason:      fmt.Sprintf("行动冷却中，第 %d 回合后可用", availableAt),
			AvailableAt: availableAt,
		}
	}

	var (
		changes StatChanges
		gain    float64
	)

	switch actionID {
	case ActionTrainPower:
		gain = TrainingGain(state.ActionUseCounts[actionID], powerBonus)
		changes.Power = int(math.Round(gain))
	case ActionRest:
		changes.Health = restHealAmount
	default:
		changes = scaleGains(def.Base, powerBonus)
	}

	if def.HealthCost > 0 {
		changes.Health -= def.HealthCost
	}

	state.Character = ApplyOutcome(state.Character, changes)
	state.ActionCooldowns[actionID] = state.Turn + def.Cooldown
	state.ActionUseCounts[actionID]++

	return ActionResult{
		Success: true,
		Gain:    gain,
		Changes: changes,
	}
}
