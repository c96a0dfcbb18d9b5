package game

import (
	"fmt"

	"github.com/wfunc/hell-game/internal/catalog"
)

// 占领数值，设计值照抄内容定义
const (
	claimPowerBase       = 20
	claimPowerPerDanger  = 8
	tributeBase          = 50
	tributePerDanger     = 15
	claimInfluenceGain   = 3
	claimCorruptionGain  = 3
	claimPowerCost       = 5
	claimPowerFloor      = 1 // 占领消耗力量但绝不降到1以下
)

// 难度标签，按危险等级1..10索引
var difficultyLabels = []string{
	"Trivial",
	"Easy",
	"Contested",
	"Risky",
	"Dangerous",
	"Severe",
	"Brutal",
	"Lethal",
	"Suicidal",
	"Apocalyptic",
}

// ClaimPowerRequirement 占领所需力量
func ClaimPowerRequirement(dangerLevel int) int {
	return claimPowerBase + dangerLevel*claimPowerPerDanger
}

// difficultyLabel 危险等级对应的难度标签
func difficultyLabel(dangerLevel int) string {
	idx := dangerLevel - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(difficultyLabels)-1 {
		idx = len(difficultyLabels) - 1
	}
	return difficultyLabels[idx]
}

// CanClaim 占领可行性检查
// 归属判定按角色稳定ID比较，不用名字
func CanClaim(state *GameState, districtID string, cat *catalog.Catalog) ClaimCheck {
	if t, ok := state.Territory[districtID]; ok && t.OwnerID == state.Character.ID {
		return ClaimCheck{Can: false, Reason: "该城区已在你的掌控之下"}
	}

	d, ok := cat.District(districtID)
	if !ok {
		return ClaimCheck{Can: false, Reason: "未知的城区"}
	}

	required := ClaimPowerRequirement(d.DangerLevel)
	if state.Character.Power < required {
		return ClaimCheck{
			Can:           false,
			Reason:        fmt.Sprintf("力量不足，占领需要 %d 点力量", required),
			RequiredPower: required,
		}
	}

	return ClaimCheck{
		Can:             true,
		DifficultyLabel: difficultyLabel(d.DangerLevel),
		RequiredPower:   required,
	}
}

// Claim 执行占领，返回部分状态由调用方合并
// 纯函数：不直接修改传入的GameState
func Claim(state *GameState, districtID string, cat *catalog.Catalog) ClaimResult {
	check := CanClaim(state, districtID, cat)
	if !check.Can {
		return ClaimResult{Success: false, Reason: check.Reason}
	}

	d, _ := cat.District(districtID)

	powerDelta := -claimPowerCost
	if state.Character.Power+powerDelta < claimPowerFloor {
		powerDelta = claimPowerFloor - state.Character.Power
	}

	return ClaimResult{
		Success: true,
		Territory: Territory{
			DistrictID:        districtID,
			OwnerID:           state.Character.ID,
			TributePerTurn:    tributeBase + d.DangerLevel*tributePerDanger,
			DefenseDifficulty: d.DangerLevel,
			ClaimedTurn:       state.Turn,
		},
		Changes: StatChanges{
			Influence:  claimInfluenceGain,
			Corruption: claimCorruptionGain,
			Power:      powerDelta,
		},
	}
}

// ApplyClaim 将占领结果合并进快照
func ApplyClaim(state *GameState, result ClaimResult) {
	if !result.Success {
		return
	}
	state.Territory[result.Territory.DistrictID] = result.Territory
	state.Character = ApplyOutcome(state.Character, result.Changes)
}

// TributeIncome 计算全部领地的每回合贡金之和
// 仅计算数值，按回合推进结算由调用方负责
func TributeIncome(state *GameState) int {
	total := 0
	for _, t := range state.Territory {
		if t.OwnerID == state.Character.ID {
			total += t.TributePerTurn
		}
	}
	return total
}
