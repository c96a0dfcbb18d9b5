package game

import (
	"math"

	"github.com/google/uuid"
	"github.com/wfunc/hell-game/internal/catalog"
)

// 创角常量
const (
	startingWealth       = 1000 // 固定初始财富，与出身和加成无关
	firstSoulcoinStipend = 50   // 首个角色的魂币津贴
	autoGrantPowerLimit  = 3    // 未购买能力时自动补发的普通能力上限
)

// LedgerSnapshot 跨存档共享账本的只读快照
// 魂币池横跨所有存档共享：花掉的魂币永久减少后续角色的可用池
// 神话能力与已解锁出身跨角色累积
type LedgerSnapshot struct {
	Initialized     bool     `json:"initialized"` // 是否已有任何角色创建记录
	SoulcoinPool    int      `json:"soulcoin_pool"`
	MythicalPowers  []string `json:"mythical_powers"`
	UnlockedOrigins []string `json:"unlocked_origins"`
}

// CreationSelections 创角流程终点收集的选择
type CreationSelections struct {
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	Appearance        string   `json:"appearance"`
	Age               int      `json:"age"`
	OriginID          string   `json:"origin_id"`
	TraitIDs          []string `json:"trait_ids"`
	PurchasedPowerIDs []string `json:"purchased_power_ids"`
	StartLocation     string   `json:"start_location"`
}

// CreationResult 创角结果
type CreationResult struct {
	Success   bool      `json:"success"`
	Reason    string    `json:"reason,omitempty"`
	Character Character `json:"character"`
}

// TraitBudget 计算特质选择的净消耗与预算
// 负消耗的特质（缺陷）返还点数
func TraitBudget(origin *catalog.Origin, traitIDs []string, cat *catalog.Catalog) (spent, budget int) {
	for _, id := range traitIDs {
		if t, ok := cat.Trait(id); ok {
			spent += t.Cost
		}
	}
	return spent, origin.TraitPoints
}

// FinalizeCharacter 创角流程终点的确定性结算
// 起始属性 = round(出身基线 × 能力加成)，财富固定1000
// 共享账本以快照注入，保持本函数纯粹可测
func FinalizeCharacter(sel CreationSelections, ledger LedgerSnapshot, cat *catalog.Catalog) CreationResult {
	if sel.OriginID == "" {
		return CreationResult{Success: false, Reason: "必须选择出身"}
	}
	origin, ok := cat.Origin(sel.OriginID)
	if !ok {
		return CreationResult{Success: false, Reason: "未知的出身"}
	}

	// 特质预算校验应在选择阶段完成，此处兜底复查
	if spent, budget := TraitBudget(origin, sel.TraitIDs, cat); spent > budget {
		return CreationResult{Success: false, Reason: "特质点数超出预算"}
	}

	// 能力归属：本次购买 + 账本里跨角色保留的神话能力
	owned := make([]string, 0, len(sel.PurchasedPowerIDs)+len(ledger.MythicalPowers))
	owned = append(owned, sel.PurchasedPowerIDs...)
	for _, id := range ledger.MythicalPowers {
		duplicate := false
		for _, existing := range owned {
			if existing == id {
				duplicate = true
				break
			}
		}
		if !duplicate {
			owned = append(owned, id)
		}
	}

	// 一个能力都没有时自动补发普通能力
	if len(owned) == 0 {
		for _, p := range cat.CommonPowers(autoGrantPowerLimit) {
			owned = append(owned, p.ID)
		}
	}

	bonus := PowerBonus(owned, cat)
	scale := func(base int) int {
		return int(math.Round(float64(base) * bonus))
	}

	soulcoins := ledger.SoulcoinPool
	if !ledger.Initialized {
		soulcoins = firstSoulcoinStipend
	}

	equipped := owned
	if len(equipped) > MaxEquipped {
		equipped = equipped[:MaxEquipped]
	}

	age := sel.Age
	if age <= 0 {
		age = 21
	}

	ch := Character{
		ID:              uuid.NewString(),
		FirstName:       sel.FirstName,
		LastName:        sel.LastName,
		Appearance:      sel.Appearance,
		Age:             age,
		OriginID:        origin.ID,
		Power:           scale(origin.StartingStats.Power),
		Control:         scale(origin.StartingStats.Control),
		Influence:       scale(origin.StartingStats.Influence),
		Corruption:      scale(origin.StartingStats.Corruption),
		Empathy:         scale(origin.StartingStats.Empathy),
		Health:          clampStat(scale(origin.StartingStats.Health), 0, HealthCap),
		Wealth:          startingWealth,
		Soulcoins:       soulcoins,
		CurrentLocation: sel.StartLocation,
		Traits:          append([]string(nil), sel.TraitIDs...),
		Powers:          owned,
		EquippedPowers:  append([]string(nil), equipped...),
	}

	return CreationResult{Success: true, Character: ch}
}
