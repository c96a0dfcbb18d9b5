package game

import (
	"fmt"

	"github.com/wfunc/hell-game/internal/catalog"
)

// 稀有度加成表
var rarityBonus = map[catalog.Rarity]float64{
	catalog.RarityCommon:    0,
	catalog.RarityUncommon:  0.10,
	catalog.RarityRare:      0.20,
	catalog.RarityEpic:      0.35,
	catalog.RarityLegendary: 0.50,
	catalog.RarityMythical:  0.75,
}

// MaxPowerBonus 平均加成的上限
const MaxPowerBonus = 0.75

// PowerBonus 计算能力加成倍率 ∈ [1.0, 1.75]
// 倍率 = 1 + min(0.75, 加成之和/能力数)，无能力时为1.0
// 未知能力ID贡献0加成但计入数量
func PowerBonus(powerIDs []string, cat *catalog.Catalog) float64 {
	if len(powerIDs) == 0 {
		return 1.0
	}
	total := 0.0
	for _, id := range powerIDs {
		if p, ok := cat.Power(id); ok {
			total += rarityBonus[p.Rarity]
		}
	}
	avg := total / float64(len(powerIDs))
	if avg > MaxPowerBonus {
		avg = MaxPowerBonus
	}
	return 1 + avg
}

// Currency 结算货币
type Currency string

const (
	CurrencySoulcoins Currency = "soulcoins"
	CurrencyWealth    Currency = "wealth"
	CurrencyShards    Currency = "mythical_shards"
)

// ShopConfig 商店定价配置
// 内容中同时存在魂币计价与财富计价两套商店，以及神话碎片3/10两种定价，
// 均按配置处理，不在语义上裁决哪套为准
type ShopConfig struct {
	Currency          Currency               `mapstructure:"currency"`
	Prices            map[catalog.Rarity]int `mapstructure:"prices"`
	MythicalShardCost int                    `mapstructure:"mythical_shard_cost"` // 3 或 10
}

// DefaultShopConfig 魂币计价的默认商店
func DefaultShopConfig() ShopConfig {
	return ShopConfig{
		Currency: CurrencySoulcoins,
		Prices: map[catalog.Rarity]int{
			catalog.RarityCommon:    0,
			catalog.RarityUncommon:  10,
			catalog.RarityRare:      25,
			catalog.RarityEpic:      50,
			catalog.RarityLegendary: 100,
		},
		MythicalShardCost: 3,
	}
}

// PurchasePower 购买能力
// 失败时不产生任何变更；神话稀有度使用神话碎片单独结算
// 经济引擎自身的交易不受1000全局夹取约束
func PurchasePower(ch *Character, powerID string, shop ShopConfig, cat *catalog.Catalog) PurchaseResult {
	if ch.OwnsPower(powerID) {
		return PurchaseResult{Success: false, Reason: "已拥有该能力"}
	}

	p, ok := cat.Power(powerID)
	if !ok {
		return PurchaseResult{Success: false, Reason: "未知的能力"}
	}

	if p.Rarity == catalog.RarityMythical {
		cost := shop.MythicalShardCost
		if ch.MythicalShards < cost {
			return PurchaseResult{
				Success: false,
				Reason:  fmt.Sprintf("神话碎片不足，需要 %d 枚", cost),
				Price:   cost,
			}
		}
		ch.MythicalShards -= cost
		ch.Powers = append(ch.Powers, powerID)
		return PurchaseResult{Success: true, Price: cost}
	}

	price := shop.Prices[p.Rarity]
	balance := ch.Soulcoins
	if shop.Currency == CurrencyWealth {
		balance = ch.Wealth
	}
	if balance < price {
		return PurchaseResult{
			Success: false,
			Reason:  fmt.Sprintf("余额不足，需要 %d", price),
			Price:   price,
		}
	}

	if price > 0 {
		if shop.Currency == CurrencyWealth {
			ch.Wealth -= price
		} else {
			ch.Soulcoins -= price
		}
	}
	ch.Powers = append(ch.Powers, powerID)
	return PurchaseResult{Success: true, Price: price}
}

// EquipPower 装备能力（最多5个，必须已拥有）
func EquipPower(ch *Character, powerID string) PurchaseResult {
	if !ch.OwnsPower(powerID) {
		return PurchaseResult{Success: false, Reason: "未拥有该能力"}
	}
	for _, id := range ch.EquippedPowers {
		if id == powerID {
			return PurchaseResult{Success: false, Reason: "该能力已装备"}
		}
	}
	if len(ch.EquippedPowers) >= MaxEquipped {
		return PurchaseResult{Success: false, Reason: fmt.Sprintf("最多装备 %d 个能力", MaxEquipped)}
	}
	ch.EquippedPowers = append(ch.EquippedPowers, powerID)
	return PurchaseResult{Success: true}
}
