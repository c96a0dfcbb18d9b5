package game

// RankTier 阶位（按MinPower升序的单调阶梯，无滞回）
type RankTier struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MinPower int    `json:"min_power"`
}

// 阶位表，设计数值照抄内容定义
var rankTiers = []RankTier{
	{ID: "nameless", Name: "Nameless Shade", MinPower: 0},
	{ID: "fledgling", Name: "Fledgling Devil", MinPower: 10},
	{ID: "enforcer", Name: "Street Enforcer", MinPower: 25},
	{ID: "baron", Name: "District Baron", MinPower: 45},
	{ID: "overlord", Name: "Circle Overlord", MinPower: 70},
	{ID: "archfiend", Name: "Arch-Fiend", MinPower: 100},
	{ID: "hell-lord", Name: "Lord of the Pit", MinPower: 150},
}

// RankTiers 返回阶位表副本
func RankTiers() []RankTier {
	tiers := make([]RankTier, len(rankTiers))
	copy(tiers, rankTiers)
	return tiers
}

// RankForPower 返回力量对应的阶位（取MinPower不超过power的最高档）
// 力量下降时阶位同步下降
func RankForPower(power int) RankTier {
	current := rankTiers[0]
	for _, tier := range rankTiers {
		if power >= tier.MinPower {
			current = tier
		}
	}
	return current
}

// rankIndex 阶位在阶梯中的下标
func rankIndex(tier RankTier) int {
	for i, t := range rankTiers {
		if t.ID == tier.ID {
			return i
		}
	}
	return 0
}

// RankProgress 阶位进度
type RankProgress struct {
	CurrentRank   RankTier  `json:"current_rank"`
	NextRank      *RankTier `json:"next_rank,omitempty"`
	PercentToNext float64   `json:"percent_to_next"`
}

// RankProgressForPower 计算当前阶位与升阶进度
// 顶阶时进度恒为100且无下一阶
func RankProgressForPower(power int) RankProgress {
	current := RankForPower(power)
	idx := rankIndex(current)

	if idx == len(rankTiers)-1 {
		return RankProgress{CurrentRank: current, PercentToNext: 100}
	}

	next := rankTiers[idx+1]
	span := next.MinPower - current.MinPower
	percent := float64(power-current.MinPower) / float64(span) * 100
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return RankProgress{CurrentRank: current, NextRank: &next, PercentToNext: percent}
}

// 宿敌名单（展示用）
var rivalNames = []string{
	"Malachar the Flayed",
	"Vex Duskbourne",
	"Seraphina Ashveil",
	"Gorrem Ninetongues",
	"Lilith Crowmark",
	"Dantalion Greve",
}

// Rival 展示用的对手条目
// 派生数据，不持久化，不作为权威游戏状态
type Rival struct {
	Name  string `json:"name"`
	Power int    `json:"power"`
	Rank  string `json:"rank"`
}

// GenerateRivals 生成展示用宿敌名单
// 数量受当前阶位下标约束，最多3个；力量在角色力量附近抖动
func GenerateRivals(ch *Character, rng RandomGenerator) []Rival {
	tier := RankForPower(ch.Power)
	count := rankIndex(tier)
	if count > 3 {
		count = 3
	}

	rivals := make([]Rival, 0, count)
	for i := 0; i < count; i++ {
		name := rivalNames[rng.NextInt(0, len(rivalNames))]
		power := ch.Power + rng.NextInt(-5, 8)
		if power < 1 {
			power = 1
		}
		rivals = append(rivals, Rival{
			Name:  name,
			Power: power,
			Rank:  RankForPower(power).Name,
		})
	}
	return rivals
}
