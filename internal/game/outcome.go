package game

// clampStat 通用属性夹取
func clampStat(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ApplyOutcome 对角色应用属性变更记录
// 静态事件选项、AI生成事件、城区活动与自定义行动的结果全部汇聚到此处
// 每项按各自上限夹取，绝不报错；经济引擎自身的交易不经过本函数
func ApplyOutcome(ch Character, changes StatChanges) Character {
	if changes.Power != 0 {
		ch.Power = clampStat(ch.Power+changes.Power, 0, StatMutateCap)
	}
	if changes.Control != 0 {
		ch.Control = clampStat(ch.Control+changes.Control, 0, StatMutateCap)
	}
	if changes.Influence != 0 {
		ch.Influence = clampStat(ch.Influence+changes.Influence, 0, StatMutateCap)
	}
	if changes.Corruption != 0 {
		ch.Corruption = clampStat(ch.Corruption+changes.Corruption, 0, StatMutateCap)
	}
	if changes.Empathy != 0 {
		ch.Empathy = clampStat(ch.Empathy+changes.Empathy, 0, StatMutateCap)
	}
	if changes.Health != 0 {
		ch.Health = clampStat(ch.Health+changes.Health, 0, HealthCap)
	}
	if changes.Wealth != 0 {
		ch.Wealth = clampStat(ch.Wealth+changes.Wealth, 0, StatMutateCap)
	}
	if changes.Soulcoins != 0 {
		ch.Soulcoins = clampStat(ch.Soulcoins+changes.Soulcoins, 0, StatMutateCap)
	}
	if changes.MythicalShards != 0 {
		ch.MythicalShards = clampStat(ch.MythicalShards+changes.MythicalShards, 0, StatMutateCap)
	}
	return ch
}

// ParseStatChanges 在边界处把叙事内容的属性变更表解析为封闭记录
// 返回被忽略的未知键，供调用方记录日志
func ParseStatChanges(raw map[string]int) (StatChanges, []string) {
	var (
		changes StatChanges
		ignored []string
	)
	for key, delta := range raw {
		switch key {
		case "power":
			changes.Power = delta
		case "control":
			changes.Control = delta
		case "influence":
			changes.Influence = delta
		case "corruption":
			changes.Corruption = delta
		case "empathy":
			changes.Empathy = delta
		case "health":
			changes.Health = delta
		case "wealth":
			changes.Wealth = delta
		case "soulcoins":
			changes.Soulcoins = delta
		case "mythicalShards", "mythical_shards":
			changes.MythicalShards = delta
		default:
			ignored = append(ignored, key)
		}
	}
	return changes, ignored
}
