package game

// 关系阈值
const (
	RivalThreshold      = -30 // 好感低于此值视为宿敌
	RomanceThreshold    = 75  // 好感达到此值置位恋人标记
	RomanceAttemptMin   = 40  // 发起浪漫行动的最低好感
)

// RelationshipStatus 关系状态标签（好感的纯函数，用于展示与门控）
type RelationshipStatus string

const (
	StatusLover        RelationshipStatus = "Lover"
	StatusCloseFriend  RelationshipStatus = "Close Friend"
	StatusFriend       RelationshipStatus = "Friend"
	StatusAcquaintance RelationshipStatus = "Acquaintance"
	StatusDisliked     RelationshipStatus = "Disliked"
	StatusHated        RelationshipStatus = "Hated"
)

// UpdateRelationship 应用好感变化并返回新关系
// 没有失败路径，无历史关系按好感0处理
// IsRomanced一旦为真永不回退，IsRival每次按新好感重算
func UpdateRelationship(current *Relationship, npcID string, delta int, affinityCeiling int) Relationship {
	if affinityCeiling == 0 || affinityCeiling > AffinityMax {
		affinityCeiling = AffinityMax
	}

	rel := Relationship{NPCID: npcID}
	if current != nil {
		rel = *current
		rel.NPCID = npcID
	}

	affinity := rel.Affinity + delta
	if affinity < AffinityMin {
		affinity = AffinityMin
	}
	if affinity > affinityCeiling {
		affinity = affinityCeiling
	}

	rel.Affinity = affinity
	rel.IsRival = affinity < RivalThreshold
	rel.IsRomanced = rel.IsRomanced || affinity >= RomanceThreshold
	return rel
}

// StatusForAffinity 好感对应的状态标签
func StatusForAffinity(affinity int) RelationshipStatus {
	switch {
	case affinity >= 75:
		return StatusLover
	case affinity >= 50:
		return StatusCloseFriend
	case affinity >= 25:
		return StatusFriend
	case affinity >= 0:
		return StatusAcquaintance
	case affinity >= -30:
		return StatusDisliked
	default:
		return StatusHated
	}
}

// CanAttemptRomance 判断是否满足浪漫行动前置条件
func CanAttemptRomance(rel *Relationship) bool {
	if rel == nil {
		return false
	}
	return rel.Affinity >= RomanceAttemptMin
}
