package models

// SaveSlot 存档槽位表
// StateData是GameState快照的JSON序列化，核心按原样读回
// Soulcoins为冗余列，用于跨存档魂币池的求和查询
type SaveSlot struct {
	BaseModel
	PlayerID      uint   `gorm:"index;not null" json:"player_id"`
	Slot          int    `gorm:"index;not null" json:"slot"` // 1..5
	StateID       string `gorm:"index;size:64;not null" json:"state_id"`
	CharacterID   string `gorm:"size:64" json:"character_id"`
	CharacterName string `gorm:"size:100" json:"character_name"`
	Turn          int    `gorm:"default:1" json:"turn"`
	Soulcoins     int    `gorm:"default:0" json:"soulcoins"`
	StateData     string `gorm:"type:text" json:"-"`
}

// TableName 指定存档表名
func (SaveSlot) TableName() string {
	return "save_slots"
}

// SharedLedger 跨存档共享账本表（每个玩家一行）
// 记录已创建角色数、跨角色保留的神话能力与已解锁出身
type SharedLedger struct {
	BaseModel
	PlayerID          uint        `gorm:"uniqueIndex;not null" json:"player_id"`
	CharactersCreated int         `gorm:"default:0" json:"characters_created"`
	MythicalPowers    StringSlice `gorm:"type:text" json:"mythical_powers"`
	UnlockedOrigins   StringSlice `gorm:"type:text" json:"unlocked_origins"`
}

// TableName 指定账本表名
func (SharedLedger) TableName() string {
	return "shared_ledgers"
}
