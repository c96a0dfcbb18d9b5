package models

import "time"

// Player 玩家账户表
type Player struct {
	BaseModel
	Username     string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Nickname     string     `gorm:"size:100" json:"nickname"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Status       string     `gorm:"size:20;default:'active'" json:"status"` // active, frozen, banned
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	LastLoginIP  string     `gorm:"size:50" json:"last_login_ip"`
}

// TableName 指定Player表名
func (Player) TableName() string {
	return "players"
}

// IsActive 检查账户是否激活
func (p *Player) IsActive() bool {
	return p.Status == "active"
}

// UpdateLoginInfo 更新登录信息
func (p *Player) UpdateLoginInfo(ip string) {
	now := time.Now()
	p.LastLoginAt = &now
	p.LastLoginIP = ip
}
