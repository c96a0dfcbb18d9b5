package game

// 属性边界
// 展示层按100的软上限渲染进度条，变更层统一按1000夹取
// 生命值始终以100为上限
const (
	StatDisplayCap = 100
	StatMutateCap  = 1000
	HealthCap      = 100
	AffinityMin    = -100
	AffinityMax    = 100
	MaxEquipped    = 5
)

// Character 玩家角色
type Character struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Appearance string `json:"appearance"` // 外观描述，核心不解释
	OriginID   string `json:"origin_id"`

	Power          int `json:"power"`
	Control        int `json:"control"`
	Influence      int `json:"influence"`
	Corruption     int `json:"corruption"`
	Empathy        int `json:"empathy"`
	Health         int `json:"health"`
	Wealth         int `json:"wealth"`
	Soulcoins      int `json:"soulcoins"`
	MythicalShards int `json:"mythical_shards"`
	Age            int `json:"age"`

	CurrentLocation string   `json:"current_location"` // 城区ID
	Traits          []string `json:"traits"`
	Powers          []string `json:"powers"`
	EquippedPowers  []string `json:"equipped_powers"` // ⊆ Powers，最多5个
}

// Name 返回角色全名
func (c *Character) Name() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// OwnsPower 检查角色是否拥有指定能力
func (c *Character) OwnsPower(powerID string) bool {
	for _, id := range c.Powers {
		if id == powerID {
			return true
		}
	}
	return false
}

// EventLogEntry 事件日志条目（追加式，用于onlyOnce判定与历史展示）
type EventLogEntry struct {
	Turn          int    `json:"turn"`
	Title         string `json:"title"`
	ChoiceSummary string `json:"choice_summary"`
}

// Relationship 与单个NPC的关系
type Relationship struct {
	NPCID      string `json:"npc_id"`
	Affinity   int    `json:"affinity"`    // [-100,100]
	IsRomanced bool   `json:"is_romanced"` // 单向置位，核心永不重置
	IsRival    bool   `json:"is_rival"`    // 每次更新重算：affinity < -30
	FavorsOwed int    `json:"favors_owed"`
}

// Territory 已占领城区
type Territory struct {
	DistrictID        string `json:"district_id"`
	OwnerID           string `json:"owner_id"` // 角色ID（按稳定ID比较，不用名字）
	TributePerTurn    int    `json:"tribute_per_turn"`
	DefenseDifficulty int    `json:"defense_difficulty"` // 占领时的危险等级快照
	ClaimedTurn       int    `json:"claimed_turn"`
}

// GameState 单个存档的模拟快照
type GameState struct {
	ID              string                  `json:"id"`
	Turn            int                     `json:"turn"`
	Character       Character               `json:"character"`
	EventLog        []EventLogEntry         `json:"event_log"`
	Relationships   map[string]Relationship `json:"relationships"`
	Territory       map[string]Territory    `json:"territory"`
	ActionCooldowns map[string]int          `json:"action_cooldowns"` // 动作ID -> 可再次使用的回合号
	ActionUseCounts map[string]int          `json:"action_use_counts"`
}

// NewGameState 创建初始快照
func NewGameState(id string, ch Character) *GameState {
	return &GameState{
		ID:              id,
		Turn:            1,
		Character:       ch,
		Relationships:   make(map[string]Relationship),
		Territory:       make(map[string]Territory),
		ActionCooldowns: make(map[string]int),
		ActionUseCounts: make(map[string]int),
	}
}

// HasSeenEvent 判断标题是否已出现在事件日志中（onlyOnce门控）
func (s *GameState) HasSeenEvent(title string) bool {
	for _, e := range s.EventLog {
		if e.Title == title {
			return true
		}
	}
	return false
}

// StatChanges 封闭的属性变更记录
// 叙事内容（静态或AI生成）在边界处解析为本记录，未知键显式忽略
type StatChanges struct {
	Power          int `json:"power,omitempty"`
	Control        int `json:"control,omitempty"`
	Influence      int `json:"influence,omitempty"`
	Corruption     int `json:"corruption,omitempty"`
	Empathy        int `json:"empathy,omitempty"`
	Health         int `json:"health,omitempty"`
	Wealth         int `json:"wealth,omitempty"`
	Soulcoins      int `json:"soulcoins,omitempty"`
	MythicalShards int `json:"mythical_shards,omitempty"`
}

// IsZero 判断是否无任何变更
func (sc StatChanges) IsZero() bool {
	return sc == StatChanges{}
}

// ActionResult 动作执行结果
// 纯状态转换的描述记录，提示行为由表现层决定
type ActionResult struct {
	Success     bool        `json:"success"`
	Reason      string      `json:"reason,omitempty"`
	AvailableAt int         `json:"available_at,omitempty"` // 冷却中时的可用回合
	Gain        float64     `json:"gain,omitempty"`         // 主属性收益（一位小数）
	Changes     StatChanges `json:"changes"`
}

// PurchaseResult 购买结果
type PurchaseResult struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
	Price   int    `json:"price"`
}

// ClaimCheck 占领可行性检查结果
type ClaimCheck struct {
	Can             bool   `json:"can"`
	Reason          string `json:"reason,omitempty"`
	DifficultyLabel string `json:"difficulty_label,omitempty"`
	RequiredPower   int    `json:"required_power,omitempty"`
}

// ClaimResult 占领结果（部分状态，由调用方合并）
type ClaimResult struct {
	Success   bool        `json:"success"`
	Reason    string      `json:"reason,omitempty"`
	Territory Territory   `json:"territory"`
	Changes   StatChanges `json:"changes"`
}

// SaveOutcome 持久化结果信号
// 保存失败不回滚内存状态，仅向调用方透出
type SaveOutcome struct {
	Saved bool   `json:"saved"`
	Error string `json:"error,omitempty"`
}
