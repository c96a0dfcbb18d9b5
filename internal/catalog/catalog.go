package catalog

// Rarity 能力稀有度
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityMythical  Rarity = "mythical"
)

// StatBlock 出身起始属性
type StatBlock struct {
	Power      int `json:"power"`
	Control    int `json:"control"`
	Influence  int `json:"influence"`
	Corruption int `json:"corruption"`
	Empathy    int `json:"empathy"`
	Health     int `json:"health"`
}

// Origin 出身定义
type Origin struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	StartingStats   StatBlock `json:"startingStats"`
	TraitPoints     int       `json:"traitPoints"`
	LockedTraits    []string  `json:"lockedTraits,omitempty"`
	SuggestedPowers []string  `json:"suggestedPowers,omitempty"`
}

// UnlockConditions 能力解锁条件
type UnlockConditions struct {
	Origin       string `json:"origin,omitempty"`
	MinPower     int    `json:"minPower,omitempty"`
	MinControl   int    `json:"minControl,omitempty"`
	MinInfluence int    `json:"minInfluence,omitempty"`
}

// Power 能力定义
type Power struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	Rarity           Rarity           `json:"rarity"`
	Type             string           `json:"type"`
	BasePower        int              `json:"basePower"`
	ControlReq       int              `json:"controlReq"`
	Cooldown         int              `json:"cooldown"`
	IsPassive        bool             `json:"isPassive"`
	UnlockConditions UnlockConditions `json:"unlockConditions"`
}

// Trait 特质定义（cost可为负，负数特质返还点数）
type Trait struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Cost         int    `json:"cost"`
	OriginLocked string `json:"originLocked,omitempty"`
}

// NPC NPC定义
type NPC struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Faction     string `json:"faction"`
	BasePower   int    `json:"basePower"`
	Romanceable bool   `json:"romanceable"`
}

// District 城区定义
type District struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	DangerLevel   int      `json:"dangerLevel"` // 1..10
	TributeValue  int      `json:"tributeValue"`
	CurrentRuler  string   `json:"currentRuler"`
	SpecialEvents []string `json:"specialEvents,omitempty"`
}

// EventOutcome 事件选项结果
type EventOutcome struct {
	StatChanges   map[string]int `json:"statChanges"`
	NarrativeText string         `json:"narrativeText"`
}

// EventChoice 事件选项
type EventChoice struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Outcomes EventOutcome `json:"outcomes"`
}

// Event 静态事件定义
type Event struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Type        string        `json:"type"`
	Choices     []EventChoice `json:"choices"`
	OnlyOnce    bool          `json:"onlyOnce"`
}

// Catalog 只读内容目录，按ID索引
// 内容数据是静态可信的，未知ID按零值处理，不报错
type Catalog struct {
	origins   map[string]*Origin
	powers    map[string]*Power
	traits    map[string]*Trait
	npcs      map[string]*NPC
	districts map[string]*District
	events    map[string]*Event

	originList   []*Origin
	powerList    []*Power
	traitList    []*Trait
	npcList      []*NPC
	districtList []*District
	eventList    []*Event
}

// NewCatalog 从内容表构建目录
func NewCatalog(origins []Origin, powers []Power, traits []Trait, npcs []NPC, districts []District, events []Event) *Catalog {
	c := &Catalog{
		origins:   make(map[string]*Origin, len(origins)),
		powers:    make(map[string]*Power, len(powers)),
		traits:    make(map[string]*Trait, len(traits)),
		npcs:      make(map[string]*NPC, len(npcs)),
		districts: make(map[string]*District, len(districts)),
		events:    make(map[string]*Event, len(events)),
	}
	for i := range origins {
		c.origins[origins[i].ID] = &origins[i]
		c.originList = append(c.originList, &origins[i])
	}
	for i := range powers {
		c.powers[powers[i].ID] = &powers[i]
		c.powerList = append(c.powerList, &powers[i])
	}
	for i := range traits {
		c.traits[traits[i].ID] = &traits[i]
		c.traitList = append(c.traitList, &traits[i])
	}
	for i := range npcs {
		c.npcs[npcs[i].ID] = &npcs[i]
		c.npcList = append(c.npcList, &npcs[i])
	}
	for i := range districts {
		c.districts[districts[i].ID] = &districts[i]
		c.districtList = append(c.districtList, &districts[i])
	}
	for i := range events {
		c.events[events[i].ID] = &events[i]
		c.eventList = append(c.eventList, &events[i])
	}
	return c
}

// Origin 查找出身
func (c *Catalog) Origin(id string) (*Origin, bool) {
	o, ok := c.origins[id]
	return o, ok
}

// Power 查找能力
func (c *Catalog) Power(id string) (*Power, bool) {
	p, ok := c.powers[id]
	return p, ok
}

// Trait 查找特质
func (c *Catalog) Trait(id string) (*Trait, bool) {
	t, ok := c.traits[id]
	return t, ok
}

// NPC 查找NPC
func (c *Catalog) NPC(id string) (*NPC, bool) {
	n, ok := c.npcs[id]
	return n, ok
}

// District 查找城区
func (c *Catalog) District(id string) (*District, bool) {
	d, ok := c.districts[id]
	return d, ok
}

// Event 查找静态事件
func (c *Catalog) Event(id string) (*Event, bool) {
	e, ok := c.events[id]
	return e, ok
}

// Events 返回全部静态事件（加载顺序）
func (c *Catalog) Events() []*Event {
	return c.eventList
}

// Origins 返回全部出身（加载顺序）
func (c *Catalog) Origins() []*Origin {
	return c.originList
}

// AllPowers 返回全部能力（加载顺序）
func (c *Catalog) AllPowers() []*Power {
	return c.powerList
}

// Traits 返回全部特质（加载顺序）
func (c *Catalog) Traits() []*Trait {
	return c.traitList
}

// NPCs 返回全部NPC（加载顺序）
func (c *Catalog) NPCs() []*NPC {
	return c.npcList
}

// Districts 返回全部城区（加载顺序）
func (c *Catalog) Districts() []*District {
	return c.districtList
}

// Powers 返回指定ID集合对应的能力，未知ID跳过
func (c *Catalog) Powers(ids []string) []*Power {
	result := make([]*Power, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.powers[id]; ok {
			result = append(result, p)
		}
	}
	return result
}

// CommonPowers 返回最多limit个普通稀有度能力（按ID排序保证稳定）
func (c *Catalog) CommonPowers(limit int) []*Power {
	var result []*Power
	for _, p := range c.powers {
		if p.Rarity == RarityCommon {
			result = append(result, p)
		}
	}
	sortPowersByID(result)
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

func sortPowersByID(powers []*Power) {
	for i := 1; i < len(powers); i++ {
		for j := i; j > 0 && powers[j-1].ID > powers[j].ID; j-- {
			powers[j-1], powers[j] = powers[j], powers[j-1]
		}
	}
}
