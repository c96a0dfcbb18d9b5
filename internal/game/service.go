package game

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/wfunc/hell-game/internal/ai"
	"github.com/wfunc/hell-game/internal/catalog"
	"github.com/wfunc/hell-game/internal/models"
	"github.com/wfunc/hell-game/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 社交数值
const (
	socializeAffinityGain = 5
	romanceAffinityGain   = 10
	defaultAIEventChance  = 0.35
)

// Service 回合结算与推进的业务服务
// 意图由上层串行化：同一GameState不支持并发变更
type Service struct {
	saveRepo   repository.SaveRepository
	ledgerRepo repository.LedgerRepository
	catalog    *catalog.Catalog
	generator  ai.Generator
	rng        RandomGenerator
	shop       ShopConfig
	aiChance   float64
	logger     *zap.Logger

	mu      sync.Mutex
	battles map[string]*BattleSession // stateID -> 进行中的战斗
}

// ServiceConfig 服务配置
type ServiceConfig struct {
	DB            *gorm.DB
	Catalog       *catalog.Catalog
	Generator     ai.Generator
	RNG           RandomGenerator
	Shop          ShopConfig
	AIEventChance float64
	Logger        *zap.Logger
}

// NewService 创建游戏服务
func NewService(cfg *ServiceConfig) *Service {
	rng := cfg.RNG
	if rng == nil {
		rng = NewCryptoRandomGenerator()
	}
	generator := cfg.Generator
	if generator == nil {
		generator = ai.Disabled{}
	}
	chance := cfg.AIEventChance
	if chance <= 0 {
		chance = defaultAIEventChance
	}
	shop := cfg.Shop
	if shop.Prices == nil {
		shop = DefaultShopConfig()
	}

	return &Service{
		saveRepo:   repository.NewSaveRepository(cfg.DB),
		ledgerRepo: repository.NewLedgerRepository(cfg.DB),
		catalog:    cfg.Catalog,
		generator:  generator,
		rng:        rng,
		shop:       shop,
		aiChance:   chance,
		logger:     cfg.Logger,
		battles:    make(map[string]*BattleSession),
	}
}

// Catalog 返回内容目录
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Rivals 生成展示用宿敌名单
func (s *Service) Rivals(state *GameState) []Rival {
	return GenerateRivals(&state.Character, s.rng)
}

// Rank 当前阶位与升阶进度
func (s *Service) Rank(state *GameState) RankProgress {
	return RankProgressForPower(state.Character.Power)
}

// ledgerSnapshot 组装创角用的共享账本快照
func (s *Service) ledgerSnapshot(ctx context.Context, playerID uint) (LedgerSnapshot, error) {
	ledger, err := s.ledgerRepo.GetOrCreate(ctx, playerID)
	if err != nil {
		return LedgerSnapshot{}, err
	}
	pool, err := s.saveRepo.SumSoulcoins(ctx, playerID)
	if err != nil {
		return LedgerSnapshot{}, err
	}
	return LedgerSnapshot{
		Initialized:     ledger.CharactersCreated > 0,
		SoulcoinPool:    pool,
		MythicalPowers:  ledger.MythicalPowers,
		UnlockedOrigins: ledger.UnlockedOrigins,
	}, nil
}

// CreateGame 创角并写入下一个空闲存档槽
type CreateGameResult struct {
	Creation CreationResult `json:"creation"`
	Slot     int            `json:"slot"`
	State    *GameState     `json:"state,omitempty"`
	Save     SaveOutcome    `json:"save"`
}

// CreateGame 结算创角、初始化快照并持久化
func (s *Service) CreateGame(ctx context.Context, playerID uint, sel CreationSelections) (*CreateGameResult, error) {
	ledger, err := s.ledgerSnapshot(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("读取共享账本失败: %w", err)
	}

	creation := FinalizeCharacter(sel, ledger, s.catalog)
	if !creation.Success {
		return &CreateGameResult{Creation: creation}, nil
	}

	slot, err := s.saveRepo.NextFreeSlot(ctx, playerID)
	if err != nil {
		if err == repository.ErrNoFreeSlot {
			creation.Success = false
			creation.Reason = "存档槽位已满"
			return &CreateGameResult{Creation: creation}, nil
		}
		return nil, err
	}

	state := NewGameState(uuid.NewString(), creation.Character)

	// 账本记账：创建计数、出身解锁、神话能力保留
	if err := s.ledgerRepo.RecordCreation(ctx, playerID); err != nil {
		s.logger.Error("记录角色创建失败", zap.Error(err), zap.Uint("player_id", playerID))
	}
	if err := s.ledgerRepo.UnlockOrigin(ctx, playerID, creation.Character.OriginID); err != nil {
		s.logger.Error("记录出身解锁失败", zap.Error(err))
	}
	for _, id := range creation.Character.Powers {
		if p, ok := s.catalog.Power(id); ok && p.Rarity == catalog.RarityMythical {
			if err := s.ledgerRepo.AddMythicalPower(ctx, playerID, id); err != nil {
				s.logger.Error("记录神话能力失败", zap.Error(err), zap.String("power_id", id))
			}
		}
	}

	save := s.persist(ctx, playerID, slot, state)
	s.logger.Info("新角色入档",
		zap.Uint("player_id", playerID),
		zap.Int("slot", slot),
		zap.String("character", creation.Character.Name()))

	return &CreateGameResult{Creation: creation, Slot: slot, State: state, Save: save}, nil
}

// LoadGame 从存档槽读回快照，缺失时返回(nil, nil)
func (s *Service) LoadGame(ctx context.Context, playerID uint, slot int) (*GameState, error) {
	record, err := s.saveRepo.Load(ctx, playerID, slot)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	var state GameState
	if err := json.Unmarshal([]byte(record.StateData), &state); err != nil {
		return nil, fmt.Errorf("存档数据损坏: %w", err)
	}
	if state.Relationships == nil {
		state.Relationships = make(map[string]Relationship)
	}
	if state.Territory == nil {
		state.Territory = make(map[string]Territory)
	}
	if state.ActionCooldowns == nil {
		state.ActionCooldowns = make(map[string]int)
	}
	if state.ActionUseCounts == nil {
		state.ActionUseCounts = make(map[string]int)
	}
	return &state, nil
}

// ListSaves 列出玩家存档
func (s *Service) ListSaves(ctx context.Context, playerID uint) ([]*models.SaveSlot, error) {
	return s.saveRepo.List(ctx, playerID)
}

// DeleteSave 删除存档槽
func (s *Service) DeleteSave(ctx context.Context, playerID uint, slot int) error {
	return s.saveRepo.Delete(ctx, playerID, slot)
}

// DeleteAllSaves 删除玩家全部存档
func (s *Service) DeleteAllSaves(ctx context.Context, playerID uint) error {
	return s.saveRepo.DeleteAll(ctx, playerID)
}

// persist 每次变更后的尽力持久化
// 失败不回滚内存状态，只透出信号
func (s *Service) persist(ctx context.Context, playerID uint, slot int, state *GameState) SaveOutcome {
	data, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("序列化快照失败", zap.Error(err), zap.String("state_id", state.ID))
		return SaveOutcome{Saved: false, Error: err.Error()}
	}

	record := &models.SaveSlot{
		PlayerID:      playerID,
		Slot:          slot,
		StateID:       state.ID,
		CharacterID:   state.Character.ID,
		CharacterName: state.Character.Name(),
		Turn:          state.Turn,
		Soulcoins:     state.Character.Soulcoins,
		StateData:     string(data),
	}
	if err := s.saveRepo.Save(ctx, record); err != nil {
		s.logger.Error("写入存档失败", zap.Error(err),
			zap.Uint("player_id", playerID), zap.Int("slot", slot))
		return SaveOutcome{Saved: false, Error: err.Error()}
	}
	return SaveOutcome{Saved: true}
}

// PerformAction 执行动作并持久化
func (s *Service) PerformAction(ctx context.Context, playerID uint, slot int, state *GameState, actionID string) (ActionResult, SaveOutcome) {
	bonus := PowerBonus(state.Character.EquippedPowers, s.catalog)
	result := InvokeAction(state, actionID, bonus)
	if !result.Success {
		return result, SaveOutcome{Saved: true}
	}
	return result, s.persist(ctx, playerID, slot, state)
}

// TurnResult 回合推进结果
type TurnResult struct {
	Turn    int `json:"turn"`
	Tribute int `json:"tribute"`
}

// AdvanceTurn 推进回合并结算领地贡金
// 贡金走经济引擎自身的结算路径，不受1000全局夹取
func (s *Service) AdvanceTurn(ctx context.Context, playerID uint, slot int, state *GameState) (TurnResult, SaveOutcome) {
	state.Turn++
	tribute := TributeIncome(state)
	if tribute > 0 {
		state.Character.Wealth += tribute
	}
	return TurnResult{Turn: state.Turn, Tribute: tribute}, s.persist(ctx, playerID, slot, state)
}

// CheckClaim 占领可行性
func (s *Service) CheckClaim(state *GameState, districtID string) ClaimCheck {
	return CanClaim(state, districtID, s.catalog)
}

// ClaimDistrict 占领城区并持久化
func (s *Service) ClaimDistrict(ctx context.Context, playerID uint, slot int, state *GameState, districtID string) (ClaimResult, SaveOutcome) {
	result := Claim(state, districtID, s.catalog)
	if !result.Success {
		return result, SaveOutcome{Saved: true}
	}
	ApplyClaim(state, result)
	return result, s.persist(ctx, playerID, slot, state)
}

// Travel 移动到指定城区
func (s *Service) Travel(ctx context.Context, playerID uint, slot int, state *GameState, districtID string) (ActionResult, SaveOutcome) {
	if _, ok := s.catalog.District(districtID); !ok {
		return ActionResult{Success: false, Reason: "未知的城区"}, SaveOutcome{Saved: true}
	}
	state.Character.CurrentLocation = districtID
	return ActionResult{Success: true}, s.persist(ctx, playerID, slot, state)
}

// SocialResult 社交互动结果
type SocialResult struct {
	Success      bool               `json:"success"`
	Reason       string             `json:"reason,omitempty"`
	Relationship Relationship       `json:"relationship"`
	Status       RelationshipStatus `json:"status"`
	Dialogue     string             `json:"dialogue,omitempty"`
}

// Socialize 与NPC社交，好感收益按能力加成缩放
func (s *Service) Socialize(ctx context.Context, playerID uint, slot int, state *GameState, npcID string) (SocialResult, SaveOutcome) {
	npc, ok := s.catalog.NPC(npcID)
	if !ok {
		return SocialResult{Success: false, Reason: "未知的NPC"}, SaveOutcome{Saved: true}
	}

	bonus := PowerBonus(state.Character.EquippedPowers, s.catalog)
	delta := int(math.Round(socializeAffinityGain * bonus))

	current, exists := state.Relationships[npcID]
	var currentPtr *Relationship
	if exists {
		currentPtr = &current
	}
	rel := UpdateRelationship(currentPtr, npcID, delta, AffinityMax)
	state.Relationships[npcID] = rel

	dialogue := s.generator.RequestDialogue(ctx, ai.DialogueRequest{
		NPCName: npc.Name,
		Context: fmt.Sprintf("casual talk in %s", state.Character.CurrentLocation),
	})

	return SocialResult{
		Success:      true,
		Relationship: rel,
		Status:       StatusForAffinity(rel.Affinity),
		Dialogue:     dialogue,
	}, s.persist(ctx, playerID, slot, state)
}

// Romance 浪漫互动，前置好感≥40；不可攻略NPC直接拒绝
func (s *Service) Romance(ctx context.Context, playerID uint, slot int, state *GameState, npcID string) (SocialResult, SaveOutcome) {
	npc, ok := s.catalog.NPC(npcID)
	if !ok {
		return SocialResult{Success: false, Reason: "未知的NPC"}, SaveOutcome{Saved: true}
	}
	if !npc.Romanceable {
		return SocialResult{Success: false, Reason: "对方对你毫无兴趣"}, SaveOutcome{Saved: true}
	}

	current, exists := state.Relationships[npcID]
	if !exists || !CanAttemptRomance(&current) {
		return SocialResult{
			Success: false,
			Reason:  fmt.Sprintf("好感不足，需要 %d 点好感", RomanceAttemptMin),
		}, SaveOutcome{Saved: true}
	}

	bonus := PowerBonus(state.Character.EquippedPowers, s.catalog)
	delta := int(math.Round(romanceAffinityGain * bonus))
	rel := UpdateRelationship(&current, npcID, delta, AffinityMax)
	state.Relationships[npcID] = rel

	dialogue := s.generator.RequestDialogue(ctx, ai.DialogueRequest{
		NPCName: npc.Name,
		Context: "a private moment",
	})

	return SocialResult{
		Success:      true,
		Relationship: rel,
		Status:       StatusForAffinity(rel.Affinity),
		Dialogue:     dialogue,
	}, s.persist(ctx, playerID, slot, state)
}

// BuyPower 购买能力并持久化，神话购买同步记账
func (s *Service) BuyPower(ctx context.Context, playerID uint, slot int, state *GameState, powerID string) (PurchaseResult, SaveOutcome) {
	result := PurchasePower(&state.Character, powerID, s.shop, s.catalog)
	if !result.Success {
		return result, SaveOutcome{Saved: true}
	}
	if p, ok := s.catalog.Power(powerID); ok && p.Rarity == catalog.RarityMythical {
		if err := s.ledgerRepo.AddMythicalPower(ctx, playerID, powerID); err != nil {
			s.logger.Error("记录神话能力失败", zap.Error(err), zap.String("power_id", powerID))
		}
	}
	return result, s.persist(ctx, playerID, slot, state)
}

// Equip 装备能力并持久化
func (s *Service) Equip(ctx context.Context, playerID uint, slot int, state *GameState, powerID string) (PurchaseResult, SaveOutcome) {
	result := EquipPower(&state.Character, powerID)
	if !result.Success {
		return result, SaveOutcome{Saved: true}
	}
	return result, s.persist(ctx, playerID, slot, state)
}
