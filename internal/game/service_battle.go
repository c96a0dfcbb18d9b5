package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StartBattleResult 开战结果
type StartBattleResult struct {
	Success  bool           `json:"success"`
	Reason   string         `json:"reason,omitempty"`
	BattleID string         `json:"battle_id,omitempty"`
	Opponent Opponent       `json:"opponent"`
	Session  *BattleSession `json:"session,omitempty"`
}

// StartBattle 对指定NPC开战
// 同一存档同时只允许一场战斗
func (s *Service) StartBattle(state *GameState, npcID string) StartBattleResult {
	npc, ok := s.catalog.NPC(npcID)
	if !ok {
		return StartBattleResult{Success: false, Reason: "未知的NPC"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.battles[state.ID]; ok && existing.State == BattleActive {
		return StartBattleResult{Success: false, Reason: "已有进行中的战斗"}
	}

	opp := NewOpponentFromNPC(npc)
	session := NewBattleSession(
		uuid.NewString(),
		&state.Character,
		s.catalog.Powers(state.Character.EquippedPowers),
		opp,
		s.rng,
		s.logger,
	)
	s.battles[state.ID] = session

	return StartBattleResult{
		Success:  true,
		BattleID: session.ID,
		Opponent: opp,
		Session:  session,
	}
}

// Battle 返回存档当前的战斗会话，没有时返回nil
func (s *Service) Battle(stateID string) *BattleSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battles[stateID]
}

// BattleAction 执行战斗招式
// 终态时同步角色生命值、结算赏罚并持久化，会话随之销毁
func (s *Service) BattleAction(ctx context.Context, playerID uint, slot int, state *GameState, move BattleMove) (BattleMoveResult, SaveOutcome) {
	s.mu.Lock()
	session, ok := s.battles[state.ID]
	s.mu.Unlock()
	if !ok {
		return BattleMoveResult{Accepted: false, Reason: "没有进行中的战斗"}, SaveOutcome{Saved: true}
	}

	result := session.PlayerMove(move)
	if !result.Accepted {
		return result, SaveOutcome{Saved: true}
	}
	if result.State == BattleActive {
		return result, SaveOutcome{Saved: true}
	}

	// 终态结算
	state.Character.Health = session.PlayerHealth
	if result.Payout != nil {
		state.Character = ApplyOutcome(state.Character, result.Payout.Changes)
	}

	s.mu.Lock()
	delete(s.battles, state.ID)
	s.mu.Unlock()

	s.logger.Info("战斗结算完成",
		zap.String("battle_id", session.ID),
		zap.String("state", string(result.State)),
		zap.Int("player_health", state.Character.Health))

	return result, s.persist(ctx, playerID, slot, state)
}

// FleeBattle 放弃战斗，按失败结算
func (s *Service) FleeBattle(ctx context.Context, playerID uint, slot int, state *GameState) (BattleMoveResult, SaveOutcome) {
	s.mu.Lock()
	session, ok := s.battles[state.ID]
	if ok {
		delete(s.battles, state.ID)
	}
	s.mu.Unlock()
	if !ok {
		return BattleMoveResult{Accepted: false, Reason: "没有进行中的战斗"}, SaveOutcome{Saved: true}
	}

	payout := &BattlePayout{Victory: false, Changes: StatChanges{Power: -2, Wealth: -50}}
	state.Character.Health = session.PlayerHealth
	state.Character = ApplyOutcome(state.Character, payout.Changes)

	result := BattleMoveResult{
		Accepted: true,
		State:    BattlePlayerDefeat,
		Payout:   payout,
		Log:      []string{fmt.Sprintf("%s flees into the dark alleys of Hell.", state.Character.Name())},
	}
	return result, s.persist(ctx, playerID, slot, state)
}
