package game

import (
	"context"

	"github.com/google/uuid"
	"github.com/wfunc/hell-game/internal/ai"
	"github.com/wfunc/hell-game/internal/catalog"
	"go.uber.org/zap"
)

// 事件来源
const (
	EventSourceStatic = "static"
	EventSourceAI     = "ai"
)

// EventView 呈现给玩家的事件，静态与生成内容统一成同一形态
type EventView struct {
	ID          string                `json:"id"`
	Source      string                `json:"source"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Choices     []catalog.EventChoice `json:"choices"`
	OnlyOnce    bool                  `json:"only_once"`
}

// EventResolution 事件选项结算结果
type EventResolution struct {
	Success   bool        `json:"success"`
	Reason    string      `json:"reason,omitempty"`
	Narrative string      `json:"narrative,omitempty"`
	Changes   StatChanges `json:"changes"`
	Ignored   []string    `json:"ignored,omitempty"` // 被忽略的未知属性键
}

// NextEvent 抽取下一个事件
// 按配置概率先尝试生成服务，失败或未命中时回退静态事件表
// onlyOnce事件按标题与事件日志去重；无可用事件时返回nil
func (s *Service) NextEvent(ctx context.Context, state *GameState) *EventView {
	if s.rng.Next() < s.aiChance {
		if generated := s.requestGeneratedEvent(ctx, state); generated != nil {
			return generated
		}
	}
	return s.pickStaticEvent(state)
}

// requestGeneratedEvent 请求生成事件并规整为统一形态
func (s *Service) requestGeneratedEvent(ctx context.Context, state *GameState) *EventView {
	generated := s.generator.RequestEvent(ctx, ai.EventRequest{
		Theme:               "life in the infernal city",
		Location:            state.Character.CurrentLocation,
		CharacterPower:      state.Character.Power,
		CharacterCorruption: state.Character.Corruption,
	})
	if generated == nil {
		return nil
	}

	choices := make([]catalog.EventChoice, 0, len(generated.Choices))
	for _, c := range generated.Choices {
		choices = append(choices, catalog.EventChoice{
			ID:   c.ID,
			Text: c.Text,
			Outcomes: catalog.EventOutcome{
				StatChanges:   c.StatChanges,
				NarrativeText: c.NarrativeText,
			},
		})
	}

	return &EventView{
		ID:          uuid.NewString(),
		Source:      EventSourceAI,
		Title:       generated.Title,
		Description: generated.Description,
		Choices:     choices,
	}
}

// pickStaticEvent 从静态事件表随机抽取
func (s *Service) pickStaticEvent(state *GameState) *EventView {
	var candidates []*catalog.Event
	for _, e := range s.catalog.Events() {
		if e.OnlyOnce && state.HasSeenEvent(e.Title) {
			continue
		}
		candidates = append(candidates, e)
	}
	if len(candidates) == 0 {
		return nil
	}

	picked := candidates[s.rng.NextInt(0, len(candidates))]
	return &EventView{
		ID:          picked.ID,
		Source:      EventSourceStatic,
		Title:       picked.Title,
		Description: picked.Description,
		Choices:     picked.Choices,
		OnlyOnce:    picked.OnlyOnce,
	}
}

// ResolveEvent 结算事件选项
// 属性变更在此边界解析为封闭记录，未知键被忽略并透出
func (s *Service) ResolveEvent(ctx context.Context, playerID uint, slot int, state *GameState, event *EventView, choiceID string) (EventResolution, SaveOutcome) {
	var choice *catalog.EventChoice
	for i := range event.Choices {
		if event.Choices[i].ID == choiceID {
			choice = &event.Choices[i]
			break
		}
	}
	if choice == nil {
		return EventResolution{Success: false, Reason: "未知的事件选项"}, SaveOutcome{Saved: true}
	}

	changes, ignored := ParseStatChanges(choice.Outcomes.StatChanges)
	if len(ignored) > 0 {
		s.logger.Warn("事件结果包含未知属性键",
			zap.String("event", event.Title),
			zap.Strings("ignored", ignored))
	}

	state.Character = ApplyOutcome(state.Character, changes)
	state.EventLog = append(state.EventLog, EventLogEntry{
		Turn:          state.Turn,
		Title:         event.Title,
		ChoiceSummary: choice.Text,
	})

	return EventResolution{
		Success:   true,
		Narrative: choice.Outcomes.NarrativeText,
		Changes:   changes,
		Ignored:   ignored,
	}, s.persist(ctx, playerID, slot, state)
}
