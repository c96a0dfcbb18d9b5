package api

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/hell-game/internal/game"
	"github.com/wfunc/hell-game/internal/middleware"
	"github.com/wfunc/hell-game/internal/websocket"
	"go.uber.org/zap"
)

// GameHandler 游戏意图处理器
// 每个玩家槽位对应一份内存态快照，意图按请求串行应用后尽力持久化
type GameHandler struct {
	svc *game.Service
	hub *websocket.Hub
	log *zap.Logger

	mu       sync.Mutex
	sessions map[string]*gameSession
}

// gameSession 活跃槽位的内存态
type gameSession struct {
	playerID     uint
	slot         int
	state        *game.GameState
	pendingEvent *game.EventView
}

// NewGameHandler 创建游戏处理器
// hub可为nil，此时不做WebSocket推送
func NewGameHandler(svc *game.Service, hub *websocket.Hub, log *zap.Logger) *GameHandler {
	return &GameHandler{
		svc:      svc,
		hub:      hub,
		log:      log,
		sessions: make(map[string]*gameSession),
	}
}

// notify 向玩家的在线连接推送数据
func (h *GameHandler) notify(playerID uint, msgType string, payload interface{}) {
	if h.hub == nil {
		return
	}
	h.hub.NotifyPlayer(playerID, msgType, payload)
}

func sessionKey(playerID uint, slot int) string {
	return fmt.Sprintf("%d:%d", playerID, slot)
}

// resolveSession 获取当前玩家与槽位的活跃会话，必要时从存档加载
func (h *GameHandler) resolveSession(c *gin.Context) (*gameSession, bool) {
	playerID, ok := middleware.GetPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "UNAUTHORIZED", Message: "未登录"})
		return nil, false
	}

	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil || slot < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_SLOT", Message: "无效的存档槽位"})
		return nil, false
	}

	key := sessionKey(playerID, slot)

	h.mu.Lock()
	defer h.mu.Unlock()

	if session, ok := h.sessions[key]; ok {
		return session, true
	}

	state, err := h.svc.LoadGame(c.Request.Context(), playerID, slot)
	if err != nil {
		h.log.Error("读取存档失败", zap.Error(err), zap.Uint("player_id", playerID), zap.Int("slot", slot))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "LOAD_FAILED", Message: "读取存档失败"})
		return nil, false
	}
	if state == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Code: "SAVE_NOT_FOUND", Message: "存档不存在"})
		return nil, false
	}

	session := &gameSession{playerID: playerID, slot: slot, state: state}
	h.sessions[key] = session
	return session, true
}

// dropSession 释放槽位的内存态
func (h *GameHandler) dropSession(playerID uint, slot int) {
	h.mu.Lock()
	delete(h.sessions, sessionKey(playerID, slot))
	h.mu.Unlock()
}

// CreateGame 创角并写入空闲槽位
func (h *GameHandler) CreateGame(c *gin.Context) {
	playerID, ok := middleware.GetPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "UNAUTHORIZED", Message: "未登录"})
		return
	}

	var sel game.CreationSelections
	if err := c.ShouldBindJSON(&sel); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	result, err := h.svc.CreateGame(c.Request.Context(), playerID, sel)
	if err != nil {
		h.log.Error("创角失败", zap.Error(err), zap.Uint("player_id", playerID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "CREATE_FAILED", Message: "创角失败"})
		return
	}
	if !result.Creation.Success {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "CREATION_REJECTED", Message: result.Creation.Reason})
		return
	}

	h.mu.Lock()
	h.sessions[sessionKey(playerID, result.Slot)] = &gameSession{
		playerID: playerID,
		slot:     result.Slot,
		state:    result.State,
	}
	h.mu.Unlock()

	c.JSON(http.StatusOK, result)
}

// GetState 当前快照与派生展示数据
func (h *GameHandler) GetState(c *gin.Context) {
	session, ok := h.resolveSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":  session.state,
		"rank":   h.svc.Rank(session.state),
		"rivals": h.svc.Rivals(session.state),
	})
}

// ListSaves 列出玩家存档
func (h *GameHandler) ListSaves(c *gin.Context) {
	playerID, ok := middleware.GetPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "UNAUTHORIZED", Message: "未登录"})
		return
	}

	saves, err := h.svc.ListSaves(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "LIST_FAILED", Message: "查询存档失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saves": saves})
}

// DeleteSave 删除存档槽位
func (h *GameHandler) DeleteSave(c *gin.Context) {
	playerID, ok := middleware.GetPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "UNAUTHORIZED", Message: "未登录"})
		return
	}
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_SLOT", Message: "无效的存档槽位"})
		return
	}

	if err := h.svc.DeleteSave(c.Request.Context(), playerID, slot); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "DELETE_FAILED", Message: "删除存档失败"})
		return
	}
	h.dropSession(playerID, slot)
	c.JSON(http.StatusOK, SuccessResponse{Message: "存档已删除"})
}

// PerformAction 执行动作
func (h *GameHandler) PerformAction(c *gin.Context) {
	session, ok := h.resolveSession(c)
	if !ok {
		return
	}

	var req struct {
		ActionID string `json:"action_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_REQUEST", Message: "请求参数错误", Details: err.Error()})
		return
	}

	result, save := h.svc.PerformAction(c.Request.Context(), session.playerID, session.slot, session.state, req.ActionID)
	c.JSON(http.StatusOK, gin.H{"result": result, "save": save})
}

// AdvanceTurn 推进回合
func (h *GameHandler) AdvanceTurn(c *gin.Context) {
	session, ok := h.resolveSession(c)
	if !ok {
		return
	}

	result, save := h.svc.AdvanceTurn(c.Request.Context(), session.playerID, session.slot, session.state)
	h.notify(session.playerID, websocket.MessageTypeTurnUpdate, result)
	c.JSON(http.StatusOK, gin.H{"result": result, "save": save})
}

// Travel 移动城区
func (h *GameHandler) Travel(c *gin.Context) {
	session, ok := h.resolveSession(c)
	if !ok {
		return
	}

	var req struct {
		DistrictID string `json:"district_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_REQUEST", Message: "请求参数错误", Details: err.Error()})
		return
	}

	result, save := h.svc.Travel(c.Request.Context(), session.playerID, session.slot, session.state, req.DistrictID)
	c.JSON(http.StatusOK, gin.H{"result": result, "save": save})
}

// CheckClaim 占领可行性
func (h *GameHandler) CheckClaim(c *gin.Context) {
	session, ok := h.resolveSession(c)
	if !ok {
		return
	}

	check := h.svc.CheckClaim(session.state, c.Param("district"))
	c.JSON(http.StatusOK, check)
}

// ClaimDistrict 占领城区
func (h *GameHandler) ClaimDistrict(c *gin.Context) {
	session, ok := h.resolveSession(c)
	if !ok {
		return
	}

	var req struct {
		DistrictID string `json:"district_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_REQUEST", Message: "请求参数错误", Details: err.Error()})
		return
	}

	result, save := h.svc.ClaimDistrict(c.Request.Context(), session.playerID, session.slot, session.state, req.DistrictID)
	c.JSON(http.StatusOK, gin.H{"result": result, "save": save})
}

// Socialize 社交互动
func (h *GameHandler) Socialize(c *gin.Context) {
	session, ok := h.resolveSession(c)
	if !ok {
		return
	}

	var req struct {
		NPCID   string `json:"npc_id" binding:"required"`
		Romance bool   `json:"romance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_REQUEST", Message: "请求参数错误", Details: err.Error()})
		return
	}

	var (
		result game.SocialResult
		save   game.SaveOutcome
	)
	if req.Romance {
		result, save = h.svc.Romance(c.Request.Context(), session.playerID, session.slot, session.state, req.NPCID)
	} else {
		result, save = h.svc.Socialize(c.Request.Context(), session.playerID, session.slot, session.state, req.NPCID)
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "save": save})
}

// BuyPower 购买能力
func (h *GameHandler) BuyPower(c *gin.Context) {
	session, ok := h.resolveSession(c)
	if !ok {
		return
	}

	var req struct {
		PowerID string `json:"power_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_REQUEST", Message: "请求参数错误", Details: err.Error()})
		return
	}

	result, save := h.svc.BuyPower(c.Request.Context(), session.playerID, session.slot, session.state, req.PowerID)
	c.JSON(http.StatusOK, gin.H{"result": result, "save": save})
}

// EquipPower 装备能力
func (h *GameHandler) EquipPower(c *gin.Context) {
	session, ok := h.resolveSession(c)
	if !ok {
		return
	}

	var req struct {
		PowerID string `json:"power_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_REQUEST", Message: "请求参数错误", Details: err.Error()})
		return
	}

	result, save := h.svc.Equip(c.Request.Context(), session.playerID, session.slot, session.state, req.PowerID)
	c.JSON(http.StatusOK, gin.H{"result": result, "save": save})
}

// NextEvent 抽取下一个事件
func (h *GameHandler) NextEvent(c *gin.Context) {
	session, ok := h.resolveSession(c)
	if !ok {
		return
	}

	event := h.svc.NextEvent(c.Request.Context(), session.state)
	if event == nil {
		c.JSON(http.StatusOK, gin.H{"event": nil})
		return
	}

	h.mu.Lock()
	session.pendingEvent = event
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// ChooseEvent 结算事件选项
func (h *GameHandler) ChooseEvent(c *gin.Context) {
	session, ok := h.resolveSession(c)
	if !ok {
		return
	}

	var req struct {
		ChoiceID string `json:"choice_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_REQUEST", Message: "请求参数错误", Details: err.Error()})
		return
	}

	h.mu.Lock()
	event := session.pendingEvent
	session.pendingEvent = nil
	h.mu.Unlock()

	if event == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "NO_PENDING_EVENT", Message: "没有待结算的事件"})
		return
	}

	result, save := h.svc.ResolveEvent(c.Request.Context(), session.playerID, session.slot, session.state, event, req.ChoiceID)
	if !result.Success {
		// 未知选项不消费事件，允许重新选择
		h.mu.Lock()
		session.pendingEvent = event
		h.mu.Unlock()
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_CHOICE", Message: result.Reason})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "save": save})
}

// StartBattle 开战
func (h *GameHandler) StartBattle(c *gin.Context) {
	session, ok := h.resolveSession(c)
	if !ok {
		return
	}

	var req struct {
		NPCID string `json:"npc_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_REQUEST", Message: "请求参数错误", Details: err.Error()})
		return
	}

	result := h.svc.StartBattle(session.state, req.NPCID)
	if !result.Success {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "BATTLE_REJECTED", Message: result.Reason})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetBattle 当前战斗会话
func (h *GameHandler) GetBattle(c *gin.Context) {
	session, ok := h.resolveSession(c)
	if !ok {
		return
	}

	battle := h.svc.Battle(session.state.ID)
	if battle == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Code: "NO_BATTLE", Message: "没有进行中的战斗"})
		return
	}
	c.JSON(http.StatusOK, battle)
}

// BattleMove 执行战斗招式
func (h *GameHandler) BattleMove(c *gin.Context) {
	session, ok := h.resolveSession(c)
	if !ok {
		return
	}

	var req struct {
		Move string `json:"move" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_REQUEST", Message: "请求参数错误", Details: err.Error()})
		return
	}

	result, save := h.svc.BattleAction(c.Request.Context(), session.playerID, session.slot, session.state, game.BattleMove(req.Move))
	if result.Accepted {
		msgType := websocket.MessageTypeBattleUpdate
		if result.State != game.BattleActive {
			msgType = websocket.MessageTypeBattleEnd
		}
		h.notify(session.playerID, msgType, result)
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "save": save})
}

// FleeBattle 放弃战斗
func (h *GameHandler) FleeBattle(c *gin.Context) {
	session, ok := h.resolveSession(c)
	if !ok {
		return
	}

	result, save := h.svc.FleeBattle(c.Request.Context(), session.playerID, session.slot, session.state)
	if result.Accepted {
		h.notify(session.playerID, websocket.MessageTypeBattleEnd, result)
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "save": save})
}
