package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/wfunc/hell-game/internal/config"
	"github.com/wfunc/hell-game/internal/service"
	"github.com/wfunc/hell-game/internal/websocket"
	"go.uber.org/zap"
)

// WSHandler WebSocket接入处理器
// 连接用于服务端推送战斗叙事和回合结算，认证走查询参数token
type WSHandler struct {
	hub         *websocket.Hub
	authService service.AuthService
	upgrader    gorillaws.Upgrader
	log         *zap.Logger
}

// NewWSHandler 创建WebSocket处理器
func NewWSHandler(hub *websocket.Hub, authService service.AuthService, cfg config.WebSocketConfig, log *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:         hub,
		authService: authService,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:    cfg.ReadBufferSize,
			WriteBufferSize:   cfg.WriteBufferSize,
			EnableCompression: cfg.EnableCompression,
			// 客户端来源由token鉴权保证
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Serve 升级连接并注册到Hub
func (h *WSHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "UNAUTHORIZED", Message: "缺少token"})
		return
	}

	claims, err := h.authService.ValidateToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "UNAUTHORIZED", Message: "无效的token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("WebSocket升级失败", zap.Error(err))
		return
	}

	client := websocket.NewClient(h.hub, conn, claims.PlayerID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
