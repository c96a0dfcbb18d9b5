package api

import (
	"github.com/gin-gonic/gin"
	"github.com/wfunc/hell-game/internal/catalog"
	"github.com/wfunc/hell-game/internal/config"
	"github.com/wfunc/hell-game/internal/game"
	"github.com/wfunc/hell-game/internal/middleware"
	"github.com/wfunc/hell-game/internal/service"
	"github.com/wfunc/hell-game/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Router API路由器
type Router struct {
	engine         *gin.Engine
	db             *gorm.DB
	authHandler    *AuthHandler
	gameHandler    *GameHandler
	catalogHandler *CatalogHandler
	wsHandler      *WSHandler
	authMiddleware *middleware.AuthMiddleware
	log            *zap.Logger
}

// RouterConfig 路由器依赖
type RouterConfig struct {
	DB          *gorm.DB
	AuthService service.AuthService
	GameService *game.Service
	Catalog     *catalog.Catalog
	Hub         *websocket.Hub
	WebSocket   config.WebSocketConfig
	Logger      *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(cfg RouterConfig) *Router {
	// 创建Gin引擎
	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	router := &Router{
		engine:         engine,
		db:             cfg.DB,
		authHandler:    NewAuthHandler(cfg.AuthService),
		gameHandler:    NewGameHandler(cfg.GameService, cfg.Hub, cfg.Logger),
		catalogHandler: NewCatalogHandler(cfg.Catalog),
		wsHandler:      NewWSHandler(cfg.Hub, cfg.AuthService, cfg.WebSocket, cfg.Logger),
		authMiddleware: middleware.NewAuthMiddleware(cfg.AuthService),
		log:            cfg.Logger,
	}

	// 设置路由
	router.setupRoutes()

	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	// API v1路由组
	v1 := r.engine.Group("/api/v1")
	{
		// 认证相关路由（不需要认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/refresh", r.authHandler.RefreshToken)

			// 需要认证的路由
			authRequired := auth.Group("")
			authRequired.Use(r.authMiddleware.RequireAuth())
			{
				authRequired.GET("/profile", r.authHandler.Profile)
			}
		}

		// 内容目录路由（只读，不需要认证）
		cat := v1.Group("/catalog")
		{
			cat.GET("/origins", r.catalogHandler.Origins)
			cat.GET("/powers", r.catalogHandler.Powers)
			cat.GET("/traits", r.catalogHandler.Traits)
			cat.GET("/npcs", r.catalogHandler.NPCs)
			cat.GET("/districts", r.catalogHandler.Districts)
			cat.GET("/ranks", r.catalogHandler.Ranks)
		}

		// 存档管理路由（需要认证）
		saves := v1.Group("/saves")
		saves.Use(r.authMiddleware.RequireAuth())
		{
			saves.GET("", r.gameHandler.ListSaves)
			saves.DELETE("/:slot", r.gameHandler.DeleteSave)
		}

		// 游戏路由（需要认证）
		games := v1.Group("/game")
		games.Use(r.authMiddleware.RequireAuth())
		{
			games.POST("/create", r.gameHandler.CreateGame)

			slot := games.Group("/:slot")
			{
				slot.GET("/state", r.gameHandler.GetState)
				slot.POST("/action", r.gameHandler.PerformAction)
				slot.POST("/turn", r.gameHandler.AdvanceTurn)
				slot.POST("/travel", r.gameHandler.Travel)
				slot.GET("/claim/:district", r.gameHandler.CheckClaim)
				slot.POST("/claim", r.gameHandler.ClaimDistrict)
				slot.POST("/social", r.gameHandler.Socialize)
				slot.POST("/shop/buy", r.gameHandler.BuyPower)
				slot.POST("/equip", r.gameHandler.EquipPower)
				slot.GET("/event/next", r.gameHandler.NextEvent)
				slot.POST("/event/choose", r.gameHandler.ChooseEvent)
				slot.POST("/battle/start", r.gameHandler.StartBattle)
				slot.GET("/battle", r.gameHandler.GetBattle)
				slot.POST("/battle/move", r.gameHandler.BattleMove)
				slot.POST("/battle/flee", r.gameHandler.FleeBattle)
			}
		}
	}

	// WebSocket路由（token在握手时校验）
	r.engine.GET("/ws", r.wsHandler.Serve)

	// 404处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    "NOT_FOUND",
			"message": "接口不存在",
		})
	})
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	// 检查数据库连接
	sqlDB, err := r.db.DB()
	if err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库连接失败",
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库ping失败",
		})
		return
	}

	c.JSON(200, gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
	})
}

// Run 运行服务器
func (r *Router) Run(addr string) error {
	r.log.Info("Starting API server", zap.String("address", addr))
	return r.engine.Run(addr)
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
