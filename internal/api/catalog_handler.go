package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/hell-game/internal/catalog"
	"github.com/wfunc/hell-game/internal/game"
)

// CatalogHandler 内容目录查询处理器
// 内容数据只读，接口不需要认证
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler 创建内容处理器
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

// Origins 出身列表
func (h *CatalogHandler) Origins(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"origins": h.catalog.Origins()})
}

// Powers 能力列表
func (h *CatalogHandler) Powers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"powers": h.catalog.AllPowers()})
}

// Traits 特质列表
func (h *CatalogHandler) Traits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"traits": h.catalog.Traits()})
}

// NPCs NPC列表
func (h *CatalogHandler) NPCs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"npcs": h.catalog.NPCs()})
}

// Districts 城区列表
func (h *CatalogHandler) Districts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"districts": h.catalog.Districts()})
}

// Ranks 阶位表
func (h *CatalogHandler) Ranks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ranks": game.RankTiers()})
}
