package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// FallbackDialogue 对话降级文本
const FallbackDialogue = "..."

// EventRequest 事件生成请求
type EventRequest struct {
	Theme               string `json:"theme"`
	Location            string `json:"location"`
	CharacterPower      int    `json:"characterPower"`
	CharacterCorruption int    `json:"characterCorruption"`
}

// DialogueRequest 对话生成请求
type DialogueRequest struct {
	NPCName string `json:"npcName"`
	Context string `json:"context"`
}

// GeneratedChoice 生成事件的选项
type GeneratedChoice struct {
	ID            string         `json:"id"`
	Text          string         `json:"text"`
	StatChanges   map[string]int `json:"statChanges"`
	NarrativeText string         `json:"narrativeText"`
}

// GeneratedEvent 生成的叙事事件
// 属性变更在核心边界处解析为封闭记录，未知键被忽略
type GeneratedEvent struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Choices     []GeneratedChoice `json:"choices"`
}

// Generator 叙事生成服务接口
// 任何失败都降级为 nil / "..."，核心的静态内容路径在本服务完全缺席时可完整游玩
type Generator interface {
	RequestEvent(ctx context.Context, req EventRequest) *GeneratedEvent
	RequestDialogue(ctx context.Context, req DialogueRequest) string
}

// Config 生成服务配置
type Config struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Client HTTP实现
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient 创建生成服务客户端
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// RequestEvent 请求生成事件，失败返回nil
func (c *Client) RequestEvent(ctx context.Context, req EventRequest) *GeneratedEvent {
	if !c.cfg.Enabled {
		return nil
	}

	var event GeneratedEvent
	if err := c.post(ctx, "/v1/event", req, &event); err != nil {
		c.logger.Warn("事件生成失败，回退静态内容", zap.Error(err))
		return nil
	}
	if event.Title == "" || len(event.Choices) == 0 {
		c.logger.Warn("事件生成响应不完整，回退静态内容",
			zap.String("title", event.Title),
			zap.Int("choices", len(event.Choices)))
		return nil
	}
	return &event
}

// RequestDialogue 请求生成对话，失败返回"..."
func (c *Client) RequestDialogue(ctx context.Context, req DialogueRequest) string {
	if !c.cfg.Enabled {
		return FallbackDialogue
	}

	var resp struct {
		Dialogue string `json:"dialogue"`
	}
	if err := c.post(ctx, "/v1/dialogue", req, &resp); err != nil {
		c.logger.Warn("对话生成失败", zap.Error(err), zap.String("npc", req.NPCName))
		return FallbackDialogue
	}
	if resp.Dialogue == "" {
		return FallbackDialogue
	}
	return resp.Dialogue
}

// post 发送JSON请求并解析响应
func (c *Client) post(ctx context.Context, path string, body, dest interface{}) error {
	payload, err := json.Marshal(struct {
		Model string      `json:"model,omitempty"`
		Input interface{} `json:"input"`
	}{Model: c.cfg.Model, Input: body})
	if err != nil {
		return fmt.Errorf("序列化请求失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("生成服务返回 %d: %s", resp.StatusCode, string(data))
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}

// Disabled 永远降级的空实现
type Disabled struct{}

// RequestEvent 恒返回nil
func (Disabled) RequestEvent(ctx context.Context, req EventRequest) *GeneratedEvent {
	return nil
}

// RequestDialogue 恒返回降级文本
func (Disabled) RequestDialogue(ctx context.Context, req DialogueRequest) string {
	return FallbackDialogue
}
