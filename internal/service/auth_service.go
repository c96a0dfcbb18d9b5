package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/wfunc/hell-game/internal/models"
	"github.com/wfunc/hell-game/internal/repository"
	"github.com/wfunc/hell-game/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrPlayerExists       = errors.New("玩家已存在")
	ErrPlayerBanned       = errors.New("账户已被封禁")
	ErrInvalidToken       = errors.New("无效的令牌")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)

// authService 认证服务实现
type authService struct {
	db         *gorm.DB
	playerRepo repository.PlayerRepository
	jwtManager *utils.JWTManager
	log        *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(
	db *gorm.DB,
	playerRepo repository.PlayerRepository,
	jwtManager *utils.JWTManager,
	log *zap.Logger,
) AuthService {
	return &authService{
		db:         db,
		playerRepo: playerRepo,
		jwtManager: jwtManager,
		log:        log,
	}
}

// Register 玩家注册
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if !usernamePattern.MatchString(req.Username) {
		return nil, fmt.Errorf("用户名格式无效")
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("密码至少6位")
	}

	exists, err := s.playerRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("检查用户名失败: %w", err)
	}
	if exists {
		return nil, ErrPlayerExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	player := &models.Player{
		Username:     req.Username,
		Nickname:     req.Nickname,
		PasswordHash: hashedPassword,
		Status:       "active",
	}
	if player.Nickname == "" {
		player.Nickname = req.Username
	}
	player.UpdateLoginInfo(req.IP)

	if err := s.playerRepo.Create(ctx, player); err != nil {
		s.log.Error("创建玩家失败", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("创建玩家失败: %w", err)
	}

	s.log.Info("玩家注册成功",
		zap.Uint("player_id", player.ID),
		zap.String("username", player.Username))

	return s.issueTokens(player)
}

// Login 玩家登录
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	player, err := s.playerRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := utils.VerifyPassword(req.Password, player.PasswordHash)
	if err != nil || !ok {
		s.log.Warn("登录失败", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	if !player.IsActive() {
		return nil, ErrPlayerBanned
	}

	player.UpdateLoginInfo(req.IP)
	if err := s.playerRepo.Update(ctx, player); err != nil {
		s.log.Error("更新登录信息失败", zap.Error(err), zap.Uint("player_id", player.ID))
	}

	s.log.Info("玩家登录成功", zap.Uint("player_id", player.ID))

	return s.issueTokens(player)
}

// ValidateToken 验证访问令牌
func (s *authService) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != "access" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RefreshToken 刷新令牌
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrInvalidToken
	}

	player, err := s.playerRepo.FindByID(ctx, claims.PlayerID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !player.IsActive() {
		return nil, ErrPlayerBanned
	}

	return s.issueTokens(player)
}

// issueTokens 签发访问与刷新令牌
func (s *authService) issueTokens(player *models.Player) (*AuthResponse, error) {
	sessionID, err := utils.GenerateSessionID()
	if err != nil {
		return nil, fmt.Errorf("生成会话ID失败: %w", err)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(player.ID, player.Username, "player", sessionID)
	if err != nil {
		return nil, fmt.Errorf("生成访问令牌失败: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(player.ID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("生成刷新令牌失败: %w", err)
	}

	return &AuthResponse{
		Player:       player,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetTokenExpiry("access").Seconds()),
	}, nil
}
