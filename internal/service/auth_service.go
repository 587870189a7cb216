package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/burbuqebeqiraj/PlusAPI/config"
	"github.com/burbuqebeqiraj/PlusAPI/internal/dto"
	"github.com/burbuqebeqiraj/PlusAPI/internal/model"
	"github.com/burbuqebeqiraj/PlusAPI/internal/repository"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/jwt"
)

const defaultHistoryLimit = 20

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest, meta dto.LoginMeta) (*dto.LoginResponse, error)
	// Logout 写入登出时间并将 jti 加入黑名单
	Logout(ctx context.Context, userID int, jti string, expiresAt time.Time) error
	Me(ctx context.Context, userID int) (*dto.UserInfo, error)
	History(ctx context.Context, userID, limit int) ([]dto.LoginHistoryResponse, error)
}

type authService struct {
	cfg       *config.AuthConfig
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.AuthConfig,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, meta dto.LoginMeta) (*dto.LoginResponse, error) {
	// 1. 查询用户（停用账号视为不存在）
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUserNotFound
	}

	// 2. 锁定检查
	ts := now()
	if user.IsLocked(ts) {
		return nil, ErrUserLockedOut
	}

	// 3. 验证密码 (bcrypt)
	if user.Password == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.Password)) != nil {
		return nil, s.recordFailure(ctx, user, ts)
	}

	if user.FailedLoginAttempts > 0 || user.IsLockedOut {
		if err := s.repo.User.UpdateLoginState(ctx, user.UserID, 0, false, nil); err != nil {
			s.logger.Error("重置登录失败计数失败", zap.Int("user_id", user.UserID), zap.Error(err))
			return nil, err
		}
	}

	// 4. 签发 Token
	var roleName, displayName string
	if user.UserRole != nil {
		roleName = user.UserRole.RoleName
		displayName = user.UserRole.DisplayName
	}
	token, jti, err := s.jwtMgr.GenerateToken(user.UserID, user.FullName, user.UserRoleID, roleName)
	if err != nil {
		s.logger.Error("生成 Token 失败", zap.Error(err))
		return nil, err
	}

	// 5. 登录历史，写入失败不影响登录
	s.writeHistory(ctx, user.UserID, jti, ts, meta)

	s.logger.Info("用户登录", zap.Int("user_id", user.UserID), zap.String("ip", meta.IP))

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.jwtMgr.TokenTTL().Seconds()),
		User: dto.UserInfo{
			UserID:      user.UserID,
			UserRoleID:  user.UserRoleID,
			RoleName:    roleName,
			DisplayName: displayName,
			FullName:    user.FullName,
			Email:       user.Email,
			Mobile:      user.Mobile,
			Address:     user.Address,
		},
	}, nil
}

func (s *authService) Logout(ctx context.Context, userID int, jti string, expiresAt time.Time) error {
	if _, err := s.repo.LogHistory.MarkLogout(ctx, jti, now()); err != nil {
		s.logger.Error("写入登出时间失败", zap.Int("user_id", userID), zap.Error(err))
		return err
	}

	if s.blacklist != nil {
		if ttl := time.Until(expiresAt); ttl > 0 {
			if err := s.blacklist.BlacklistToken(ctx, jti, ttl); err != nil {
				s.logger.Warn("Token 加入黑名单失败", zap.String("jti", jti), zap.Error(err))
			}
		}
	}

	s.logger.Info("用户登出", zap.Int("user_id", userID))
	return nil
}

func (s *authService) Me(ctx context.Context, userID int) (*dto.UserInfo, error) {
	user, err := s.repo.User.SelectByID(ctx, userID, repository.Joins("UserRole"))
	if err != nil {
		s.logger.Error("查询用户失败", zap.Int("user_id", userID), zap.Error(err))
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUserNotFound
	}

	info := &dto.UserInfo{
		UserID:     user.UserID,
		UserRoleID: user.UserRoleID,
		FullName:   user.FullName,
		Email:      user.Email,
		Mobile:     user.Mobile,
		Address:    user.Address,
	}
	if user.UserRole != nil {
		info.RoleName = user.UserRole.RoleName
		info.DisplayName = user.UserRole.DisplayName
	}
	return info, nil
}

func (s *authService) History(ctx context.Context, userID, limit int) ([]dto.LoginHistoryResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := s.repo.LogHistory.ListByUser(ctx, userID, limit)
	if err != nil {
		s.logger.Error("查询登录历史失败", zap.Int("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.LoginHistoryResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.LoginHistoryResponse{
			LogCode:        row.LogCode,
			LogInTime:      formatTime(row.LogInTime),
			LogOutTime:     formatTimePtr(row.LogOutTime),
			IP:             row.IP,
			Browser:        row.Browser,
			BrowserVersion: row.BrowserVersion,
			Platform:       row.Platform,
		})
	}
	return result, nil
}

// ── 内部辅助方法 ──

// recordFailure 累加失败次数，达到阈值时锁定账号
// 锁定期已过的账号从 0 开始重新计数
func (s *authService) recordFailure(ctx context.Context, user *model.User, ts time.Time) error {
	maxAttempts := s.cfg.Lockout.MaxFailedAttempts
	if maxAttempts <= 0 {
		return ErrInvalidCredentials
	}

	attempts := user.FailedLoginAttempts
	if user.IsLockedOut {
		attempts = 0
	}
	attempts++

	var (
		locked bool
		end    *time.Time
	)
	if attempts >= maxAttempts {
		locked = true
		t := ts.Add(s.cfg.Lockout.Duration)
		end = &t
	}

	if err := s.repo.User.UpdateLoginState(ctx, user.UserID, attempts, locked, end); err != nil {
		s.logger.Error("更新登录失败计数失败", zap.Int("user_id", user.UserID), zap.Error(err))
		return err
	}

	if locked {
		s.logger.Warn("账号已锁定", zap.Int("user_id", user.UserID), zap.Int("attempts", attempts))
		return ErrUserLockedOut
	}
	return ErrInvalidCredentials
}

func (s *authService) writeHistory(ctx context.Context, userID int, jti string, ts time.Time, meta dto.LoginMeta) {
	ua := ParseUserAgent(meta.UserAgent)
	row := &model.LogHistory{
		LogCode:        jti,
		LogDate:        ts,
		UserID:         userID,
		LogInTime:      ts,
		IP:             truncate(meta.IP, 50),
		Browser:        truncate(ua.Browser, 50),
		BrowserVersion: truncate(ua.Version, 50),
		Platform:       truncate(ua.Platform, 50),
	}
	if _, err := s.repo.LogHistory.Insert(ctx, row); err != nil {
		s.logger.Warn("写入登录历史失败", zap.Int("user_id", userID), zap.Error(err))
	}
}
