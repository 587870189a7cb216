package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/burbuqebeqiraj/PlusAPI/config"
	"github.com/burbuqebeqiraj/PlusAPI/internal/repository"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/jwt"
)

// TokenBlacklist Token 黑名单，由 Redis 客户端实现
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	UserRole   UserRoleService
	User       UserService
	Department DepartmentService
}

// NewService 创建 Service 聚合
// blacklist 为 nil 时登出只记录登录历史
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(&cfg.Auth, repo, jwtMgr, blacklist, logger),
		UserRole:   NewUserRoleService(repo, logger),
		User:       NewUserService(repo, logger),
		Department: NewDepartmentService(repo, logger),
	}
}

// ── 内部辅助方法 ──

// callerRef 将操作人 ID 转为审计字段，0 表示系统操作
func callerRef(callerID int) *int {
	if callerID <= 0 {
		return nil
	}
	return &callerID
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func now() time.Time {
	return time.Now().UTC()
}
