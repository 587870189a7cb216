package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/burbuqebeqiraj/PlusAPI/internal/api/handler"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/jwt"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/response"
)

// TokenChecker 查询 jti 是否已登出，由 Redis 客户端实现
type TokenChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Token
// checker 为 nil 或 Redis 出错时跳过黑名单检查
func JWTAuth(jwtMgr *jwt.Manager, checker TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, response.CodeUnauthorized, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, response.CodeUnauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		if checker != nil {
			revoked, err := checker.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, response.CodeUnauthorized, "Token 已失效")
				c.Abort()
				return
			}
		}

		// 将用户信息注入上下文
		c.Set(handler.CtxUserID, claims.UserID)
		c.Set(handler.CtxRoleID, claims.RoleID)
		c.Set(handler.CtxRoleName, claims.RoleName)
		c.Set(handler.CtxTokenJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(handler.CtxTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RoleIDAuth 角色权限中间件
// 检查当前用户的角色 ID 是否在允许列表中
func RoleIDAuth(allowedRoleIDs ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(handler.CtxRoleID)
		if !exists {
			response.Unauthorized(c, response.CodeUnauthorized, "未认证")
			c.Abort()
			return
		}

		roleID, _ := v.(int)
		for _, id := range allowedRoleIDs {
			if roleID == id {
				c.Next()
				return
			}
		}

		response.Forbidden(c, response.CodeForbidden, "无权限访问")
		c.Abort()
	}
}
