package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/burbuqebeqiraj/PlusAPI/pkg/response"
)

// Gin 上下文键，由 JWT 中间件写入
const (
	CtxUserID   = "user_id"
	CtxRoleID   = "role_id"
	CtxRoleName = "role_name"
	CtxTokenJTI = "token_jti"
	CtxTokenExp = "token_exp"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (int, bool) {
	return mustGetInt(c, CtxUserID)
}

// MustGetRoleID 从 Gin 上下文中安全提取 role_id。
func MustGetRoleID(c *gin.Context) (int, bool) {
	return mustGetInt(c, CtxRoleID)
}

// MustGetToken 提取当前 Token 的 jti 与过期时间
func MustGetToken(c *gin.Context) (string, time.Time, bool) {
	jti := c.GetString(CtxTokenJTI)
	exp, ok := c.Get(CtxTokenExp)
	if jti == "" || !ok {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return "", time.Time{}, false
	}
	t, ok := exp.(time.Time)
	if !ok {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return "", time.Time{}, false
	}
	return jti, t, true
}

// ParseIDParam 解析路径中的 :id，非正整数时写入 400
func ParseIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, response.CodeInvalidParam, "ID 参数无效")
		return 0, false
	}
	return id, true
}

func mustGetInt(c *gin.Context, key string) (int, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return 0, false
	}
	n, ok := v.(int)
	if !ok || n <= 0 {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return 0, false
	}
	return n, true
}
