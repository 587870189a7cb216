package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/burbuqebeqiraj/PlusAPI/internal/dto"
	"github.com/burbuqebeqiraj/PlusAPI/internal/service"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/metrics"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/response"
)

// LoginRecorder 登录结果计数，由 metrics.Metrics 实现
type LoginRecorder interface {
	LoginAttempt(result string)
}

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc  service.AuthService
	recorder LoginRecorder
	logger   *zap.Logger
}

// NewAuthHandler 创建 AuthHandler，recorder 可为 nil
func NewAuthHandler(authSvc service.AuthService, recorder LoginRecorder, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, recorder: recorder, logger: logger}
}

// Login 用户登录
// POST /api/user/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParam(c, err)
		return
	}
	h.login(c, &req)
}

// LoginFromPath 兼容旧客户端，凭据放在路径中
// GET /api/user/getlogininfo/:email/:password
func (h *AuthHandler) LoginFromPath(c *gin.Context) {
	req := dto.LoginRequest{
		Email:    c.Param("email"),
		Password: c.Param("password"),
	}
	if req.Email == "" || req.Password == "" {
		response.BadRequest(c, response.CodeInvalidParam, "参数校验失败")
		return
	}
	h.login(c, &req)
}

// Logout 用户登出
// POST /api/user/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	jti, exp, ok := MustGetToken(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), userID, jti, exp); err != nil {
		response.InternalError(c)
		return
	}

	response.Message(c, "已退出登录")
}

// Me 当前登录用户
// GET /api/user/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	info, err := h.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, info)
}

// History 当前用户的登录历史
// GET /api/user/loginhistory?limit=20
func (h *AuthHandler) History(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 100 {
			response.BadRequest(c, response.CodeInvalidParam, "limit 取值范围 0-100")
			return
		}
		limit = n
	}

	rows, err := h.authSvc.History(c.Request.Context(), userID, limit)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, gin.H{"list": rows})
}

func (h *AuthHandler) login(c *gin.Context, req *dto.LoginRequest) {
	meta := dto.LoginMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	result, err := h.authSvc.Login(c.Request.Context(), req, meta)
	h.recordLogin(err)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *AuthHandler) recordLogin(err error) {
	if h.recorder == nil {
		return
	}
	switch {
	case err == nil:
		h.recorder.LoginAttempt(metrics.LoginSuccess)
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUserNotFound):
		h.recorder.LoginAttempt(metrics.LoginFailed)
	case errors.Is(err, service.ErrUserLockedOut):
		h.recorder.LoginAttempt(metrics.LoginLocked)
	default:
		h.recorder.LoginAttempt(metrics.LoginError)
	}
}

// handleAuthError 统一处理认证模块业务错误
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 11001, "邮箱或密码错误")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11002, "用户不存在")
	case errors.Is(err, service.ErrUserLockedOut):
		response.Error(c, http.StatusLocked, 11003, "登录失败次数过多，账号已被临时锁定")
	default:
		h.logger.Error("认证请求失败", zap.String("path", c.FullPath()), zap.Error(err))
		response.InternalError(c)
	}
}
