package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/burbuqebeqiraj/PlusAPI/internal/dto"
	"github.com/burbuqebeqiraj/PlusAPI/internal/service"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// CreateUser 创建用户
// POST /api/user/createuser
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParam(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id, err := h.userSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Created(c, dto.CreatedResponse{ID: id})
}

// ListUsers 用户列表
// GET /api/user/getuserlist
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, users)
}

// GetUser 用户详情
// GET /api/user/getuserbyid/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// UpdateUser 更新用户
// PUT /api/user/updateuser/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParam(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// DeleteUser 删除用户
// DELETE /api/user/deleteuser/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Message(c, "用户已删除")
}

// ChangePassword 修改密码（本人或管理员）
// PUT /api/user/changeuserpassword
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParam(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	roleID, ok := MustGetRoleID(c)
	if !ok {
		return
	}

	if err := h.userSvc.ChangePassword(c.Request.Context(), &req, callerID, roleID); err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Message(c, "密码已修改")
}

// handleUserError 统一处理用户模块业务错误
func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 14001, "用户不存在")
	case errors.Is(err, service.ErrEmailExists):
		response.Duplicate(c, 14002, "邮箱已被使用")
	case errors.Is(err, service.ErrWeakPassword):
		response.BadRequest(c, 14003, service.ErrWeakPassword.Error())
	case errors.Is(err, service.ErrUserRestricted):
		response.Restricted(c, http.StatusConflict, 14004, "内置用户不可删除")
	case errors.Is(err, service.ErrRoleNotFound):
		response.BadRequest(c, 14005, "角色不存在")
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.BadRequest(c, 14006, "部门不存在")
	case errors.Is(err, service.ErrIDMismatch):
		response.BadRequest(c, 14007, "请求体 ID 与路径 ID 不一致")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 14008, "只能修改本人密码")
	default:
		response.InternalError(c)
	}
}
