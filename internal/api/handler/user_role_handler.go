package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/burbuqebeqiraj/PlusAPI/internal/dto"
	"github.com/burbuqebeqiraj/PlusAPI/internal/service"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/response"
)

// UserRoleHandler 角色模块 HTTP 处理器
type UserRoleHandler struct {
	roleSvc service.UserRoleService
}

// NewUserRoleHandler 创建 UserRoleHandler
func NewUserRoleHandler(roleSvc service.UserRoleService) *UserRoleHandler {
	return &UserRoleHandler{roleSvc: roleSvc}
}

// CreateRole 创建角色
// POST /api/user/createuserrole
func (h *UserRoleHandler) CreateRole(c *gin.Context) {
	var req dto.CreateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParam(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id, err := h.roleSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.Created(c, dto.CreatedResponse{ID: id})
}

// ListRoles 角色列表
// GET /api/user/getallroles
func (h *UserRoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, roles)
}

// GetRole 角色详情
// GET /api/user/getrolebyid/:id
func (h *UserRoleHandler) GetRole(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	role, err := h.roleSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, role)
}

// UpdateRole 更新角色
// PUT /api/user/updateuserrole/:id
func (h *UserRoleHandler) UpdateRole(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParam(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	role, err := h.roleSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, role)
}

// DeleteRole 删除角色
// DELETE /api/user/deleterole/:id
func (h *UserRoleHandler) DeleteRole(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.roleSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.Message(c, "角色已删除")
}

// handleRoleError 统一处理角色模块业务错误
func (h *UserRoleHandler) handleRoleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoleNotFound):
		response.NotFound(c, 12001, "角色不存在")
	case errors.Is(err, service.ErrRoleNameExists):
		response.Duplicate(c, 12002, "角色名称已存在")
	case errors.Is(err, service.ErrRoleRestricted):
		response.Restricted(c, http.StatusAccepted, 12003, "内置角色不可删除")
	case errors.Is(err, service.ErrRoleInUse):
		response.Conflict(c, 12004, "角色下存在用户，无法删除")
	case errors.Is(err, service.ErrIDMismatch):
		response.BadRequest(c, 12005, "请求体 ID 与路径 ID 不一致")
	default:
		response.InternalError(c)
	}
}
