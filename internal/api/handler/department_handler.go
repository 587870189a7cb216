package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/burbuqebeqiraj/PlusAPI/internal/dto"
	"github.com/burbuqebeqiraj/PlusAPI/internal/service"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/response"
)

// DepartmentHandler 部门模块 HTTP 处理器
type DepartmentHandler struct {
	deptSvc service.DepartmentService
}

// NewDepartmentHandler 创建 DepartmentHandler
func NewDepartmentHandler(deptSvc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc}
}

// ListDepartments 获取部门列表
// GET /api/department/getdepartmentlist?include_inactive=true
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	var req dto.DepartmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.InvalidParam(c, err)
		return
	}

	depts, err := h.deptSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": depts})
}

// GetDepartment 获取部门详情
// GET /api/department/getdepartmentbyid/:id
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	dept, err := h.deptSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.OK(c, dept)
}

// CreateDepartment 创建部门
// POST /api/department/createdepartment
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParam(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id, err := h.deptSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.Created(c, dto.CreatedResponse{ID: id})
}

// UpdateDepartment 更新部门
// PUT /api/department/updatedepartment/:id
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParam(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	dept, err := h.deptSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.OK(c, dept)
}

// DeleteDepartment 删除部门
// DELETE /api/department/deletedepartment/:id
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	id, ok := ParseIDParam(c)
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.deptSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.Message(c, "部门已删除")
}

// handleDepartmentError 统一处理部门模块业务错误
func (h *DepartmentHandler) handleDepartmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 13001, "部门不存在")
	case errors.Is(err, service.ErrDepartmentNameExists):
		response.Duplicate(c, 13002, "部门名称已存在")
	case errors.Is(err, service.ErrDepartmentHasMembers):
		response.Conflict(c, 13003, "部门下存在成员，无法删除")
	case errors.Is(err, service.ErrDepartmentRestricted):
		response.Restricted(c, http.StatusConflict, 13004, "内置部门不可删除")
	case errors.Is(err, service.ErrIDMismatch):
		response.BadRequest(c, 13005, "请求体 ID 与路径 ID 不一致")
	default:
		response.InternalError(c)
	}
}
