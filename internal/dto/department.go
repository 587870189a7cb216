package dto

// ── 部门模块 DTO ──

// CreateDepartmentRequest 创建部门请求
type CreateDepartmentRequest struct {
	Name        string  `json:"name"        binding:"required,max=100"`
	Description *string `json:"description" binding:"omitempty,max=100"`
}

// UpdateDepartmentRequest 更新部门请求
type UpdateDepartmentRequest struct {
	DepartmentID int     `json:"departmentId"`
	Name         string  `json:"name"        binding:"required,max=100"`
	Description  *string `json:"description" binding:"omitempty,max=100"`
	IsActive     *bool   `json:"isActive"`
}

// DepartmentListRequest 部门列表查询参数
type DepartmentListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}
