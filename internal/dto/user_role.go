package dto

// ── 角色模块 DTO ──

// CreateUserRoleRequest 创建角色请求
type CreateUserRoleRequest struct {
	RoleName    string `json:"roleName"    binding:"required,max=100"`
	DisplayName string `json:"displayName" binding:"required,max=100"`
	RoleDesc    string `json:"roleDesc"    binding:"max=500"`
}

// UpdateUserRoleRequest 更新角色请求
// UserRoleID 可省略；填写时必须与路径 ID 一致
type UpdateUserRoleRequest struct {
	UserRoleID  int    `json:"userRoleId"`
	RoleName    string `json:"roleName"    binding:"required,max=100"`
	DisplayName string `json:"displayName" binding:"required,max=100"`
	RoleDesc    string `json:"roleDesc"    binding:"max=500"`
}
