package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	UserRoleID   int     `json:"userRoleId"   binding:"required,min=1"`
	DepartmentID *int    `json:"departmentId" binding:"omitempty,min=1"`
	FullName     string  `json:"fullName"     binding:"required,max=100"`
	Email        string  `json:"email"        binding:"required,email,max=100"`
	Password     string  `json:"password"     binding:"required,max=100"`
	Mobile       *string `json:"mobile"       binding:"omitempty,max=100"`
	Address      *string `json:"address"`
}

// UpdateUserRequest 更新用户请求
// Password 为空时保留原密码；UserID 可省略，填写时必须与路径 ID 一致
type UpdateUserRequest struct {
	UserID       int     `json:"userId"`
	UserRoleID   int     `json:"userRoleId"   binding:"required,min=1"`
	DepartmentID *int    `json:"departmentId" binding:"omitempty,min=1"`
	FullName     string  `json:"fullName"     binding:"required,max=100"`
	Email        string  `json:"email"        binding:"required,email,max=100"`
	Password     *string `json:"password"     binding:"omitempty,max=100"`
	Mobile       *string `json:"mobile"       binding:"omitempty,max=100"`
	Address      *string `json:"address"`
	IsActive     *bool   `json:"isActive"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	UserID      int    `json:"userId"      binding:"required,min=1"`
	NewPassword string `json:"newPassword" binding:"required,max=100"`
}
