package dto

// CreatedResponse 创建成功响应，只返回新记录 ID
type CreatedResponse struct {
	ID int `json:"id"`
}

// ── 认证模块响应 ──

// LoginResponse 登录成功响应
type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresIn int      `json:"expiresIn"` // Token 有效期（秒）
	User      UserInfo `json:"user"`
}

// UserInfo 登录用户信息（脱敏）
type UserInfo struct {
	UserID      int     `json:"userId"`
	UserRoleID  int     `json:"userRoleId"`
	RoleName    string  `json:"roleName"`
	DisplayName string  `json:"displayName"`
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	Mobile      *string `json:"mobile,omitempty"`
	Address     *string `json:"address,omitempty"`
}

// LoginHistoryResponse 登录历史
type LoginHistoryResponse struct {
	LogCode        string  `json:"logCode"`
	LogInTime      string  `json:"logInTime"`
	LogOutTime     *string `json:"logOutTime,omitempty"`
	IP             string  `json:"ip"`
	Browser        string  `json:"browser"`
	BrowserVersion string  `json:"browserVersion"`
	Platform       string  `json:"platform"`
}

// ── 角色模块响应 ──

// UserRoleResponse 角色信息
type UserRoleResponse struct {
	UserRoleID      int     `json:"userRoleId"`
	RoleName        string  `json:"roleName"`
	DisplayName     string  `json:"displayName"`
	RoleDesc        string  `json:"roleDesc"`
	IsMigrationData bool    `json:"isMigrationData"`
	DateAdded       string  `json:"dateAdded"`
	LastUpdatedDate *string `json:"lastUpdatedDate,omitempty"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息（不含密码）
type UserResponse struct {
	UserID          int     `json:"userId"`
	UserRoleID      int     `json:"userRoleId"`
	RoleName        string  `json:"roleName,omitempty"`
	RoleDisplayName string  `json:"roleDisplayName,omitempty"`
	DepartmentID    *int    `json:"departmentId,omitempty"`
	DepartmentName  string  `json:"departmentName,omitempty"`
	FullName        string  `json:"fullName"`
	Email           string  `json:"email"`
	Mobile          *string `json:"mobile,omitempty"`
	Address         *string `json:"address,omitempty"`
	IsActive        bool    `json:"isActive"`
	IsMigrationData bool    `json:"isMigrationData"`
	DateAdded       string  `json:"dateAdded"`
	LastUpdatedDate *string `json:"lastUpdatedDate,omitempty"`
}

// ── 部门模块响应 ──

// DepartmentResponse 部门信息
type DepartmentResponse struct {
	DepartmentID    int     `json:"departmentId"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	IsActive        bool    `json:"isActive"`
	IsMigrationData bool    `json:"isMigrationData"`
	MemberCount     int64   `json:"memberCount"`
	DateAdded       string  `json:"dateAdded"`
	LastUpdatedDate *string `json:"lastUpdatedDate,omitempty"`
}
