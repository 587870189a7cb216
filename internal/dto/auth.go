package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=100"`
}

// LoginMeta 登录请求来源信息，写入登录历史
type LoginMeta struct {
	IP        string
	UserAgent string
}
