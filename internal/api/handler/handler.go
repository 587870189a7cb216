package handler

import (
	"go.uber.org/zap"

	"github.com/burbuqebeqiraj/PlusAPI/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	UserRole   *UserRoleHandler
	User       *UserHandler
	Department *DepartmentHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, recorder LoginRecorder, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, recorder, logger),
		UserRole:   NewUserRoleHandler(svc.UserRole),
		User:       NewUserHandler(svc.User),
		Department: NewDepartmentHandler(svc.Department),
	}
}
