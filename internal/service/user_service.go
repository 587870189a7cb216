package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/burbuqebeqiraj/PlusAPI/internal/dto"
	"github.com/burbuqebeqiraj/PlusAPI/internal/model"
	"github.com/burbuqebeqiraj/PlusAPI/internal/repository"
	pkgerrors "github.com/burbuqebeqiraj/PlusAPI/pkg/errors"
)

// UserService 用户管理业务接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest, callerID int) (int, error)
	List(ctx context.Context) ([]dto.UserResponse, error)
	GetByID(ctx context.Context, id int) (*dto.UserResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdateUserRequest, callerID int) (*dto.UserResponse, error)
	Delete(ctx context.Context, id int, callerID int) error
	// ChangePassword 本人或内置角色可修改
	ChangePassword(ctx context.Context, req *dto.ChangePasswordRequest, callerID, callerRoleID int) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, callerID int) (int, error) {
	exists, err := s.repo.User.EmailExists(ctx, req.Email, 0)
	if err != nil {
		s.logger.Error("查询用户邮箱失败", zap.Error(err))
		return 0, err
	}
	if exists {
		return 0, ErrEmailExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return 0, err
	}

	if err := s.checkReferences(ctx, req.UserRoleID, req.DepartmentID); err != nil {
		return 0, err
	}

	user := &model.User{
		UserRoleID:   req.UserRoleID,
		DepartmentID: req.DepartmentID,
		FullName:     req.FullName,
		Email:        req.Email,
		Password:     &hash,
		Mobile:       req.Mobile,
		Address:      req.Address,
		IsActive:     true,
	}
	user.StampCreate(callerRef(callerID), now())

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		_, err := tx.User.Insert(ctx, user)
		return err
	})
	if err != nil {
		if pkgerrors.IsDuplicate(err) {
			return 0, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return 0, err
	}

	s.logger.Info("用户已创建", zap.Int("id", user.UserID), zap.Int("caller", callerID))
	return user.UserID, nil
}

// ────────────────────── Read ──────────────────────

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.ListWithRelations(ctx)
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, nil
}

func (s *userService) GetByID(ctx context.Context, id int) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetWithRelations(ctx, id)
	if err != nil {
		s.logger.Error("查询用户失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id int, req *dto.UpdateUserRequest, callerID int) (*dto.UserResponse, error) {
	if req.UserID != 0 && req.UserID != id {
		return nil, ErrIDMismatch
	}

	user, err := s.repo.User.SelectByID(ctx, id)
	if err != nil {
		s.logger.Error("查询用户失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	exists, err := s.repo.User.EmailExists(ctx, req.Email, id)
	if err != nil {
		s.logger.Error("查询用户邮箱失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	// 仅在提供新密码时重新哈希
	if req.Password != nil && *req.Password != "" {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = &hash
	}

	if err := s.checkReferences(ctx, req.UserRoleID, req.DepartmentID); err != nil {
		return nil, err
	}

	user.UserRoleID = req.UserRoleID
	user.DepartmentID = req.DepartmentID
	user.FullName = req.FullName
	user.Email = req.Email
	user.Mobile = req.Mobile
	user.Address = req.Address
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.StampUpdate(callerRef(callerID), now())

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		updated, err := tx.User.Update(ctx, user)
		if err == nil && updated == nil {
			return ErrUserNotFound
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrEmailExists
		}
		s.logger.Error("更新用户失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id int, callerID int) error {
	user, err := s.repo.User.SelectByID(ctx, id)
	if err != nil {
		s.logger.Error("查询用户失败", zap.Int("id", id), zap.Error(err))
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.IsMigrationData {
		return ErrUserRestricted
	}

	// 登录历史与用户一并删除
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.LogHistory.DeleteByUser(ctx, id); err != nil {
			return err
		}
		deleted, err := tx.User.Delete(ctx, id)
		if err != nil {
			return err
		}
		if deleted == nil {
			return ErrUserNotFound
		}
		return nil
	})
	if errors.Is(err, ErrUserNotFound) {
		return err
	}
	if err != nil {
		s.logger.Error("删除用户失败", zap.Int("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("用户已删除", zap.Int("id", id), zap.Int("caller", callerID))
	return nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *userService) ChangePassword(ctx context.Context, req *dto.ChangePasswordRequest, callerID, callerRoleID int) error {
	if req.UserID != callerID && !model.IsSystemRole(callerRoleID) {
		return ErrNoPermission
	}

	user, err := s.repo.User.SelectByID(ctx, req.UserID)
	if err != nil {
		s.logger.Error("查询用户失败", zap.Int("id", req.UserID), zap.Error(err))
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	user.Password = &hash
	user.FailedLoginAttempts = 0
	user.IsLockedOut = false
	user.LockoutEndTime = nil
	user.StampUpdate(callerRef(callerID), now())

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		updated, err := tx.User.Update(ctx, user)
		if err == nil && updated == nil {
			return ErrUserNotFound
		}
		return err
	})
	if errors.Is(err, ErrUserNotFound) {
		return err
	}
	if err != nil {
		s.logger.Error("修改密码失败", zap.Int("id", req.UserID), zap.Error(err))
		return err
	}

	s.logger.Info("密码已修改", zap.Int("id", req.UserID), zap.Int("caller", callerID))
	return nil
}

// ── 内部辅助方法 ──

// checkReferences 校验角色与部门存在
func (s *userService) checkReferences(ctx context.Context, roleID int, departmentID *int) error {
	role, err := s.repo.UserRole.SelectByID(ctx, roleID)
	if err != nil {
		s.logger.Error("查询角色失败", zap.Int("role_id", roleID), zap.Error(err))
		return err
	}
	if role == nil {
		return ErrRoleNotFound
	}

	if departmentID == nil {
		return nil
	}
	dept, err := s.repo.Department.SelectByID(ctx, *departmentID)
	if err != nil {
		s.logger.Error("查询部门失败", zap.Int("department_id", *departmentID), zap.Error(err))
		return err
	}
	if dept == nil {
		return ErrDepartmentNotFound
	}
	return nil
}

// toUserResponse 将 model.User 转换为 dto.UserResponse，不含密码
func toUserResponse(user *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		UserID:          user.UserID,
		UserRoleID:      user.UserRoleID,
		DepartmentID:    user.DepartmentID,
		FullName:        user.FullName,
		Email:           user.Email,
		Mobile:          user.Mobile,
		Address:         user.Address,
		IsActive:        user.IsActive,
		IsMigrationData: user.IsMigrationData,
		DateAdded:       formatTime(user.DateAdded),
		LastUpdatedDate: formatTimePtr(user.LastUpdatedDate),
	}
	if user.UserRole != nil {
		resp.RoleName = user.UserRole.RoleName
		resp.RoleDisplayName = user.UserRole.DisplayName
	}
	if user.Department != nil {
		resp.DepartmentName = user.Department.Name
	}
	return resp
}
