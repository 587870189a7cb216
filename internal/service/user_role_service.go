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

// UserRoleService 角色业务接口
type UserRoleService interface {
	Create(ctx context.Context, req *dto.CreateUserRoleRequest, callerID int) (int, error)
	List(ctx context.Context) ([]dto.UserRoleResponse, error)
	GetByID(ctx context.Context, id int) (*dto.UserRoleResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdateUserRoleRequest, callerID int) (*dto.UserRoleResponse, error)
	Delete(ctx context.Context, id int, callerID int) error
}

type userRoleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserRoleService 创建 UserRoleService 实例
func NewUserRoleService(repo *repository.Repository, logger *zap.Logger) UserRoleService {
	return &userRoleService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userRoleService) Create(ctx context.Context, req *dto.CreateUserRoleRequest, callerID int) (int, error) {
	exists, err := s.roleNameExists(ctx, req.RoleName, 0)
	if err != nil {
		s.logger.Error("查询角色失败", zap.Error(err))
		return 0, err
	}
	if exists {
		return 0, ErrRoleNameExists
	}

	role := &model.UserRole{
		RoleName:    req.RoleName,
		DisplayName: req.DisplayName,
		RoleDesc:    req.RoleDesc,
	}
	role.StampCreate(callerRef(callerID), now())

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		_, err := tx.UserRole.Insert(ctx, role)
		return err
	})
	if err != nil {
		// 并发创建时由唯一索引兜底
		if pkgerrors.IsDuplicate(err) {
			return 0, ErrRoleNameExists
		}
		s.logger.Error("创建角色失败", zap.String("role_name", req.RoleName), zap.Error(err))
		return 0, err
	}

	s.logger.Info("角色已创建", zap.Int("id", role.UserRoleID), zap.Int("caller", callerID))
	return role.UserRoleID, nil
}

// ────────────────────── Read ──────────────────────

func (s *userRoleService) List(ctx context.Context) ([]dto.UserRoleResponse, error) {
	roles, err := s.repo.UserRole.SelectAllByClause(ctx, repository.Order("user_role_id ASC"))
	if err != nil {
		s.logger.Error("列出角色失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserRoleResponse, 0, len(roles))
	for i := range roles {
		result = append(result, *toUserRoleResponse(&roles[i]))
	}
	return result, nil
}

func (s *userRoleService) GetByID(ctx context.Context, id int) (*dto.UserRoleResponse, error) {
	role, err := s.repo.UserRole.SelectByID(ctx, id)
	if err != nil {
		s.logger.Error("查询角色失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	return toUserRoleResponse(role), nil
}

// ────────────────────── Update ──────────────────────

func (s *userRoleService) Update(ctx context.Context, id int, req *dto.UpdateUserRoleRequest, callerID int) (*dto.UserRoleResponse, error) {
	if req.UserRoleID != 0 && req.UserRoleID != id {
		return nil, ErrIDMismatch
	}

	role, err := s.repo.UserRole.SelectByID(ctx, id)
	if err != nil {
		s.logger.Error("查询角色失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}

	// 内置角色只允许修改显示名与描述
	if !model.IsSystemRole(role.UserRoleID) {
		exists, err := s.roleNameExists(ctx, req.RoleName, id)
		if err != nil {
			s.logger.Error("查询角色失败", zap.Error(err))
			return nil, err
		}
		if exists {
			return nil, ErrRoleNameExists
		}
		role.RoleName = req.RoleName
	}
	role.DisplayName = req.DisplayName
	role.RoleDesc = req.RoleDesc
	role.StampUpdate(callerRef(callerID), now())

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		updated, err := tx.UserRole.Update(ctx, role)
		if err == nil && updated == nil {
			return ErrRoleNotFound
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return nil, err
		}
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrRoleNameExists
		}
		s.logger.Error("更新角色失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}

	return toUserRoleResponse(role), nil
}

// ────────────────────── Delete ──────────────────────

func (s *userRoleService) Delete(ctx context.Context, id int, callerID int) error {
	role, err := s.repo.UserRole.SelectByID(ctx, id)
	if err != nil {
		s.logger.Error("查询角色失败", zap.Int("id", id), zap.Error(err))
		return err
	}
	if role == nil {
		return ErrRoleNotFound
	}

	if model.IsSystemRole(role.UserRoleID) || role.IsMigrationData {
		return ErrRoleRestricted
	}

	inUse, err := s.repo.User.CountByRole(ctx, id)
	if err != nil {
		s.logger.Error("统计角色用户数失败", zap.Int("id", id), zap.Error(err))
		return err
	}
	if inUse > 0 {
		return ErrRoleInUse
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		deleted, err := tx.UserRole.Delete(ctx, id)
		if err != nil {
			return err
		}
		if deleted == nil {
			return ErrRoleNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return err
		}
		s.logger.Error("删除角色失败", zap.Int("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("角色已删除", zap.Int("id", id), zap.Int("caller", callerID))
	return nil
}

// ── 内部辅助方法 ──

func (s *userRoleService) roleNameExists(ctx context.Context, name string, excludeID int) (bool, error) {
	n, err := s.repo.UserRole.Count(ctx,
		repository.Where("LOWER(role_name) = LOWER(?)", name),
		repository.Where("user_role_id <> ?", excludeID),
	)
	return n > 0, err
}

func toUserRoleResponse(role *model.UserRole) *dto.UserRoleResponse {
	return &dto.UserRoleResponse{
		UserRoleID:      role.UserRoleID,
		RoleName:        role.RoleName,
		DisplayName:     role.DisplayName,
		RoleDesc:        role.RoleDesc,
		IsMigrationData: role.IsMigrationData,
		DateAdded:       formatTime(role.DateAdded),
		LastUpdatedDate: formatTimePtr(role.LastUpdatedDate),
	}
}
