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

// DepartmentService 部门业务接口
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest, callerID int) (int, error)
	List(ctx context.Context, req *dto.DepartmentListRequest) ([]dto.DepartmentResponse, error)
	GetByID(ctx context.Context, id int) (*dto.DepartmentResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdateDepartmentRequest, callerID int) (*dto.DepartmentResponse, error)
	Delete(ctx context.Context, id int, callerID int) error
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest, callerID int) (int, error) {
	exists, err := s.repo.Department.NameExists(ctx, req.Name, 0)
	if err != nil {
		s.logger.Error("查询部门失败", zap.Error(err))
		return 0, err
	}
	if exists {
		return 0, ErrDepartmentNameExists
	}

	dept := &model.Department{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	dept.StampCreate(callerRef(callerID), now())

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		_, err := tx.Department.Insert(ctx, dept)
		return err
	})
	if err != nil {
		if pkgerrors.IsDuplicate(err) {
			return 0, ErrDepartmentNameExists
		}
		s.logger.Error("创建部门失败", zap.String("name", req.Name), zap.Error(err))
		return 0, err
	}

	s.logger.Info("部门已创建", zap.Int("id", dept.DepartmentID), zap.Int("caller", callerID))
	return dept.DepartmentID, nil
}

// List 默认只返回启用部门，附带成员数
func (s *departmentService) List(ctx context.Context, req *dto.DepartmentListRequest) ([]dto.DepartmentResponse, error) {
	var (
		depts []model.Department
		err   error
	)
	if req != nil && req.IncludeInactive {
		depts, err = s.repo.Department.SelectAllByClause(ctx, repository.Order("name ASC"))
	} else {
		depts, err = s.repo.Department.ListActive(ctx)
	}
	if err != nil {
		s.logger.Error("列出部门失败", zap.Error(err))
		return nil, err
	}

	counts, err := s.repo.User.CountGroupByDepartment(ctx)
	if err != nil {
		s.logger.Error("统计部门成员失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		resp := toDepartmentResponse(&depts[i])
		resp.MemberCount = counts[depts[i].DepartmentID]
		result = append(result, *resp)
	}
	return result, nil
}

func (s *departmentService) GetByID(ctx context.Context, id int) (*dto.DepartmentResponse, error) {
	dept, err := s.repo.Department.SelectByID(ctx, id)
	if err != nil {
		s.logger.Error("查询部门失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	if dept == nil {
		return nil, ErrDepartmentNotFound
	}

	count, err := s.repo.User.CountByDepartment(ctx, id)
	if err != nil {
		s.logger.Error("统计部门成员失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}

	resp := toDepartmentResponse(dept)
	resp.MemberCount = count
	return resp, nil
}

func (s *departmentService) Update(ctx context.Context, id int, req *dto.UpdateDepartmentRequest, callerID int) (*dto.DepartmentResponse, error) {
	if req.DepartmentID != 0 && req.DepartmentID != id {
		return nil, ErrIDMismatch
	}

	dept, err := s.repo.Department.SelectByID(ctx, id)
	if err != nil {
		s.logger.Error("查询部门失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	if dept == nil {
		return nil, ErrDepartmentNotFound
	}

	exists, err := s.repo.Department.NameExists(ctx, req.Name, id)
	if err != nil {
		s.logger.Error("查询部门失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrDepartmentNameExists
	}

	dept.Name = req.Name
	dept.Description = req.Description
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}
	dept.StampUpdate(callerRef(callerID), now())

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		updated, err := tx.Department.Update(ctx, dept)
		if err == nil && updated == nil {
			return ErrDepartmentNotFound
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrDepartmentNotFound) {
			return nil, err
		}
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrDepartmentNameExists
		}
		s.logger.Error("更新部门失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Delete 存在成员的部门不可删除
func (s *departmentService) Delete(ctx context.Context, id int, callerID int) error {
	dept, err := s.repo.Department.SelectByID(ctx, id)
	if err != nil {
		s.logger.Error("查询部门失败", zap.Int("id", id), zap.Error(err))
		return err
	}
	if dept == nil {
		return ErrDepartmentNotFound
	}
	if dept.IsMigrationData {
		return ErrDepartmentRestricted
	}

	members, err := s.repo.User.CountByDepartment(ctx, id)
	if err != nil {
		s.logger.Error("统计部门成员失败", zap.Int("id", id), zap.Error(err))
		return err
	}
	if members > 0 {
		return ErrDepartmentHasMembers
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		deleted, err := tx.Department.Delete(ctx, id)
		if err != nil {
			return err
		}
		if deleted == nil {
			return ErrDepartmentNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrDepartmentNotFound) {
			s.logger.Error("删除部门失败", zap.Int("id", id), zap.Error(err))
		}
		return err
	}

	s.logger.Info("部门已删除", zap.Int("id", id), zap.Int("caller", callerID))
	return nil
}

func toDepartmentResponse(dept *model.Department) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{
		DepartmentID:    dept.DepartmentID,
		Name:            dept.Name,
		Description:     dept.Description,
		IsActive:        dept.IsActive,
		IsMigrationData: dept.IsMigrationData,
		DateAdded:       formatTime(dept.DateAdded),
		LastUpdatedDate: formatTimePtr(dept.LastUpdatedDate),
	}
}
