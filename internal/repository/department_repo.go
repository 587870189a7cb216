package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/burbuqebeqiraj/PlusAPI/internal/model"
)

// DepartmentRepository 部门数据访问接口
type DepartmentRepository interface {
	Store[model.Department]
	NameExists(ctx context.Context, name string, excludeID int) (bool, error)
	ListActive(ctx context.Context) ([]model.Department, error)
}

// departmentRepo DepartmentRepository 的 GORM 实现
type departmentRepo struct {
	Store[model.Department]
}

// NewDepartmentRepo 创建 DepartmentRepository 实例
func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{Store: NewStore[model.Department](db, "department_id")}
}

func (r *departmentRepo) NameExists(ctx context.Context, name string, excludeID int) (bool, error) {
	n, err := r.Count(ctx,
		Where("LOWER(name) = LOWER(?)", name),
		Where("department_id <> ?", excludeID),
	)
	return n > 0, err
}

func (r *departmentRepo) ListActive(ctx context.Context) ([]model.Department, error) {
	return r.SelectAllByClause(ctx,
		Where("is_active = ?", true),
		Order("name ASC"),
	)
}
