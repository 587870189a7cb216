package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/burbuqebeqiraj/PlusAPI/internal/model"
	pkgerrors "github.com/burbuqebeqiraj/PlusAPI/pkg/errors"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Store[model.User]
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string, excludeID int) (bool, error)
	ListWithRelations(ctx context.Context) ([]model.User, error)
	GetWithRelations(ctx context.Context, id int) (*model.User, error)
	CountByRole(ctx context.Context, roleID int) (int64, error)
	CountByDepartment(ctx context.Context, departmentID int) (int64, error)
	CountGroupByDepartment(ctx context.Context) (map[int]int64, error)
	UpdateLoginState(ctx context.Context, id, failedAttempts int, lockedOut bool, lockoutEnd *time.Time) error
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	Store[model.User]
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{
		Store: NewStore[model.User](db, "user_id"),
		db:    db,
	}
}

// GetByEmail 邮箱查询，不区分大小写，附带角色信息
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.SelectSingle(ctx,
		Joins("UserRole"),
		Where("LOWER(users.email) = LOWER(?)", email),
	)
}

func (r *userRepo) EmailExists(ctx context.Context, email string, excludeID int) (bool, error) {
	n, err := r.Count(ctx,
		Where("LOWER(email) = LOWER(?)", email),
		Where("user_id <> ?", excludeID),
	)
	return n > 0, err
}

func (r *userRepo) ListWithRelations(ctx context.Context) ([]model.User, error) {
	return r.SelectAllByClause(ctx,
		Joins("UserRole"),
		Joins("Department"),
		Order("users.user_id ASC"),
	)
}

func (r *userRepo) GetWithRelations(ctx context.Context, id int) (*model.User, error) {
	return r.SelectByID(ctx, id, Joins("UserRole"), Joins("Department"))
}

func (r *userRepo) CountByRole(ctx context.Context, roleID int) (int64, error) {
	return r.Count(ctx, Where("user_role_id = ?", roleID))
}

func (r *userRepo) CountByDepartment(ctx context.Context, departmentID int) (int64, error) {
	return r.Count(ctx, Where("department_id = ?", departmentID))
}

// CountGroupByDepartment 批量统计各部门成员数，避免 N+1 查询
func (r *userRepo) CountGroupByDepartment(ctx context.Context) (map[int]int64, error) {
	var rows []struct {
		DepartmentID int
		Count        int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("department_id, COUNT(*) AS count").
		Where("department_id IS NOT NULL").
		Group("department_id").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap("count_group", err)
	}

	result := make(map[int]int64, len(rows))
	for _, row := range rows {
		result[row.DepartmentID] = row.Count
	}
	return result, nil
}

// UpdateLoginState 只更新登录失败计数与锁定状态，不触碰其他列
func (r *userRepo) UpdateLoginState(ctx context.Context, id, failedAttempts int, lockedOut bool, lockoutEnd *time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", id).
		Updates(map[string]interface{}{
			"failed_login_attempts": failedAttempts,
			"is_locked_out":         lockedOut,
			"lockout_end_time":      lockoutEnd,
		}).Error
	return pkgerrors.Wrap("update_login_state", err)
}
