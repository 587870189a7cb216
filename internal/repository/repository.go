package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/burbuqebeqiraj/PlusAPI/internal/model"
	pkgerrors "github.com/burbuqebeqiraj/PlusAPI/pkg/errors"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/trace"
)

// Repository 所有 Repository 的聚合入口
// 由根连接创建时为自动提交模式；WithTx 返回绑定到事务连接的副本
type Repository struct {
	db *gorm.DB

	UserRole   Store[model.UserRole]
	User       UserRepository
	Department DepartmentRepository
	LogHistory LogHistoryRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		UserRole:   NewStore[model.UserRole](db, "user_role_id"),
		User:       NewUserRepo(db),
		Department: NewDepartmentRepo(db),
		LogHistory: NewLogHistoryRepo(db),
	}
}

// BeginTx 开启事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回使用事务连接的 Repository
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在事务中执行 fn
// fn 返回 nil 时提交一次；返回错误或 panic 时回滚一次，panic 继续向上抛出
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	ctx, span := trace.Start(ctx, "db.transaction")
	defer span.End()

	tx, err := r.BeginTx(ctx)
	if err != nil {
		return pkgerrors.Wrap("begin", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(r.WithTx(tx)); err != nil {
		tx.Rollback()
		span.RecordError(err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return pkgerrors.Wrap("commit", err)
	}
	return nil
}
