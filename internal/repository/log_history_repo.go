package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/burbuqebeqiraj/PlusAPI/internal/model"
	pkgerrors "github.com/burbuqebeqiraj/PlusAPI/pkg/errors"
)

// LogHistoryRepository 登录历史数据访问接口
type LogHistoryRepository interface {
	Store[model.LogHistory]
	MarkLogout(ctx context.Context, logCode string, at time.Time) (bool, error)
	ListByUser(ctx context.Context, userID, limit int) ([]model.LogHistory, error)
	DeleteByUser(ctx context.Context, userID int) error
}

type logHistoryRepo struct {
	Store[model.LogHistory]
	db *gorm.DB
}

// NewLogHistoryRepo 创建 LogHistoryRepository 实例
func NewLogHistoryRepo(db *gorm.DB) LogHistoryRepository {
	return &logHistoryRepo{
		Store: NewStore[model.LogHistory](db, "log_history_id"),
		db:    db,
	}
}

// MarkLogout 写入登出时间，已登出的记录不重复写入
func (r *logHistoryRepo) MarkLogout(ctx context.Context, logCode string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.LogHistory{}).
		Where("log_code = ? AND log_out_time IS NULL", logCode).
		Update("log_out_time", at)
	if res.Error != nil {
		return false, pkgerrors.Wrap("mark_logout", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *logHistoryRepo) ListByUser(ctx context.Context, userID, limit int) ([]model.LogHistory, error) {
	return r.SelectAllByClause(ctx,
		Where("user_id = ?", userID),
		Order("log_in_time DESC, log_history_id DESC"),
		Limit(limit),
	)
}

func (r *logHistoryRepo) DeleteByUser(ctx context.Context, userID int) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.LogHistory{}).Error
	return pkgerrors.Wrap("delete_log_history", err)
}
