package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/burbuqebeqiraj/PlusAPI/internal/model"
)

// SuperAdminEmail 内置超级管理员账号
const SuperAdminEmail = "superadmin@gmail.com"

// Seed 写入内置角色与超级管理员，已存在的记录跳过
func Seed(ctx context.Context, db *gorm.DB, seedPassword string, logger *zap.Logger) error {
	now := time.Now().UTC()
	db = db.WithContext(ctx)

	roles := []model.UserRole{
		{
			UserRoleID:      model.RoleIDSuperAdmin,
			RoleName:        "SuperAdmin",
			DisplayName:     "Super Admin",
			RoleDesc:        "Application SuperAdmin",
			IsMigrationData: true,
			AuditModel:      model.AuditModel{DateAdded: now},
		},
		{
			UserRoleID:      model.RoleIDAdmin,
			RoleName:        "Admin",
			DisplayName:     "Admin",
			RoleDesc:        "All Users",
			IsMigrationData: true,
			AuditModel:      model.AuditModel{DateAdded: now},
		},
	}

	for i := range roles {
		created, err := createIfMissing(db, &roles[i], "user_role_id", roles[i].UserRoleID)
		if err != nil {
			return fmt.Errorf("写入内置角色失败: %w", err)
		}
		if created {
			logger.Info("已写入内置角色", zap.String("role", roles[i].RoleName))
		}
	}

	var n int64
	if err := db.Model(&model.User{}).Where("user_id = ?", 1).Count(&n).Error; err != nil {
		return fmt.Errorf("查询超级管理员失败: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("密码哈希失败: %w", err)
	}
	pwd := string(hash)

	admin := model.User{
		UserID:          1,
		UserRoleID:      model.RoleIDSuperAdmin,
		FullName:        "Super Admin",
		Email:           SuperAdminEmail,
		Password:        &pwd,
		IsActive:        true,
		IsMigrationData: true,
		AuditModel:      model.AuditModel{DateAdded: now},
	}
	if err := db.Omit(clause.Associations).Create(&admin).Error; err != nil {
		return fmt.Errorf("写入超级管理员失败: %w", err)
	}
	logger.Info("已写入超级管理员", zap.String("email", SuperAdminEmail))

	return nil
}

func createIfMissing[T any](db *gorm.DB, row *T, pk string, id int) (bool, error) {
	var existing T
	err := db.Where(pk+" = ?", id).Take(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := db.Omit(clause.Associations).Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}
