package model

import "time"

// 系统内置角色，不可删除，仅允许修改显示名与描述
const (
	RoleIDSuperAdmin = 1
	RoleIDAdmin      = 2
)

// IsSystemRole 判断是否为内置角色
func IsSystemRole(id int) bool {
	return id == RoleIDSuperAdmin || id == RoleIDAdmin
}

// AuditModel 通用审计字段（所有业务模型嵌入）
// AddedBy / LastUpdatedBy 记录操作人的用户 ID
type AuditModel struct {
	AddedBy         *int       `gorm:"column:added_by"                             json:"addedBy,omitempty"`
	DateAdded       time.Time  `gorm:"column:date_added;not null"                  json:"dateAdded"`
	LastUpdatedDate *time.Time `gorm:"column:last_updated_date"                    json:"lastUpdatedDate,omitempty"`
	LastUpdatedBy   *int       `gorm:"column:last_updated_by"                      json:"lastUpdatedBy,omitempty"`
}

// StampCreate 写入创建审计信息
func (a *AuditModel) StampCreate(by *int, now time.Time) {
	a.AddedBy = by
	a.DateAdded = now
}

// StampUpdate 写入更新审计信息
func (a *AuditModel) StampUpdate(by *int, now time.Time) {
	a.LastUpdatedBy = by
	a.LastUpdatedDate = &now
}
