package model

import "time"

// User 用户表，对应 users
type User struct {
	UserID              int        `gorm:"column:user_id;primaryKey;autoIncrement"            json:"userId"`
	UserRoleID          int        `gorm:"column:user_role_id;not null;index"                 json:"userRoleId"`
	DepartmentID        *int       `gorm:"column:department_id;index"                         json:"departmentId,omitempty"`
	FullName            string     `gorm:"type:varchar(100);not null"                         json:"fullName"`
	Email               string     `gorm:"type:varchar(100);not null;uniqueIndex:uq_users_email" json:"email"`
	Password            *string    `gorm:"type:varchar(100)"                                  json:"-"`
	Mobile              *string    `gorm:"type:varchar(100)"                                  json:"mobile,omitempty"`
	Address             *string    `gorm:"type:text"                                          json:"address,omitempty"`
	IsActive            bool       `gorm:"not null"                                           json:"isActive"`
	IsMigrationData     bool       `gorm:"not null;default:false"                             json:"isMigrationData"`
	FailedLoginAttempts int        `gorm:"not null;default:0"                                 json:"-"`
	IsLockedOut         bool       `gorm:"not null;default:false"                             json:"-"`
	LockoutEndTime      *time.Time `gorm:"column:lockout_end_time"                            json:"-"`
	AuditModel

	// 关联（仅用于 Joins / Preload；外键约束由 UserRole.Users、Department.Users 声明）
	UserRole   *UserRole   `gorm:"foreignKey:UserRoleID;references:UserRoleID;constraint:-"     json:"userRole,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID;constraint:-" json:"department,omitempty"`

	LogHistories []LogHistory `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsLocked 判断账号在 now 时刻是否处于锁定期
func (u *User) IsLocked(now time.Time) bool {
	return u.IsLockedOut && u.LockoutEndTime != nil && now.Before(*u.LockoutEndTime)
}
