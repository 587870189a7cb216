package model

// UserRole 角色表，对应 user_roles
type UserRole struct {
	UserRoleID      int    `gorm:"column:user_role_id;primaryKey;autoIncrement"           json:"userRoleId"`
	RoleName        string `gorm:"type:varchar(100);not null;uniqueIndex:uq_user_roles_name" json:"roleName"`
	DisplayName     string `gorm:"type:varchar(100);not null"                             json:"displayName"`
	RoleDesc        string `gorm:"type:varchar(500)"                                      json:"roleDesc"`
	IsMigrationData bool   `gorm:"not null;default:false"                                 json:"isMigrationData"`
	AuditModel

	// users.user_role_id 外键，仍有用户引用时禁止删除
	Users []User `gorm:"foreignKey:UserRoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// TableName 指定表名
func (UserRole) TableName() string { return "user_roles" }
