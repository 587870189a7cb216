package model

// Department 部门表，对应 departments
type Department struct {
	DepartmentID    int     `gorm:"column:department_id;primaryKey;autoIncrement"           json:"departmentId"`
	Name            string  `gorm:"type:varchar(100);not null;uniqueIndex:uq_departments_name" json:"name"`
	Description     *string `gorm:"type:varchar(100)"                                       json:"description,omitempty"`
	IsActive        bool    `gorm:"not null"                                                json:"isActive"`
	IsMigrationData bool    `gorm:"not null;default:false"                                  json:"isMigrationData"`
	AuditModel

	// users.department_id 外键，部门删除时置空
	Users []User `gorm:"foreignKey:DepartmentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }
