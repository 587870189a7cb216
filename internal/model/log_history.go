package model

import "time"

// LogHistory 登录历史，对应 log_histories
// LogCode 保存本次登录签发 Token 的 JTI
type LogHistory struct {
	LogHistoryID   int64      `gorm:"column:log_history_id;primaryKey;autoIncrement" json:"logHistoryId"`
	LogCode        string     `gorm:"type:varchar(500);not null;index"               json:"logCode"`
	LogDate        time.Time  `gorm:"not null"                                       json:"logDate"`
	UserID         int        `gorm:"column:user_id;not null;index"                  json:"userId"`
	LogInTime      time.Time  `gorm:"not null"                                       json:"logInTime"`
	LogOutTime     *time.Time `                                                      json:"logOutTime,omitempty"`
	IP             string     `gorm:"column:ip;type:varchar(50)"                     json:"ip"`
	Browser        string     `gorm:"type:varchar(50)"                               json:"browser"`
	BrowserVersion string     `gorm:"type:varchar(50)"                               json:"browserVersion"`
	Platform       string     `gorm:"type:varchar(50)"                               json:"platform"`

	// 外键约束由 User.LogHistories 声明
	User *User `gorm:"foreignKey:UserID;references:UserID;constraint:-" json:"-"`
}

// TableName 指定表名
func (LogHistory) TableName() string { return "log_histories" }
