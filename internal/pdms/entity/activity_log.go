package entity

import (
	"time"

	"gorm.io/datatypes"
)

// LogType 日志级别
const (
	LogTypeInfo    = "info"
	LogTypeSuccess = "success"
	LogTypeWarning = "warning"
	LogTypeDanger  = "danger"
)

// ActivityLog 操作日志（只追加）
type ActivityLog struct {
	ID        string         `json:"id" gorm:"primaryKey;size:32"`
	Message   string         `json:"message" gorm:"size:500;not null"`
	Actor     string         `json:"user" gorm:"column:actor;size:255"`
	Type      string         `json:"type" gorm:"column:log_type;size:20;not null"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
