package entity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// 数量以 JSON 数字输出，和前端约定一致
	decimal.MarshalJSONWithoutQuotes = true
}

// NewID 生成32位主键
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// AutoMigrate 自动迁移所有PDMS表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 基础数据
		&User{},
		&Vendor{},
		&Equipment{},
		&MaintenanceRecord{},

		// 原料
		&RawMaterial{},
		&MaterialHistory{},

		// 生产 / 质检
		&ProductionBatch{},
		&QCRecord{},

		// 成品
		&Inventory{},

		// 日志
		&ActivityLog{},
	)
}
