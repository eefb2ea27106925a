package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialAction 原料流水类型
const (
	MaterialActionReceive = "RECEIVE" // 入库
	MaterialActionIssue   = "ISSUE"   // 生产领料
	MaterialActionAdjust  = "ADJUST"  // 手工修正
)

// RawMaterial 原料台账
type RawMaterial struct {
	ID           string          `json:"id" gorm:"primaryKey;size:32"`
	MaterialID   string          `json:"material_id" gorm:"size:50;not null;uniqueIndex"`
	MaterialName string          `json:"material_name" gorm:"size:255;not null;uniqueIndex"`
	QuantityKg   decimal.Decimal `json:"quantity_kg" gorm:"type:decimal(14,3);not null;default:0"`
	SupplierName string          `json:"supplier_name" gorm:"size:255"`
	PuritySpec   *float64        `json:"purity_spec,omitempty"`
	MoistureSpec *float64        `json:"moisture_spec,omitempty"`
	ReceivedDate time.Time       `json:"received_date" gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (RawMaterial) TableName() string {
	return "raw_material_batches"
}

// MaterialHistory 原料流水
type MaterialHistory struct {
	ID           string          `json:"id" gorm:"primaryKey;size:32"`
	MaterialID   string          `json:"material_id" gorm:"size:50;not null;index"`
	MaterialName string          `json:"material_name" gorm:"size:255;not null"`
	Quantity     decimal.Decimal `json:"quantity" gorm:"type:decimal(14,3);not null"` // 正=入，负=出
	Action       string          `json:"action" gorm:"size:20;not null"`
	Reference    string          `json:"reference" gorm:"size:64"` // 批次号等
	Operator     string          `json:"operator" gorm:"size:255"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (MaterialHistory) TableName() string {
	return "material_history"
}
