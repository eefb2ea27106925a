package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchStatus 生产批次状态
const (
	BatchStatusScheduled = "SCHEDULED"
	BatchStatusActive    = "ACTIVE"
	BatchStatusPendingQC = "PENDING_QC"
	BatchStatusApproved  = "APPROVED"
	BatchStatusShipped   = "SHIPPED"
	BatchStatusCompleted = "COMPLETED"
)

// ProductionBatch 生产批次
// 同一批次号同时只能有一条 ACTIVE 记录（部分唯一索引）
type ProductionBatch struct {
	ID           string          `json:"id" gorm:"primaryKey;size:32"`
	BatchNumber  string          `json:"batch_number" gorm:"size:64;not null;index;uniqueIndex:idx_batch_active_number,where:status = 'ACTIVE'"`
	Phase        string          `json:"phase" gorm:"size:255;not null"`
	MaterialUsed string          `json:"material_used" gorm:"size:255;not null"`
	QuantityUsed decimal.Decimal `json:"quantity_used" gorm:"type:decimal(14,3);not null"`
	Shift        string          `json:"shift" gorm:"size:50;not null"`
	Status       string          `json:"status" gorm:"size:20;not null;default:ACTIVE;index"`
	AuthorizedBy string          `json:"authorized_by" gorm:"size:255;not null"`
	CreatedAt    time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (ProductionBatch) TableName() string {
	return "production_batches"
}
