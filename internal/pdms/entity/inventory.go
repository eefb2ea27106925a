package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryStatus 成品状态
const (
	InventoryStatusInStock      = "In Stock"
	InventoryStatusDispatchArea = "In Dispatch Area"
	InventoryStatusDispatched   = "Dispatched"
)

const (
	DefaultProductName     = "Microcrystalline Cellulose (MCC)"
	DefaultStorageLocation = "Warehouse A"
)

// Inventory 成品库存，仅由质检放行生成
type Inventory struct {
	ID              string          `json:"id" gorm:"primaryKey;size:32"`
	BatchNo         string          `json:"batch_no" gorm:"size:64;not null;uniqueIndex"`
	ProductName     string          `json:"product_name" gorm:"size:255;not null"`
	QuantityKg      decimal.Decimal `json:"quantity_kg" gorm:"type:decimal(14,3);not null"`
	StorageLocation string          `json:"storage_location" gorm:"size:255"`
	Status          string          `json:"status" gorm:"size:32;not null;index"`
	DispatchedAt    *time.Time      `json:"dispatched_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (Inventory) TableName() string {
	return "finished_goods"
}
