package repository

import (
	"context"
	"time"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryRepository 成品库存仓库
type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(ctx context.Context, inv *entity.Inventory) error {
	if inv.ID == "" {
		inv.ID = entity.NewID()
	}
	return translate(r.db.WithContext(ctx).Create(inv).Error)
}

func (r *InventoryRepository) FindByBatchNo(ctx context.Context, batchNo string) (*entity.Inventory, error) {
	var inv entity.Inventory
	if err := forUpdate(r.db.WithContext(ctx)).Where("batch_no = ?", batchNo).First(&inv).Error; err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

// UpdateStatus 更新状态，dispatchedAt 非空时同时写入发货时间
func (r *InventoryRepository) UpdateStatus(ctx context.Context, id, status string, dispatchedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if dispatchedAt != nil {
		updates["dispatched_at"] = *dispatchedAt
	}
	result := r.db.WithContext(ctx).Model(&entity.Inventory{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListOnSite 未发货的成品（在库 + 待发区）
func (r *InventoryRepository) ListOnSite(ctx context.Context) ([]entity.Inventory, error) {
	var items []entity.Inventory
	err := r.db.WithContext(ctx).
		Where("status <> ?", entity.InventoryStatusDispatched).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// ListDispatched 已发货记录，按发货时间倒序
func (r *InventoryRepository) ListDispatched(ctx context.Context) ([]entity.Inventory, error) {
	var items []entity.Inventory
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.InventoryStatusDispatched).
		Order("dispatched_at DESC").
		Find(&items).Error
	return items, err
}

// StockSummary 在库成品总重量与批次数
func (r *InventoryRepository) StockSummary(ctx context.Context) (decimal.Decimal, int64, error) {
	var items []entity.Inventory
	err := r.db.WithContext(ctx).
		Select("quantity_kg").
		Where("status = ?", entity.InventoryStatusInStock).
		Find(&items).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.QuantityKg)
	}
	return total, int64(len(items)), nil
}

// CountByQuantity 按重量区间计数，op 仅允许 ">" 或 "<"
func (r *InventoryRepository) CountByQuantity(ctx context.Context, op string, kg int) (int64, error) {
	if op != ">" && op != "<" {
		op = ">"
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Inventory{}).
		Where("quantity_kg "+op+" ?", kg).
		Count(&count).Error
	return count, err
}
