package repository

import (
	"context"
	"time"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"gorm.io/gorm"
)

// BatchRepository 生产批次仓库
type BatchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

func (r *BatchRepository) Create(ctx context.Context, b *entity.ProductionBatch) error {
	if b.ID == "" {
		b.ID = entity.NewID()
	}
	return translate(r.db.WithContext(ctx).Create(b).Error)
}

func (r *BatchRepository) FindByID(ctx context.Context, id string) (*entity.ProductionBatch, error) {
	var b entity.ProductionBatch
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// ExistsActive 批次号是否已有 ACTIVE 记录
func (r *BatchRepository) ExistsActive(ctx context.Context, batchNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ProductionBatch{}).
		Where("batch_number = ? AND status = ?", batchNumber, entity.BatchStatusActive).
		Count(&count).Error
	return count > 0, err
}

func (r *BatchRepository) ListByStatus(ctx context.Context, status string) ([]entity.ProductionBatch, error) {
	var items []entity.ProductionBatch
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *BatchRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).Model(&entity.ProductionBatch{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BatchRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ProductionBatch{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// ListCreatedSince 返回某时间之后创建的批次（产量趋势）
func (r *BatchRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]entity.ProductionBatch, error) {
	var items []entity.ProductionBatch
	err := r.db.WithContext(ctx).
		Select("id", "batch_number", "quantity_used", "created_at").
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}
