package repository

import (
	"context"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"gorm.io/gorm"
)

// QCRecordRepository 质检记录仓库
type QCRecordRepository struct {
	db *gorm.DB
}

func NewQCRecordRepository(db *gorm.DB) *QCRecordRepository {
	return &QCRecordRepository{db: db}
}

func (r *QCRecordRepository) Create(ctx context.Context, rec *entity.QCRecord) error {
	if rec.ID == "" {
		rec.ID = entity.NewID()
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *QCRecordRepository) List(ctx context.Context, batchID string, page, pageSize int) ([]entity.QCRecord, int64, error) {
	var items []entity.QCRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.QCRecord{})
	if batchID != "" {
		query = query.Where("batch_id = ?", batchID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&items).Error
	return items, total, err
}

func (r *QCRecordRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.QCRecord{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
