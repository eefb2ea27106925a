package repository

import (
	"context"
	"encoding/json"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityLogRepository 操作日志仓库
type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Create 创建操作日志
func (r *ActivityLogRepository) Create(ctx context.Context, log *entity.ActivityLog) error {
	if log.ID == "" {
		log.ID = entity.NewID()
	}
	return r.db.WithContext(ctx).Create(log).Error
}

// Recent 最近的 N 条日志，新的在前
func (r *ActivityLogRepository) Recent(ctx context.Context, limit int) ([]entity.ActivityLog, error) {
	var items []entity.ActivityLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// LogActivity 便捷记录操作日志，metadata 可为空
func (r *ActivityLogRepository) LogActivity(ctx context.Context, message, actor, logType string, metadata map[string]interface{}) (*entity.ActivityLog, error) {
	log := &entity.ActivityLog{
		ID:      entity.NewID(),
		Message: message,
		Actor:   actor,
		Type:    logType,
	}
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, err
		}
		log.Metadata = datatypes.JSON(raw)
	}
	if err := r.Create(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}
