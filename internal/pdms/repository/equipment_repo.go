package repository

import (
	"context"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"gorm.io/gorm"
)

// EquipmentRepository 设备仓库
type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) Create(ctx context.Context, e *entity.Equipment) error {
	if e.ID == "" {
		e.ID = entity.NewID()
	}
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EquipmentRepository) FindByID(ctx context.Context, id string) (*entity.Equipment, error) {
	var e entity.Equipment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *EquipmentRepository) List(ctx context.Context) ([]entity.Equipment, error) {
	var items []entity.Equipment
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&items).Error
	return items, err
}

// UpdateReadings 更新最近一次振动/温度读数
func (r *EquipmentRepository) UpdateReadings(ctx context.Context, id string, vibration, temperature float64) error {
	result := r.db.WithContext(ctx).Model(&entity.Equipment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"last_vibration_reading": vibration,
		"last_temp_reading":      temperature,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) CreateRecord(ctx context.Context, rec *entity.MaintenanceRecord) error {
	if rec.ID == "" {
		rec.ID = entity.NewID()
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *EquipmentRepository) ListRecords(ctx context.Context, equipmentID string) ([]entity.MaintenanceRecord, error) {
	var items []entity.MaintenanceRecord
	err := r.db.WithContext(ctx).
		Where("equipment_id = ?", equipmentID).
		Order("maintenance_date DESC").
		Find(&items).Error
	return items, err
}
