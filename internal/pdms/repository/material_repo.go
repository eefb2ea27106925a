package repository

import (
	"context"
	"strings"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaterialRepository 原料台账仓库
type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

func (r *MaterialRepository) FindByMaterialID(ctx context.Context, materialID string) (*entity.RawMaterial, error) {
	var m entity.RawMaterial
	err := forUpdate(r.db.WithContext(ctx)).Where("material_id = ?", materialID).First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// FindByName 按名称查找（生产领料按名称匹配）
func (r *MaterialRepository) FindByName(ctx context.Context, name string) (*entity.RawMaterial, error) {
	var m entity.RawMaterial
	err := forUpdate(r.db.WithContext(ctx)).Where("material_name = ?", name).First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// Search 按名称或编号模糊搜索（不区分大小写），query 为空返回全部
func (r *MaterialRepository) Search(ctx context.Context, query string, limit int) ([]entity.RawMaterial, error) {
	q := r.db.WithContext(ctx).Model(&entity.RawMaterial{})
	if kw := strings.TrimSpace(query); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		q = q.Where("LOWER(material_name) LIKE ? OR LOWER(material_id) LIKE ?", like, like)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var items []entity.RawMaterial
	err := q.Order("material_id ASC").Find(&items).Error
	return items, err
}

func (r *MaterialRepository) Create(ctx context.Context, m *entity.RawMaterial) error {
	if m.ID == "" {
		m.ID = entity.NewID()
	}
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *MaterialRepository) Update(ctx context.Context, m *entity.RawMaterial) error {
	return translate(r.db.WithContext(ctx).Save(m).Error)
}

// AddQuantity 增加库存，m 为事务内已读取的行
// postgres NUMERIC 精确，直接在 SQL 中累加；sqlite 按 REAL 计算，改为用 decimal 算好后写回
func (r *MaterialRepository) AddQuantity(ctx context.Context, m *entity.RawMaterial, delta decimal.Decimal) error {
	q := r.db.WithContext(ctx).Model(&entity.RawMaterial{}).Where("id = ?", m.ID)
	var result *gorm.DB
	if exactNumeric(r.db) {
		result = q.Update("quantity_kg", gorm.Expr("quantity_kg + ?", delta))
	} else {
		result = q.Update("quantity_kg", m.QuantityKg.Add(delta))
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	m.QuantityKg = m.QuantityKg.Add(delta)
	return nil
}

// Deduct 条件扣减，库存不足时不修改并返回 false
func (r *MaterialRepository) Deduct(ctx context.Context, m *entity.RawMaterial, qty decimal.Decimal) (bool, error) {
	q := r.db.WithContext(ctx).Model(&entity.RawMaterial{}).
		Where("id = ? AND quantity_kg >= ?", m.ID, qty)
	var result *gorm.DB
	if exactNumeric(r.db) {
		result = q.Update("quantity_kg", gorm.Expr("quantity_kg - ?", qty))
	} else {
		if m.QuantityKg.LessThan(qty) {
			return false, nil
		}
		result = q.Update("quantity_kg", m.QuantityKg.Sub(qty))
	}
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected != 1 {
		return false, nil
	}
	m.QuantityKg = m.QuantityKg.Sub(qty)
	return true, nil
}

func (r *MaterialRepository) Delete(ctx context.Context, materialID string) error {
	result := r.db.WithContext(ctx).Where("material_id = ?", materialID).Delete(&entity.RawMaterial{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MaterialHistoryRepository 原料流水仓库
type MaterialHistoryRepository struct {
	db *gorm.DB
}

func NewMaterialHistoryRepository(db *gorm.DB) *MaterialHistoryRepository {
	return &MaterialHistoryRepository{db: db}
}

func (r *MaterialHistoryRepository) Create(ctx context.Context, h *entity.MaterialHistory) error {
	if h.ID == "" {
		h.ID = entity.NewID()
	}
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *MaterialHistoryRepository) List(ctx context.Context, materialID string, limit int) ([]entity.MaterialHistory, error) {
	q := r.db.WithContext(ctx).Model(&entity.MaterialHistory{})
	if materialID != "" {
		q = q.Where("material_id = ?", materialID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var items []entity.MaterialHistory
	err := q.Order("created_at DESC").Find(&items).Error
	return items, err
}
