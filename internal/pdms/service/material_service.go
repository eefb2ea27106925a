package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/repository"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/apperr"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const defaultSearchLimit = 500

// MaterialService 原料台账服务
type MaterialService struct {
	db       *gorm.DB
	repos    *repository.Repositories
	activity *ActivityService
}

func NewMaterialService(db *gorm.DB, repos *repository.Repositories, activity *ActivityService) *MaterialService {
	return &MaterialService{db: db, repos: repos, activity: activity}
}

// MaterialEntry 入库/导入/修改请求
type MaterialEntry struct {
	MaterialID string          `json:"material_id" binding:"required"`
	Name       string          `json:"name" binding:"required"`
	Kg         decimal.Decimal `json:"kg"`
	Supplier   string          `json:"supplier"`
}

func (e MaterialEntry) validate() error {
	if strings.TrimSpace(e.MaterialID) == "" || strings.TrimSpace(e.Name) == "" {
		return apperr.Validation("material_id and name are required")
	}
	// 允许 0：先登记原料，到货后再入库
	if e.Kg.IsNegative() {
		return apperr.Validation(fmt.Sprintf("kg must not be negative for material %s", e.MaterialID))
	}
	return nil
}

// Intake 按 material_id 入库：存在则累加，否则新建
func (s *MaterialService) Intake(ctx context.Context, req MaterialEntry, operator string) (*entity.RawMaterial, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var (
		material *entity.RawMaterial
		log      *entity.ActivityLog
	)
	err := inTx(ctx, s.db, func(repos *repository.Repositories) error {
		var err error
		material, err = applyIntake(ctx, repos, req, operator)
		if err != nil {
			return err
		}
		log, err = s.activity.Record(ctx, repos,
			fmt.Sprintf("MATERIAL RECEIVED: %s kg of %s (%s)", req.Kg.String(), req.Name, req.MaterialID),
			actorOr(operator, "Store_Keeper"), entity.LogTypeInfo,
			map[string]interface{}{"material_id": req.MaterialID, "kg": req.Kg.String()},
		)
		return err
	})
	if err != nil {
		return nil, classify(err, "material intake failed")
	}
	s.activity.Publish(ctx, log)
	return material, nil
}

// BulkImport 单事务批量入库，任一条失败整体回滚
func (s *MaterialService) BulkImport(ctx context.Context, entries []MaterialEntry, operator string) (int, error) {
	if len(entries) == 0 {
		return 0, apperr.Validation("import list is empty")
	}
	for _, e := range entries {
		if err := e.validate(); err != nil {
			return 0, err
		}
	}

	var log *entity.ActivityLog
	err := inTx(ctx, s.db, func(repos *repository.Repositories) error {
		for i, e := range entries {
			if _, err := applyIntake(ctx, repos, e, operator); err != nil {
				return fmt.Errorf("row %d (%s): %w", i+1, e.MaterialID, err)
			}
		}
		var err error
		log, err = s.activity.Record(ctx, repos,
			fmt.Sprintf("BULK IMPORT: %d materials received", len(entries)),
			actorOr(operator, "Store_Keeper"), entity.LogTypeSuccess,
			map[string]interface{}{"count": len(entries)},
		)
		return err
	})
	if err != nil {
		return 0, apperr.Internal(err, "bulk import rolled back")
	}
	s.activity.Publish(ctx, log)
	return len(entries), nil
}

var materialSheetHeaders = []string{"material_id", "name", "kg", "supplier"}

// ParseWorkbook 读取第一个工作表，首行为表头
func ParseWorkbook(f *excelize.File) ([]MaterialEntry, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.Validation("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperr.Validation(fmt.Sprintf("read sheet: %v", err))
	}
	if len(rows) < 2 {
		return nil, apperr.Validation("workbook has no data rows")
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, h := range materialSheetHeaders[:3] {
		if _, ok := cols[h]; !ok {
			return nil, apperr.Validation(fmt.Sprintf("missing column %q", h))
		}
	}

	cell := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var entries []MaterialEntry
	for i, row := range rows[1:] {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		kg, err := decimal.NewFromString(cell(row, "kg"))
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("row %d: invalid kg %q", i+2, cell(row, "kg")))
		}
		entries = append(entries, MaterialEntry{
			MaterialID: cell(row, "material_id"),
			Name:       cell(row, "name"),
			Kg:         kg,
			Supplier:   cell(row, "supplier"),
		})
	}
	return entries, nil
}

// ImportWorkbook 解析 xlsx 后按批量导入处理
func (s *MaterialService) ImportWorkbook(ctx context.Context, f *excelize.File, operator string) (int, error) {
	entries, err := ParseWorkbook(f)
	if err != nil {
		return 0, err
	}
	return s.BulkImport(ctx, entries, operator)
}

// Search 空查询返回全部（有上限）
func (s *MaterialService) Search(ctx context.Context, query string, limit int) ([]entity.RawMaterial, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	items, err := s.repos.Material.Search(ctx, query, limit)
	if err != nil {
		return nil, apperr.Internal(err, "search materials")
	}
	return items, nil
}

// Update 覆盖名称、数量、供应商
func (s *MaterialService) Update(ctx context.Context, materialID string, req MaterialEntry, operator string) (*entity.RawMaterial, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("name is required")
	}
	if req.Kg.IsNegative() {
		return nil, apperr.Validation("kg must not be negative")
	}

	var (
		material *entity.RawMaterial
		log      *entity.ActivityLog
	)
	err := inTx(ctx, s.db, func(repos *repository.Repositories) error {
		m, err := repos.Material.FindByMaterialID(ctx, materialID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Material not found")
		}
		if err != nil {
			return err
		}

		delta := req.Kg.Sub(m.QuantityKg)
		m.MaterialName = req.Name
		m.QuantityKg = req.Kg
		m.SupplierName = req.Supplier
		if err := repos.Material.Update(ctx, m); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.Conflict(fmt.Sprintf("material name %q is already in use", req.Name))
			}
			return err
		}
		if !delta.IsZero() {
			if err := repos.MaterialHistory.Create(ctx, &entity.MaterialHistory{
				MaterialID:   m.MaterialID,
				MaterialName: m.MaterialName,
				Quantity:     delta,
				Action:       entity.MaterialActionAdjust,
				Operator:     operator,
			}); err != nil {
				return err
			}
		}
		log, err = s.activity.Record(ctx, repos,
			fmt.Sprintf("MATERIAL UPDATED: %s (%s)", m.MaterialName, m.MaterialID),
			actorOr(operator, "Store_Keeper"), entity.LogTypeInfo, nil)
		material = m
		return err
	})
	if err != nil {
		return nil, classify(err, "update material")
	}
	s.activity.Publish(ctx, log)
	return material, nil
}

func (s *MaterialService) Delete(ctx context.Context, materialID, operator string) error {
	var log *entity.ActivityLog
	err := inTx(ctx, s.db, func(repos *repository.Repositories) error {
		if err := repos.Material.Delete(ctx, materialID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound("Material not found")
			}
			return err
		}
		var err error
		log, err = s.activity.Record(ctx, repos,
			fmt.Sprintf("MATERIAL DELETED: %s", materialID),
			actorOr(operator, "Store_Keeper"), entity.LogTypeDanger, nil)
		return err
	})
	if err != nil {
		return classify(err, "delete material")
	}
	s.activity.Publish(ctx, log)
	return nil
}

func (s *MaterialService) History(ctx context.Context, materialID string, limit int) ([]entity.MaterialHistory, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	items, err := s.repos.MaterialHistory.List(ctx, materialID, limit)
	if err != nil {
		return nil, apperr.Internal(err, "list material history")
	}
	return items, nil
}

// applyIntake 入库核心逻辑，调用方负责事务
func applyIntake(ctx context.Context, repos *repository.Repositories, e MaterialEntry, operator string) (*entity.RawMaterial, error) {
	m, err := repos.Material.FindByMaterialID(ctx, e.MaterialID)
	switch {
	case err == nil:
		if err := repos.Material.AddQuantity(ctx, m, e.Kg); err != nil {
			return nil, err
		}
	case errors.Is(err, repository.ErrNotFound):
		if _, err := repos.Material.FindByName(ctx, e.Name); err == nil {
			return nil, apperr.Conflict(fmt.Sprintf("material name %q is registered under another id", e.Name))
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		m = &entity.RawMaterial{
			MaterialID:   e.MaterialID,
			MaterialName: e.Name,
			QuantityKg:   e.Kg,
			SupplierName: e.Supplier,
		}
		if err := repos.Material.Create(ctx, m); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, apperr.Conflict(fmt.Sprintf("material name %q is registered under another id", e.Name))
			}
			return nil, err
		}
	default:
		return nil, err
	}

	if err := repos.MaterialHistory.Create(ctx, &entity.MaterialHistory{
		MaterialID:   m.MaterialID,
		MaterialName: m.MaterialName,
		Quantity:     e.Kg,
		Action:       entity.MaterialActionReceive,
		Reference:    e.Supplier,
		Operator:     operator,
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// classify 业务错误原样返回，其余包装为 Internal
func classify(err error, message string) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	return apperr.Internal(err, message)
}
