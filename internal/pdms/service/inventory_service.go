package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/repository"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/apperr"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/storage"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// XLSXContentType xlsx 文件 MIME
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryService 成品库存与发货
type InventoryService struct {
	db       *gorm.DB
	repos    *repository.Repositories
	activity *ActivityService
	store    storage.ObjectStore
	logger   *zap.Logger
}

func NewInventoryService(db *gorm.DB, repos *repository.Repositories, activity *ActivityService, store storage.ObjectStore, logger *zap.Logger) *InventoryService {
	return &InventoryService{db: db, repos: repos, activity: activity, store: store, logger: logger}
}

// StockSummary 在库汇总
type StockSummary struct {
	TotalKg    decimal.Decimal `json:"total_kg"`
	BatchCount int64           `json:"batch_count"`
}

// FinishedGoods 未发货成品
func (s *InventoryService) FinishedGoods(ctx context.Context) ([]entity.Inventory, error) {
	items, err := s.repos.Inventory.ListOnSite(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list finished goods")
	}
	return items, nil
}

func (s *InventoryService) Summary(ctx context.Context) (*StockSummary, error) {
	total, count, err := s.repos.Inventory.StockSummary(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "stock summary")
	}
	return &StockSummary{TotalKg: total, BatchCount: count}, nil
}

// MoveToDispatchArea 移至待发区，不校验前置状态
func (s *InventoryService) MoveToDispatchArea(ctx context.Context, batchNo, operator string) (*entity.Inventory, error) {
	return s.transition(ctx, batchNo, entity.InventoryStatusDispatchArea, false,
		fmt.Sprintf("LOGISTICS: Batch %s moved to Dispatch Area", batchNo),
		actorOr(operator, "Logistics_Staff"), entity.LogTypeInfo)
}

// FinalDispatch 发货并记录发货时间，不校验是否经过待发区
func (s *InventoryService) FinalDispatch(ctx context.Context, batchNo, operator string) (*entity.Inventory, error) {
	return s.transition(ctx, batchNo, entity.InventoryStatusDispatched, true,
		fmt.Sprintf("DISPATCHED: Batch %s shipped to customer", batchNo),
		actorOr(operator, "Dispatch_Head"), entity.LogTypeSuccess)
}

func (s *InventoryService) transition(ctx context.Context, batchNo, status string, stamp bool, message, actor, logType string) (*entity.Inventory, error) {
	var (
		inv *entity.Inventory
		log *entity.ActivityLog
	)
	err := inTx(ctx, s.db, func(repos *repository.Repositories) error {
		item, err := repos.Inventory.FindByBatchNo(ctx, batchNo)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Batch not found")
		}
		if err != nil {
			return err
		}

		from := item.Status
		if stamp {
			now := nowFunc()
			item.DispatchedAt = &now
		}
		if err := repos.Inventory.UpdateStatus(ctx, item.ID, status, item.DispatchedAt); err != nil {
			return err
		}
		item.Status = status
		inv = item

		log, err = s.activity.Record(ctx, repos, message, actor, logType,
			map[string]interface{}{"batch_no": batchNo, "from": from, "to": status})
		return err
	})
	if err != nil {
		return nil, classify(err, "update finished goods status")
	}
	s.activity.Publish(ctx, log)
	return inv, nil
}

// DispatchHistory 已发货记录，按发货时间倒序
func (s *InventoryService) DispatchHistory(ctx context.Context) ([]entity.Inventory, error) {
	items, err := s.repos.Inventory.ListDispatched(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list dispatch history")
	}
	return items, nil
}

// ExportDispatchHistory 生成发货记录 xlsx；配置了对象存储时同时归档
// 归档失败只告警，不影响下载
func (s *InventoryService) ExportDispatchHistory(ctx context.Context) ([]byte, string, error) {
	items, err := s.DispatchHistory(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Dispatch History"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Batch No", "Product", "Quantity (kg)", "Location", "Status", "Dispatched At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, it := range items {
		r := row + 2
		dispatchedAt := ""
		if it.DispatchedAt != nil {
			dispatchedAt = it.DispatchedAt.Format("2006-01-02 15:04:05")
		}
		qty, _ := it.QuantityKg.Float64()
		values := []interface{}{it.BatchNo, it.ProductName, qty, it.StorageLocation, it.Status, dispatchedAt}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", apperr.Internal(err, "render dispatch history")
	}
	filename := fmt.Sprintf("dispatch-history-%s.xlsx", nowFunc().Format("20060102-150405"))
	data := buf.Bytes()

	if s.store != nil {
		path, err := s.store.Put(ctx, "exports/"+filename, bytes.NewReader(data), int64(len(data)), XLSXContentType)
		if err != nil {
			s.logger.Warn("archive dispatch history failed", zap.String("file", filename), zap.Error(err))
		} else {
			s.logger.Info("dispatch history archived", zap.String("path", path))
		}
	}
	return data, filename, nil
}
