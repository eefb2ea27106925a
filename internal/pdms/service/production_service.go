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
	"gorm.io/gorm"
)

// ProductionService 生产批次生命周期
type ProductionService struct {
	db       *gorm.DB
	repos    *repository.Repositories
	activity *ActivityService
}

func NewProductionService(db *gorm.DB, repos *repository.Repositories, activity *ActivityService) *ProductionService {
	return &ProductionService{db: db, repos: repos, activity: activity}
}

// StartBatchRequest 开始生产请求
type StartBatchRequest struct {
	BatchNumber     string          `json:"batch_number" binding:"required"`
	Phase           string          `json:"phase" binding:"required"`
	RawMaterialName string          `json:"raw_material_name" binding:"required"`
	QuantityToUse   decimal.Decimal `json:"quantity_to_use"`
	AuthorizedBy    string          `json:"authorized_by"`
	Shift           string          `json:"shift"`
}

func (s *ProductionService) ListActive(ctx context.Context) ([]entity.ProductionBatch, error) {
	items, err := s.repos.Batch.ListByStatus(ctx, entity.BatchStatusActive)
	if err != nil {
		return nil, apperr.Internal(err, "list active batches")
	}
	return items, nil
}

func (s *ProductionService) ListPendingQC(ctx context.Context) ([]entity.ProductionBatch, error) {
	items, err := s.repos.Batch.ListByStatus(ctx, entity.BatchStatusPendingQC)
	if err != nil {
		return nil, apperr.Internal(err, "list pending batches")
	}
	return items, nil
}

// StartBatch 扣减原料并创建 ACTIVE 批次
// 同号 ACTIVE 批次由部分唯一索引兜底，扣减为条件更新，并发下均不会越界
func (s *ProductionService) StartBatch(ctx context.Context, req StartBatchRequest) (*entity.ProductionBatch, error) {
	req.BatchNumber = strings.TrimSpace(req.BatchNumber)
	if req.BatchNumber == "" {
		return nil, apperr.Validation("batch_number is required")
	}
	if !req.QuantityToUse.IsPositive() {
		return nil, apperr.Validation("quantity_to_use must be greater than 0")
	}

	var (
		batch *entity.ProductionBatch
		log   *entity.ActivityLog
	)
	err := inTx(ctx, s.db, func(repos *repository.Repositories) error {
		active, err := repos.Batch.ExistsActive(ctx, req.BatchNumber)
		if err != nil {
			return err
		}
		if active {
			return apperr.Conflict("Batch already active.")
		}

		material, err := repos.Material.FindByName(ctx, req.RawMaterialName)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.InsufficientStock("Insufficient stock.")
		}
		if err != nil {
			return err
		}
		ok, err := repos.Material.Deduct(ctx, material, req.QuantityToUse)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InsufficientStock("Insufficient stock.")
		}

		batch = &entity.ProductionBatch{
			BatchNumber:  req.BatchNumber,
			Phase:        req.Phase,
			MaterialUsed: material.MaterialName,
			QuantityUsed: req.QuantityToUse,
			Shift:        req.Shift,
			Status:       entity.BatchStatusActive,
			AuthorizedBy: req.AuthorizedBy,
		}
		if err := repos.Batch.Create(ctx, batch); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.Conflict("Batch already active.")
			}
			return err
		}

		if err := repos.MaterialHistory.Create(ctx, &entity.MaterialHistory{
			MaterialID:   material.MaterialID,
			MaterialName: material.MaterialName,
			Quantity:     req.QuantityToUse.Neg(),
			Action:       entity.MaterialActionIssue,
			Reference:    batch.BatchNumber,
			Operator:     req.AuthorizedBy,
		}); err != nil {
			return err
		}

		log, err = s.activity.Record(ctx, repos,
			fmt.Sprintf("Production Started: Batch %s (%s)", batch.BatchNumber, batch.Phase),
			actorOr(req.AuthorizedBy, "Supervisor"), entity.LogTypeInfo,
			map[string]interface{}{"batch_id": batch.ID, "material": material.MaterialName, "kg": req.QuantityToUse.String()},
		)
		return err
	})
	if err != nil {
		return nil, classify(err, "start batch")
	}
	s.activity.Publish(ctx, log)
	return batch, nil
}

// EndBatch ACTIVE -> PENDING_QC
// 不校验当前状态，与现场流程保持一致
func (s *ProductionService) EndBatch(ctx context.Context, batchID string) (*entity.ProductionBatch, error) {
	var (
		batch *entity.ProductionBatch
		log   *entity.ActivityLog
	)
	err := inTx(ctx, s.db, func(repos *repository.Repositories) error {
		b, err := repos.Batch.FindByID(ctx, batchID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Batch not found")
		}
		if err != nil {
			return err
		}
		if err := repos.Batch.UpdateStatus(ctx, b.ID, entity.BatchStatusPendingQC); err != nil {
			return err
		}
		b.Status = entity.BatchStatusPendingQC
		batch = b

		log, err = s.activity.Record(ctx, repos,
			fmt.Sprintf("Batch %s completed production and moved to QC", b.BatchNumber),
			actorOr(b.AuthorizedBy, "Supervisor"), entity.LogTypeSuccess,
			map[string]interface{}{"batch_id": b.ID},
		)
		return err
	})
	if err != nil {
		return nil, classify(err, "end batch")
	}
	s.activity.Publish(ctx, log)
	return batch, nil
}
