package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/repository"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/apperr"
	"gorm.io/gorm"
)

// QCService 质检放行
type QCService struct {
	db       *gorm.DB
	repos    *repository.Repositories
	activity *ActivityService
}

func NewQCService(db *gorm.DB, repos *repository.Repositories, activity *ActivityService) *QCService {
	return &QCService{db: db, repos: repos, activity: activity}
}

// QCApproval 化验数据
type QCApproval struct {
	Moisture     float64 `json:"moisture"`
	Purity       float64 `json:"purity"`
	ParticleSize float64 `json:"particle_size"`
}

func (s *QCService) ListPending(ctx context.Context) ([]entity.ProductionBatch, error) {
	items, err := s.repos.Batch.ListByStatus(ctx, entity.BatchStatusPendingQC)
	if err != nil {
		return nil, apperr.Internal(err, "list pending approval")
	}
	return items, nil
}

// ApproveBatch 批次置为 APPROVED，写质检记录与成品库存，三者同一事务
// 化验数值只记录不判定
func (s *QCService) ApproveBatch(ctx context.Context, batchID string, req QCApproval, analyst string) (*entity.Inventory, error) {
	for _, v := range []float64{req.Moisture, req.Purity, req.ParticleSize} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apperr.Validation("lab values must be finite numbers")
		}
	}

	var (
		inv *entity.Inventory
		log *entity.ActivityLog
	)
	err := inTx(ctx, s.db, func(repos *repository.Repositories) error {
		batch, err := repos.Batch.FindByID(ctx, batchID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Batch not found")
		}
		if err != nil {
			return err
		}

		if err := repos.Batch.UpdateStatus(ctx, batch.ID, entity.BatchStatusApproved); err != nil {
			return err
		}

		if err := repos.QCRecord.Create(ctx, &entity.QCRecord{
			BatchID:      batch.ID,
			BatchNumber:  batch.BatchNumber,
			Moisture:     req.Moisture,
			Purity:       req.Purity,
			ParticleSize: req.ParticleSize,
			Status:       entity.QCStatusPass,
			Analyst:      analyst,
		}); err != nil {
			return err
		}

		inv = &entity.Inventory{
			BatchNo:         batch.BatchNumber,
			ProductName:     entity.DefaultProductName,
			QuantityKg:      batch.QuantityUsed,
			StorageLocation: entity.DefaultStorageLocation,
			Status:          entity.InventoryStatusInStock,
		}
		if err := repos.Inventory.Create(ctx, inv); err != nil {
			return err
		}

		log, err = s.activity.Record(ctx, repos,
			fmt.Sprintf("QC APPROVED: Batch %s passed with %s%% purity", batch.BatchNumber, formatPurity(req.Purity)),
			actorOr(analyst, "QC_Analyst"), entity.LogTypeSuccess,
			map[string]interface{}{"batch_id": batch.ID, "moisture": req.Moisture, "purity": req.Purity, "particle_size": req.ParticleSize},
		)
		return err
	})
	if err != nil {
		// 除 NotFound 外一律按内部错误上报
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		return nil, apperr.Internal(err, "QC approval rolled back")
	}
	s.activity.Publish(ctx, log)
	return inv, nil
}

// Records 质检记录，最新在前
func (s *QCService) Records(ctx context.Context, batchID string, page, pageSize int) ([]entity.QCRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	items, total, err := s.repos.QCRecord.List(ctx, batchID, page, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal(err, "list qc records")
	}
	return items, total, nil
}

// formatPurity 整数也保留一位小数，如 99 -> "99.0"
func formatPurity(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v == math.Trunc(v) {
		s += ".0"
	}
	return s
}
