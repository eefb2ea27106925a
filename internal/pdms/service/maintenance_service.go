package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/repository"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/apperr"
	"gorm.io/gorm"
)

const (
	RiskStatusStable   = "Stable"
	RiskStatusCritical = "Critical"

	defaultVibration   = 0.1
	defaultTemperature = 25.0
	criticalRisk       = 75.0
)

// RiskAssessment 单台设备风险
type RiskAssessment struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	RiskScore float64 `json:"risk_score"`
	Status    string  `json:"status"`
}

// ComputeRisk risk = vibration*50 + temperature*0.2，读数为 0 时取默认值
// 分数四舍五入到一位小数并封顶 100，状态按未封顶值判断
func ComputeRisk(vibration, temperature float64) (float64, string) {
	if vibration == 0 {
		vibration = defaultVibration
	}
	if temperature == 0 {
		temperature = defaultTemperature
	}
	risk := vibration*50 + temperature*0.2

	status := RiskStatusStable
	if risk > criticalRisk {
		status = RiskStatusCritical
	}
	return math.Min(math.Round(risk*10)/10, 100), status
}

// MaintenanceService 设备与维护风险
type MaintenanceService struct {
	db       *gorm.DB
	repos    *repository.Repositories
	activity *ActivityService
}

func NewMaintenanceService(db *gorm.DB, repos *repository.Repositories, activity *ActivityService) *MaintenanceService {
	return &MaintenanceService{db: db, repos: repos, activity: activity}
}

// RegisterEquipmentRequest 设备登记
type RegisterEquipmentRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
}

// ReadingRequest 传感器读数
type ReadingRequest struct {
	Vibration   float64 `json:"vibration"`
	Temperature float64 `json:"temperature"`
}

func (s *MaintenanceService) Register(ctx context.Context, req RegisterEquipmentRequest, operator string) (*entity.Equipment, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Type) == "" {
		return nil, apperr.Validation("name and type are required")
	}

	eq := &entity.Equipment{Name: req.Name, Type: req.Type, Status: "Operational"}
	var log *entity.ActivityLog
	err := inTx(ctx, s.db, func(repos *repository.Repositories) error {
		if err := repos.Equipment.Create(ctx, eq); err != nil {
			return err
		}
		var err error
		log, err = s.activity.Record(ctx, repos,
			fmt.Sprintf("EQUIPMENT REGISTERED: %s (%s)", eq.Name, eq.Type),
			actorOr(operator, "Maintenance"), entity.LogTypeInfo, nil)
		return err
	})
	if err != nil {
		return nil, apperr.Internal(err, "register equipment")
	}
	s.activity.Publish(ctx, log)
	return eq, nil
}

func (s *MaintenanceService) Assets(ctx context.Context) ([]entity.Equipment, error) {
	items, err := s.repos.Equipment.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list equipment")
	}
	return items, nil
}

// RiskReport 按最近读数计算每台设备的风险
func (s *MaintenanceService) RiskReport(ctx context.Context) ([]RiskAssessment, error) {
	items, err := s.Assets(ctx)
	if err != nil {
		return nil, err
	}
	report := make([]RiskAssessment, 0, len(items))
	for _, eq := range items {
		score, status := ComputeRisk(eq.LastVibrationReading, eq.LastTempReading)
		report = append(report, RiskAssessment{ID: eq.ID, Name: eq.Name, RiskScore: score, Status: status})
	}
	return report, nil
}

// RecordReading 更新最近读数并追加一条维护记录
func (s *MaintenanceService) RecordReading(ctx context.Context, equipmentID string, req ReadingRequest, operator string) (*entity.MaintenanceRecord, error) {
	if req.Vibration < 0 || req.Temperature < -273.15 ||
		math.IsNaN(req.Vibration) || math.IsNaN(req.Temperature) ||
		math.IsInf(req.Vibration, 0) || math.IsInf(req.Temperature, 0) {
		return nil, apperr.Validation("invalid sensor reading")
	}

	score, status := ComputeRisk(req.Vibration, req.Temperature)
	var (
		rec *entity.MaintenanceRecord
		log *entity.ActivityLog
	)
	err := inTx(ctx, s.db, func(repos *repository.Repositories) error {
		eq, err := repos.Equipment.FindByID(ctx, equipmentID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Equipment not found")
		}
		if err != nil {
			return err
		}
		if err := repos.Equipment.UpdateReadings(ctx, eq.ID, req.Vibration, req.Temperature); err != nil {
			return err
		}

		rec = &entity.MaintenanceRecord{
			EquipmentID:      eq.ID,
			Description:      fmt.Sprintf("Sensor reading: %s", status),
			Vibration:        req.Vibration,
			Temperature:      req.Temperature,
			FailureRiskScore: score,
		}
		if err := repos.Equipment.CreateRecord(ctx, rec); err != nil {
			return err
		}

		logType := entity.LogTypeInfo
		if status == RiskStatusCritical {
			logType = entity.LogTypeWarning
		}
		log, err = s.activity.Record(ctx, repos,
			fmt.Sprintf("MAINTENANCE: %s risk %.1f (%s)", eq.Name, score, status),
			actorOr(operator, "Maintenance"), logType,
			map[string]interface{}{"equipment_id": eq.ID, "risk_score": score})
		return err
	})
	if err != nil {
		return nil, classify(err, "record reading")
	}
	s.activity.Publish(ctx, log)
	return rec, nil
}

func (s *MaintenanceService) Records(ctx context.Context, equipmentID string) ([]entity.MaintenanceRecord, error) {
	if _, err := s.repos.Equipment.FindByID(ctx, equipmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Equipment not found")
		}
		return nil, apperr.Internal(err, "find equipment")
	}
	items, err := s.repos.Equipment.ListRecords(ctx, equipmentID)
	if err != nil {
		return nil, apperr.Internal(err, "list maintenance records")
	}
	return items, nil
}
