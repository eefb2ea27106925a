package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/repository"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/apperr"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	dashboardSummaryKey = "dashboard:summary"
	notificationLimit   = 15
	analyticsDays       = 7
)

// StageCount 看板上每个环节的进行中/等待数
type StageCount struct {
	Active  int64 `json:"active"`
	Waiting int64 `json:"waiting"`
}

// DashboardSummary 看板汇总
type DashboardSummary struct {
	Production StageCount `json:"production"`
	QC         StageCount `json:"qc"`
	Inventory  StageCount `json:"inventory"`
	Dispatch   StageCount `json:"dispatch"`
}

// DailyOutput 每日产量
type DailyOutput struct {
	Date   string  `json:"date"`
	Output float64 `json:"output"`
}

// DashboardService 看板
type DashboardService struct {
	repos  *repository.Repositories
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewDashboardService(repos *repository.Repositories, c cache.Cache, ttl time.Duration, logger *zap.Logger) *DashboardService {
	return &DashboardService{repos: repos, cache: c, ttl: ttl, logger: logger}
}

// Summary 优先读缓存，缓存异常时直接查库
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if raw, ok, err := s.cache.Get(ctx, dashboardSummaryKey); err != nil {
		s.logger.Warn("read dashboard cache failed", zap.Error(err))
	} else if ok {
		var cached DashboardSummary
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
	}

	summary, err := s.compute(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "dashboard summary")
	}

	if s.ttl > 0 {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, dashboardSummaryKey, string(data), s.ttl); err != nil {
				s.logger.Warn("write dashboard cache failed", zap.Error(err))
			}
		}
	}
	return summary, nil
}

func (s *DashboardService) compute(ctx context.Context) (*DashboardSummary, error) {
	var (
		sum DashboardSummary
		err error
	)
	counts := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&sum.Production.Active, func() (int64, error) { return s.repos.Batch.CountByStatus(ctx, entity.BatchStatusActive) }},
		{&sum.Production.Waiting, func() (int64, error) { return s.repos.Batch.CountByStatus(ctx, entity.BatchStatusScheduled) }},
		{&sum.QC.Active, func() (int64, error) { return s.repos.QCRecord.CountByStatus(ctx, entity.QCStatusInProgress) }},
		{&sum.QC.Waiting, func() (int64, error) { return s.repos.QCRecord.CountByStatus(ctx, entity.QCStatusPending) }},
		{&sum.Inventory.Active, func() (int64, error) { return s.repos.Inventory.CountByQuantity(ctx, ">", 100) }},
		{&sum.Inventory.Waiting, func() (int64, error) { return s.repos.Inventory.CountByQuantity(ctx, "<", 50) }},
		{&sum.Dispatch.Active, func() (int64, error) { return s.repos.Batch.CountByStatus(ctx, entity.BatchStatusShipped) }},
		{&sum.Dispatch.Waiting, func() (int64, error) { return s.repos.Batch.CountByStatus(ctx, entity.BatchStatusCompleted) }},
	}
	for _, c := range counts {
		if *c.dst, err = c.fn(); err != nil {
			return nil, err
		}
	}
	return &sum, nil
}

// Analytics 最近 7 天按日汇总投料量，仅包含有数据的日期，按日期升序
func (s *DashboardService) Analytics(ctx context.Context) ([]DailyOutput, error) {
	since := nowFunc().AddDate(0, 0, -analyticsDays)
	batches, err := s.repos.Batch.ListCreatedSince(ctx, since)
	if err != nil {
		return nil, apperr.Internal(err, "dashboard analytics")
	}

	totals := make(map[string]decimal.Decimal)
	var days []string
	for _, b := range batches {
		day := b.CreatedAt.Format("2006-01-02")
		if _, ok := totals[day]; !ok {
			days = append(days, day)
		}
		totals[day] = totals[day].Add(b.QuantityUsed)
	}

	out := make([]DailyOutput, 0, len(days))
	for _, day := range days {
		v, _ := totals[day].Float64()
		out = append(out, DailyOutput{Date: day, Output: v})
	}
	return out, nil
}

// Notifications 最近 15 条操作日志
func (s *DashboardService) Notifications(ctx context.Context) ([]entity.ActivityLog, error) {
	logs, err := s.repos.ActivityLog.Recent(ctx, notificationLimit)
	if err != nil {
		return nil, apperr.Internal(err, "dashboard notifications")
	}
	if logs == nil {
		logs = []entity.ActivityLog{}
	}
	return logs, nil
}
