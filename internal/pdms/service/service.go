package service

import (
	"context"
	"time"

	"github.com/ndganesh6973/pdms-mcc/internal/config"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/repository"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/cache"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/events"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/llm"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra 可选的外部依赖，未配置时为 nil
type Infra struct {
	Publisher events.Publisher
	Cache     cache.Cache
	Store     storage.ObjectStore
	Chat      llm.ChatClient
	Logger    *zap.Logger
}

// Services PDMS 服务集合
type Services struct {
	Activity    *ActivityService
	Material    *MaterialService
	Production  *ProductionService
	QC          *QCService
	Inventory   *InventoryService
	Maintenance *MaintenanceService
	Prediction  *PredictionService
	Auth        *AuthService
	Vendor      *VendorService
	Dashboard   *DashboardService
	Assistant   *AssistantService
}

func NewServices(db *gorm.DB, repos *repository.Repositories, cfg *config.Config, infra Infra) *Services {
	if infra.Logger == nil {
		infra.Logger = zap.NewNop()
	}
	if infra.Publisher == nil {
		infra.Publisher = events.Nop{}
	}
	if infra.Cache == nil {
		infra.Cache = cache.Nop{}
	}

	activity := NewActivityService(repos.ActivityLog, infra.Publisher, infra.Logger)

	return &Services{
		Activity:    activity,
		Material:    NewMaterialService(db, repos, activity),
		Production:  NewProductionService(db, repos, activity),
		QC:          NewQCService(db, repos, activity),
		Inventory:   NewInventoryService(db, repos, activity, infra.Store, infra.Logger),
		Maintenance: NewMaintenanceService(db, repos, activity),
		Prediction:  NewPredictionService(DefaultQualityModel),
		Auth:        NewAuthService(db, repos, activity, cfg.JWT),
		Vendor:      NewVendorService(db, repos, activity),
		Dashboard:   NewDashboardService(repos, infra.Cache, cfg.Cache.DashboardTTL, infra.Logger),
		Assistant:   NewAssistantService(repos.Batch, infra.Chat),
	}
}

// inTx 在事务中执行，fn 拿到绑定事务的仓库集合
func inTx(ctx context.Context, db *gorm.DB, fn func(repos *repository.Repositories) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repository.NewRepositories(tx))
	})
}

// ActivityService 操作日志：事务内写库，提交后推送
type ActivityService struct {
	repo      *repository.ActivityLogRepository
	publisher events.Publisher
	logger    *zap.Logger
}

func NewActivityService(repo *repository.ActivityLogRepository, publisher events.Publisher, logger *zap.Logger) *ActivityService {
	return &ActivityService{repo: repo, publisher: publisher, logger: logger}
}

// Record 通过事务内仓库写日志
func (s *ActivityService) Record(ctx context.Context, repos *repository.Repositories, message, actor, logType string, metadata map[string]interface{}) (*entity.ActivityLog, error) {
	return repos.ActivityLog.LogActivity(ctx, message, actor, logType, metadata)
}

// Log 非事务场景直接写库并推送
func (s *ActivityService) Log(ctx context.Context, message, actor, logType string, metadata map[string]interface{}) *entity.ActivityLog {
	log, err := s.repo.LogActivity(ctx, message, actor, logType, metadata)
	if err != nil {
		s.logger.Warn("write activity log failed", zap.String("message", message), zap.Error(err))
		return nil
	}
	s.Publish(ctx, log)
	return log
}

// Publish 推送已提交的日志，失败只记录告警
func (s *ActivityService) Publish(ctx context.Context, logs ...*entity.ActivityLog) {
	for _, log := range logs {
		if log == nil {
			continue
		}
		if err := s.publisher.Publish(ctx, "activity."+log.Type, log); err != nil {
			s.logger.Warn("publish activity failed", zap.String("id", log.ID), zap.Error(err))
		}
	}
}

// Recent 最近的日志
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]entity.ActivityLog, error) {
	return s.repo.Recent(ctx, limit)
}

// actorOr 未登录场景使用默认岗位名
func actorOr(actor, fallback string) string {
	if actor == "" {
		return fallback
	}
	return actor
}

var nowFunc = time.Now
