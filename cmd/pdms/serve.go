package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/ndganesh6973/pdms-mcc/internal/config"
	"github.com/ndganesh6973/pdms-mcc/internal/middleware"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/handler"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/repository"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/service"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/sse"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/cache"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/events"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/llm"
	"github.com/ndganesh6973/pdms-mcc/internal/shared/storage"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the PDMS HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, zapLogger, err := bootstrap()
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting pdms service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("db_driver", cfg.Database.Driver),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Error("Failed to connect to database", zap.Error(err))
		return err
	}
	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Error("AutoMigrate failed", zap.Error(err))
		return err
	}

	// SSE 推送始终启用，NATS 可选
	hub := sse.NewHub(zapLogger)
	publishers := events.Multi{hub}
	if cfg.NATS.URL != "" {
		np, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			zapLogger.Warn("NATS unavailable, activity events stay local", zap.Error(err))
		} else {
			defer np.Close()
			publishers = append(publishers, np)
			zapLogger.Info("NATS publisher connected", zap.String("url", cfg.NATS.URL))
		}
	}

	infra := service.Infra{Publisher: publishers, Logger: zapLogger}
	if rdb := initRedis(cmd.Context(), cfg.Redis, zapLogger); rdb != nil {
		defer rdb.Close()
		infra.Cache = cache.NewRedisCache(rdb, "pdms")
	}
	if store := initStorage(cmd.Context(), cfg.MinIO, zapLogger); store != nil {
		infra.Store = store
	}
	if cfg.LLM.APIKey != "" {
		infra.Chat = llm.NewOpenAIClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Temperature)
	} else {
		zapLogger.Warn("LLM api key not set, /ai/ask will be unavailable")
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, cfg, infra)
	handlers := handler.NewHandlers(services, hub)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/events/stream"})))

	registerSystemRoutes(router, db)
	handler.RegisterRoutes(router, handlers, middleware.JWTAuth(cfg.JWT.Secret, handler.UserLookup(services.Auth)))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout, // SSE 长连接要求为 0
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		zapLogger.Error("Failed to start server", zap.Error(err))
		return err
	case <-quit:
	}

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
	return nil
}

// initRedis 未配置或连不上时返回 nil，看板退化为每次查库
func initRedis(ctx context.Context, cfg config.RedisConfig, zapLogger *zap.Logger) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		zapLogger.Warn("Redis unavailable, dashboard cache disabled", zap.Error(err))
		rdb.Close()
		return nil
	}
	return rdb
}

// initStorage 返回接口类型，未启用时必须是无类型 nil
func initStorage(ctx context.Context, cfg config.MinIOConfig, zapLogger *zap.Logger) storage.ObjectStore {
	if cfg.Endpoint == "" {
		return nil
	}
	store, err := storage.NewMinIOStore(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Bucket, cfg.UseSSL)
	if err != nil {
		zapLogger.Warn("MinIO init failed, exports will not be archived", zap.Error(err))
		return nil
	}
	bucketCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.EnsureBucket(bucketCtx); err != nil {
		zapLogger.Warn("MinIO bucket unavailable, exports will not be archived", zap.Error(err))
		return nil
	}
	return store
}

func registerSystemRoutes(r *gin.Engine, db *gorm.DB) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})
}
