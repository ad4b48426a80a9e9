package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Almightyluccas/NSWG1-Website-sub000/config"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/api/handler"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/api/router"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/repository"
	"github.com/Almightyluccas/NSWG1-Website-sub000/internal/service"
	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/database"
	pkgerrors "github.com/Almightyluccas/NSWG1-Website-sub000/pkg/errors"
	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/jwt"
	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/logger"
	"github.com/Almightyluccas/NSWG1-Website-sub000/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	// .env 不存在时静默跳过，线上环境直接用环境变量
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zapLogger, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("服务退出", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	// ── 数据库 ──
	db, err := database.NewDB(&cfg.Database, zapLogger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	if err := database.RunMigrations(sqlDB, zapLogger); err != nil {
		return err
	}

	// ── Redis（可选，失败时降级）──
	rdb, err := redis.NewClient(&cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Warn("Redis 不可用，运行锁与黑名单降级", zap.Error(err))
		rdb = nil
	} else {
		defer func() { _ = rdb.Close() }()
	}

	// ── 装配 ──
	jwtManager := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, rdb, zapLogger)
	h := handler.NewHandler(svc, zapLogger)
	engine := router.Setup(cfg, h, jwtManager, rdb, zapLogger)

	// ── 定时生成 ──
	var scheduler *cron.Cron
	if cfg.Scheduler.AutoMaterialize {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.Scheduler.Cron, func() {
			resp, err := svc.Recurring.Process(context.Background(), "")
			if err != nil {
				if errors.Is(err, pkgerrors.ErrProcessRunning) {
					zapLogger.Info("已有生成批次在运行，本次定时触发跳过")
					return
				}
				zapLogger.Error("定时生成批次失败", zap.Error(err))
				return
			}
			zapLogger.Info("定时生成批次完成",
				zap.Int("created", resp.Summary.Created),
				zap.Int("skipped", resp.Summary.Skipped),
				zap.Int("failed", resp.Summary.Failed),
			)
		})
		if err != nil {
			return fmt.Errorf("注册定时生成任务失败: %w", err)
		}
		scheduler.Start()
		zapLogger.Info("定时生成任务已启动", zap.String("cron", cfg.Scheduler.Cron))
	}

	// ── HTTP 服务 ──
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("HTTP 服务启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// ── 优雅退出 ──
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		zapLogger.Info("收到退出信号", zap.String("signal", sig.String()))
	}

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("关闭 HTTP 服务失败: %w", err)
	}

	zapLogger.Info("服务已退出")
	return nil
}
