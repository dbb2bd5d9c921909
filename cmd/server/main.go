package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shared-tw/backend/internal/config"
	"github.com/shared-tw/backend/internal/database"
	"github.com/shared-tw/backend/internal/logger"
	"github.com/shared-tw/backend/internal/logic"
	"github.com/shared-tw/backend/internal/repository"
	"github.com/shared-tw/backend/internal/router"
	"github.com/shared-tw/backend/internal/scheduler"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	if err := logger.InitFromConfig(cfg.Log); err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("auth.jwt_secret is required")
	}

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	store := repository.NewStore(db)
	donations, requiredItems := logic.New(store, logic.Options{
		CascadeWorkers: cfg.Donation.CascadeWorkers,
	})

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(cfg, router.Services{
		Accounts:      logic.NewAccountLogic(store),
		Donations:     donations,
		RequiredItems: requiredItems,
	})

	// 启动定时任务
	if cfg.Scheduler.Enabled {
		manager, err := scheduler.Start(store, cfg.Scheduler)
		if err != nil {
			logger.Fatal("Failed to start scheduler: %v", err)
		}
		defer manager.Stop()
	}

	// 启动服务器
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
}
