package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"physioward/backend/config"
	"physioward/backend/internal/api/handler"
	"physioward/backend/internal/api/router"
	"physioward/backend/internal/repository"
	"physioward/backend/internal/service"
	"physioward/backend/pkg/database"
	"physioward/backend/pkg/jwt"
	"physioward/backend/pkg/logger"
	"physioward/backend/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（留空则按默认位置查找）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zlog, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	// 3. 连接数据库并执行迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, zlog)
	if err != nil {
		zlog.Fatal("连接数据库失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zlog.Fatal("获取底层连接失败", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, zlog); err != nil {
		zlog.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis；失败时降级运行（黑名单与限流不生效）
	rdb, err := redis.NewClient(&cfg.Redis, zlog)
	if err != nil {
		zlog.Warn("Redis 连接失败，token 黑名单与限流降级", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// 5. 组装依赖
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, jwtMgr, rdb, zlog)
	h := handler.NewHandler(svc, zlog)
	engine := router.Setup(cfg, h, jwtMgr, rdb, zlog)

	// 6. 启动 HTTP 服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zlog.Info("服务器启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("服务器异常退出", zap.Error(err))
		}
	}()

	// 7. 优雅关闭
	<-ctx.Done()
	zlog.Info("收到退出信号，开始优雅关闭")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("优雅关闭失败", zap.Error(err))
	}
	zlog.Info("服务器已退出")
}
