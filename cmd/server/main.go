package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/burbuqebeqiraj/PlusAPI/config"
	"github.com/burbuqebeqiraj/PlusAPI/internal/api/handler"
	"github.com/burbuqebeqiraj/PlusAPI/internal/api/router"
	"github.com/burbuqebeqiraj/PlusAPI/internal/repository"
	"github.com/burbuqebeqiraj/PlusAPI/internal/service"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/database"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/jwt"
	applogger "github.com/burbuqebeqiraj/PlusAPI/pkg/logger"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/metrics"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/redis"
	"github.com/burbuqebeqiraj/PlusAPI/pkg/trace"
)

// version 构建时通过 -ldflags 注入
var version = "dev"

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:          "plus-api",
		Short:        "PlusAPI 后台管理服务",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移并写入初始数据",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrateOnly()
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "打印版本号",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("plus-api version %s\n", version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径（默认 ./config/config.yaml）")
	rootCmd.AddCommand(serveCmd, migrateCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap 加载配置、初始化日志并连接数据库（含迁移与初始数据）
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := database.Migrate(db, cfg.Database.Type, logger); err != nil {
		return nil, nil, nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	if err := database.Seed(context.Background(), db, cfg.Auth.SeedPassword, logger); err != nil {
		return nil, nil, nil, fmt.Errorf("写入初始数据失败: %w", err)
	}

	return cfg, logger, db, nil
}

func migrateOnly() error {
	_, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	closeDB(db)

	logger.Info("数据库迁移完成")
	return nil
}

func serve() error {
	cfg, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer closeDB(db)

	logger.Info("应用启动中...",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.String("db_type", cfg.Database.Type),
	)

	// 链路追踪（未启用时为 no-op）
	shutdownTrace, err := trace.InitTracing(context.Background(), &cfg.Trace, logger)
	if err != nil {
		return fmt.Errorf("初始化链路追踪失败: %w", err)
	}

	// Redis 可选：连接失败时降级运行
	var (
		rdb       *redis.Client
		blacklist service.TokenBlacklist
	)
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，Token 黑名单与分布式限流将不可用", zap.Error(err))
			rdb = nil
		} else {
			blacklist = rdb
			defer rdb.Close()
		}
	}

	var (
		m        *metrics.Metrics
		recorder handler.LoginRecorder
	)
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics)
		recorder = m
	}

	// 依赖注入: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, blacklist, logger)
	h := handler.NewHandler(svc, recorder, logger)

	var pinger router.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}

	engine := router.Setup(router.Deps{
		Config:  cfg,
		Handler: h,
		JWT:     jwtMgr,
		Redis:   rdb,
		Metrics: m,
		DB:      pinger,
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("HTTP 服务器异常", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}
	if err := shutdownTrace(ctx); err != nil {
		logger.Warn("链路追踪关闭异常", zap.Error(err))
	}

	logger.Info("服务器已关闭")
	return nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
