package main

import (
	"log"

	"github.com/ShamirSecret/invest/internal/config"
	"github.com/ShamirSecret/invest/internal/gateway"
	"github.com/ShamirSecret/invest/internal/logger"
	"github.com/ShamirSecret/invest/internal/monitor"
	"github.com/ShamirSecret/invest/internal/repository"
	"github.com/ShamirSecret/invest/internal/router"
	"github.com/ShamirSecret/invest/internal/task"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := repository.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化结算网关
	var gw gateway.Gateway
	var chainClient *gateway.ChainClient
	switch cfg.Chain.Type {
	case "ethereum":
		chainClient, err = gateway.NewChainClient(cfg.Chain)
		if err != nil {
			logger.Fatal("Failed to initialize chain client: %v", err)
		}
		gw = chainClient
	default:
		logger.Info("Using mock settlement gateway")
		gw = gateway.NewMockGateway()
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, gw, cfg)

	// 启动定时任务
	manager := task.Start(db, gw, cfg)
	defer manager.Stop()

	// 启动链上事件监控
	if chainClient != nil {
		eventMonitor := monitor.NewEventMonitor(chainClient, db, cfg.Chain)
		if err := eventMonitor.Start(); err != nil {
			logger.Fatal("Failed to start event monitor: %v", err)
		}
		defer eventMonitor.Stop()
	}

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
