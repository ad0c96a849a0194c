package router

import (
	"time"

	"github.com/ShamirSecret/invest/internal/config"
	"github.com/ShamirSecret/invest/internal/gateway"
	"github.com/ShamirSecret/invest/internal/handler"
	"github.com/ShamirSecret/invest/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, gw gateway.Gateway, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "rwa-invest-service",
		})
	})

	callTimeout := time.Duration(cfg.Chain.CallTimeoutSec) * time.Second
	assetLogic := logic.NewAssetLogic(db)
	investmentLogic := logic.NewInvestmentLogic(db, assetLogic, gw, callTimeout)
	profitLogic := logic.NewProfitLogic(db, gw, callTimeout)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 标的目录
		assetHandler := handler.NewAssetHandler(db)
		assets := v1.Group("/assets")
		{
			assets.GET("", assetHandler.ListAssets)
			assets.POST("", assetHandler.CreateAsset)
			assets.GET("/:id", assetHandler.GetAsset)
		}

		// 投资台账
		investmentHandler := handler.NewInvestmentHandler(investmentLogic, cfg.Server.DefaultWallet)
		investments := v1.Group("/investments")
		{
			investments.POST("", investmentHandler.OpenInvestment)
			investments.GET("/portfolio", investmentHandler.ListPortfolio)
			investments.POST("/:id/redeem", investmentHandler.RedeemInvestment)
		}

		// 管理端
		metricsHandler := handler.NewMetricsHandler(db)
		profitHandler := handler.NewProfitHandler(profitLogic)
		admin := v1.Group("/admin")
		{
			admin.GET("/metrics", metricsHandler.GetMetrics)
			admin.POST("/metrics/refresh", metricsHandler.RefreshMetrics)
			admin.POST("/profits", profitHandler.DepositProfit)
			admin.GET("/profits/pools", profitHandler.GetPoolBalances)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
