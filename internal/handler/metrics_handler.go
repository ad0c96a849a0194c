package handler

import (
	"net/http"

	"github.com/ShamirSecret/invest/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MetricsHandler 平台指标处理器
type MetricsHandler struct {
	metricsLogic *logic.MetricsLogic
}

// NewMetricsHandler 创建平台指标处理器
func NewMetricsHandler(db *gorm.DB) *MetricsHandler {
	return &MetricsHandler{
		metricsLogic: logic.NewMetricsLogic(db),
	}
}

// GetMetrics 获取平台汇总指标
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	metrics, err := h.metricsLogic.GetMetrics()
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Metrics fetched", metrics)
}

// RefreshMetrics 强制重算指标快照
func (h *MetricsHandler) RefreshMetrics(c *gin.Context) {
	metrics, err := h.metricsLogic.RefreshMetrics()
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Metrics refreshed", metrics)
}
