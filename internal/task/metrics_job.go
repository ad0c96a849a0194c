package task

import (
	"time"

	"github.com/ShamirSecret/invest/internal/config"
	"github.com/ShamirSecret/invest/internal/logger"
	"github.com/ShamirSecret/invest/internal/logic"
	"github.com/go-co-op/gocron/v2"
)

// MetricsJob 指标快照刷新任务。
// 快照永远是缓存，这个任务把过期时间上限压到刷新间隔以内。
type MetricsJob struct {
	metricsLogic *logic.MetricsLogic
	config       *config.Config
}

// NewMetricsJob 创建指标快照刷新任务
func NewMetricsJob(metricsLogic *logic.MetricsLogic, cfg *config.Config) *MetricsJob {
	return &MetricsJob{
		metricsLogic: metricsLogic,
		config:       cfg,
	}
}

// GetName 获取任务名称
func (j *MetricsJob) GetName() string {
	return "platform_metrics_refresher"
}

// GetSchedule 获取调度配置
func (j *MetricsJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.MetricsInterval) * time.Second)
}

// Execute 执行任务
func (j *MetricsJob) Execute() {
	snapshot, err := j.metricsLogic.RefreshMetrics()
	if err != nil {
		logger.Error("Metrics refresh job failed: %v", err)
		return
	}
	logger.Debug("Metrics snapshot refreshed: %d investments, %d active",
		snapshot.TotalInvestmentCount, snapshot.ActiveInvestmentCount)
}
