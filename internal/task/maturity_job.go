package task

import (
	"time"

	"github.com/ShamirSecret/invest/internal/config"
	"github.com/ShamirSecret/invest/internal/logger"
	"github.com/ShamirSecret/invest/internal/logic"
	"github.com/go-co-op/gocron/v2"
)

// MaturityJob 到期晋升任务。
// 和读取路径上的惰性晋升执行同一条件更新，保证状态新鲜度不依赖读流量。
type MaturityJob struct {
	investmentLogic *logic.InvestmentLogic
	config          *config.Config
}

// NewMaturityJob 创建到期晋升任务
func NewMaturityJob(investmentLogic *logic.InvestmentLogic, cfg *config.Config) *MaturityJob {
	return &MaturityJob{
		investmentLogic: investmentLogic,
		config:          cfg,
	}
}

// GetName 获取任务名称
func (j *MaturityJob) GetName() string {
	return "investment_maturity_promoter"
}

// GetSchedule 获取调度配置
func (j *MaturityJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.MaturityInterval) * time.Second)
}

// Execute 执行任务
func (j *MaturityJob) Execute() {
	promoted, err := j.investmentLogic.PromoteMatured()
	if err != nil {
		logger.Error("Maturity job failed: %v", err)
		return
	}
	if promoted > 0 {
		logger.Info("Promoted %d investments to matured", promoted)
	}
}
