package task

import (
	"time"

	"github.com/ShamirSecret/invest/internal/config"
	"github.com/ShamirSecret/invest/internal/logger"
	"github.com/ShamirSecret/invest/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// ReconcileJob 对账提醒任务。
// 不做自动补偿，只把网关成功、台账缺失的挂起记录周期性地暴露出来。
type ReconcileJob struct {
	db     *gorm.DB
	config *config.Config
}

// NewReconcileJob 创建对账提醒任务
func NewReconcileJob(db *gorm.DB, cfg *config.Config) *ReconcileJob {
	return &ReconcileJob{
		db:     db,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *ReconcileJob) GetName() string {
	return "reconcile_reporter"
}

// GetSchedule 获取调度配置
func (j *ReconcileJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.ReconcileInterval) * time.Second)
}

// Execute 执行任务
func (j *ReconcileJob) Execute() {
	var pending []model.ReconcileRecordModel
	err := j.db.
		Where("status = ?", model.ReconcileStatusPending).
		Order("created_at ASC").
		Find(&pending).Error
	if err != nil {
		logger.Error("Reconcile job failed to load pending records: %v", err)
		return
	}

	if len(pending) == 0 {
		return
	}

	logger.Warn("%d reconcile records pending manual resolution", len(pending))
	for _, record := range pending {
		logger.Warn("Pending reconcile: op=%s tx=%s wallet=%s amount=%s since=%s",
			record.Operation, record.TxHash, record.UserWalletAddress,
			record.AmountWeusd, record.CreatedAt.Format(time.RFC3339))
	}
}
