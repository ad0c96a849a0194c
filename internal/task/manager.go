package task

import (
	"time"

	"github.com/ShamirSecret/invest/internal/config"
	"github.com/ShamirSecret/invest/internal/gateway"
	"github.com/ShamirSecret/invest/internal/logger"
	"github.com/ShamirSecret/invest/internal/logic"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Job 定时任务接口
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	db        *gorm.DB
	gw        gateway.Gateway
	config    *config.Config
}

// NewManager 创建任务管理器
func NewManager(db *gorm.DB, gw gateway.Gateway, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler: s,
		db:        db,
		gw:        gw,
		config:    cfg,
	}
}

// Start 启动任务管理器
func Start(db *gorm.DB, gw gateway.Gateway, cfg *config.Config) *Manager {
	manager := NewManager(db, gw, cfg)

	// 注册所有任务
	manager.RegisterJobs()

	// 启动调度器
	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	callTimeout := time.Duration(m.config.Chain.CallTimeoutSec) * time.Second
	investmentLogic := logic.NewInvestmentLogic(m.db, logic.NewAssetLogic(m.db), m.gw, callTimeout)
	metricsLogic := logic.NewMetricsLogic(m.db)

	m.registerJob(NewMaturityJob(investmentLogic, m.config))
	m.registerJob(NewMetricsJob(metricsLogic, m.config))
	m.registerJob(NewReconcileJob(m.db, m.config))
}

// registerJob 注册单个任务
func (m *Manager) registerJob(job Job) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
