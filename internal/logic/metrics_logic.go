package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/ShamirSecret/invest/internal/apperr"
	"github.com/ShamirSecret/invest/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MetricsLogic 平台指标业务逻辑
type MetricsLogic struct {
	db *gorm.DB
}

// NewMetricsLogic 创建平台指标业务逻辑
func NewMetricsLogic(db *gorm.DB) *MetricsLogic {
	return &MetricsLogic{db: db}
}

// ComputeCurrentMetrics 从投资与收益充值记录实时汇总指标，无副作用
func (m *MetricsLogic) ComputeCurrentMetrics() (*model.PlatformMetricsModel, error) {
	var totals struct {
		TotalInvestment       decimal.Decimal
		TotalActiveInvestment decimal.Decimal
		TotalInvestmentCount  int64
		ActiveInvestmentCount int64
		TotalProfitClaimed    decimal.Decimal
	}

	err := m.db.Raw(`
		SELECT
			COALESCE(SUM(invested_amount_weusd), 0) AS total_investment,
			COALESCE(SUM(CASE WHEN status = 'active' THEN invested_amount_weusd ELSE 0 END), 0) AS total_active_investment,
			COUNT(*) AS total_investment_count,
			COUNT(CASE WHEN status = 'active' THEN 1 END) AS active_investment_count,
			COALESCE(SUM(CASE WHEN status = 'redeemed' THEN expected_profit_weusd ELSE 0 END), 0) AS total_profit_claimed
		FROM investments
	`).Scan(&totals).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrPersistence, fmt.Errorf("failed to aggregate investments: %w", err))
	}

	var totalProfitDeposited decimal.Decimal
	err = m.db.Model(&model.ProfitDepositModel{}).
		Select("COALESCE(SUM(amount_weusd), 0)").
		Scan(&totalProfitDeposited).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrPersistence, fmt.Errorf("failed to aggregate profit deposits: %w", err))
	}

	return &model.PlatformMetricsModel{
		SnapshotTimestamp:          time.Now().UTC(),
		TotalInvestmentWeusd:       totals.TotalInvestment,
		TotalActiveInvestmentWeusd: totals.TotalActiveInvestment,
		TotalProfitDepositedWeusd:  totalProfitDeposited,
		TotalProfitClaimedWeusd:    totals.TotalProfitClaimed,
		ActiveInvestmentCount:      totals.ActiveInvestmentCount,
		TotalInvestmentCount:       totals.TotalInvestmentCount,
	}, nil
}

// GetMetrics 返回最近一次指标快照。
// 没有任何快照时现算一份并落库；已有快照则原样返回，
// 刷新交给定时任务，快照永远只是缓存而非权威数据。
func (m *MetricsLogic) GetMetrics() (*model.PlatformMetricsModel, error) {
	var snapshot model.PlatformMetricsModel
	err := m.db.Order("snapshot_timestamp DESC").First(&snapshot).Error
	if err == nil {
		return &snapshot, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.ErrPersistence, fmt.Errorf("failed to load metrics snapshot: %w", err))
	}

	return m.RefreshMetrics()
}

// RefreshMetrics 重算指标并写入一份新快照
func (m *MetricsLogic) RefreshMetrics() (*model.PlatformMetricsModel, error) {
	snapshot, err := m.ComputeCurrentMetrics()
	if err != nil {
		return nil, err
	}

	if err := m.db.Create(snapshot).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrPersistence, fmt.Errorf("failed to persist metrics snapshot: %w", err))
	}

	return snapshot, nil
}
