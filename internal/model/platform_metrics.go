package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlatformMetricsModel 平台汇总指标快照。
// 快照只是缓存，随时可以从 investments 和 profit_deposits 重算，不是权威数据。
type PlatformMetricsModel struct {
	Id                int64     `json:"metric_id" gorm:"column:metric_id;primaryKey"`
	SnapshotTimestamp time.Time `json:"snapshot_timestamp" gorm:"not null;index"`

	TotalInvestmentWeusd       decimal.Decimal `json:"total_investment_weusd" gorm:"type:decimal(38,18);not null"`
	TotalActiveInvestmentWeusd decimal.Decimal `json:"total_active_investment_weusd" gorm:"type:decimal(38,18);not null"`
	TotalProfitDepositedWeusd  decimal.Decimal `json:"total_profit_deposited_weusd" gorm:"type:decimal(38,18);not null"`
	TotalProfitClaimedWeusd    decimal.Decimal `json:"total_profit_claimed_weusd" gorm:"type:decimal(38,18);not null"`
	ActiveInvestmentCount      int64           `json:"active_investment_count" gorm:"not null"`
	TotalInvestmentCount       int64           `json:"total_investment_count" gorm:"not null"`
}

// TableName 自定义表名
func (PlatformMetricsModel) TableName() string {
	return "platform_metrics"
}
