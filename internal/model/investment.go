package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentModel 用户投资记录
type InvestmentModel struct {
	Id        int64     `json:"investment_id" gorm:"column:investment_id;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 归属
	UserWalletAddress string `json:"user_wallet_address" gorm:"not null;index"`
	AssetId           int64  `json:"asset_id" gorm:"not null;index"`
	TermId            int64  `json:"term_id" gorm:"not null"`

	// 金额信息，投资时一次性固定，之后不再重算
	InvestedAmountWeusd decimal.Decimal `json:"invested_amount_weusd" gorm:"type:decimal(38,18);not null"`
	ExpectedProfitWeusd decimal.Decimal `json:"expected_profit_weusd" gorm:"type:decimal(38,18);not null"`

	// 时间信息
	InvestmentDate time.Time  `json:"investment_date" gorm:"not null"`
	MaturityDate   time.Time  `json:"maturity_date" gorm:"not null;index"`
	RedeemedDate   *time.Time `json:"redeemed_date"`

	// 状态
	Status InvestmentStatus `json:"status" gorm:"default:'active';index"`

	// 链上交易信息
	TransactionHashInvest string `json:"transaction_hash_invest"`
	TransactionHashRedeem string `json:"transaction_hash_redeem"`
}

// InvestmentStatus 投资状态
type InvestmentStatus string

const (
	InvestmentStatusActive    InvestmentStatus = "active"    // 持有中
	InvestmentStatusMatured   InvestmentStatus = "matured"   // 已到期
	InvestmentStatusRedeemed  InvestmentStatus = "redeemed"  // 已赎回
	InvestmentStatusCancelled InvestmentStatus = "cancelled" // 已取消
)

// TableName 自定义表名
func (InvestmentModel) TableName() string {
	return "investments"
}

// PortfolioItem 投资记录关联标的名称与期限标签
type PortfolioItem struct {
	InvestmentModel `gorm:"embedded"`
	AssetName       string `json:"asset_name"`
	TermLabel       string `json:"term_label"`
}
