package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfitDepositModel 收益池充值记录，只增不改
type ProfitDepositModel struct {
	Id        int64     `json:"deposit_id" gorm:"column:deposit_id;primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	AssetId         int64           `json:"asset_id" gorm:"not null;index"`
	AmountWeusd     decimal.Decimal `json:"amount_weusd" gorm:"type:decimal(38,18);not null"`
	TransactionHash string          `json:"transaction_hash"`
	DepositedAt     time.Time       `json:"deposited_at" gorm:"not null"`
}

// TableName 自定义表名
func (ProfitDepositModel) TableName() string {
	return "profit_deposits"
}
