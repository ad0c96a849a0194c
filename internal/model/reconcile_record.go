package model

import (
	"time"
)

// ReconcileRecordModel 对账记录。
// 结算网关已经成功、本地写入失败时落一条，等待人工处理或链上事件确认。
type ReconcileRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Operation         string     `json:"operation" gorm:"not null"` // invest, redeem, deposit_profit
	UserWalletAddress string     `json:"user_wallet_address"`
	OnchainAssetId    string     `json:"onchain_asset_id"`
	AmountWeusd       string     `json:"amount_weusd"`
	TxHash            string     `json:"tx_hash" gorm:"not null;index"`
	Detail            string     `json:"detail" gorm:"type:text"`
	Status            string     `json:"status" gorm:"default:'pending';index"`
	ResolvedAt        *time.Time `json:"resolved_at"`
}

// ReconcileStatus 对账状态
const (
	ReconcileStatusPending  = "pending"
	ReconcileStatusResolved = "resolved"
)

// TableName 自定义表名
func (ReconcileRecordModel) TableName() string {
	return "reconcile_records"
}
