package model

import (
	"time"
)

// ChainEventModel 链上事件记录
type ChainEventModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ContractAddress string `json:"contract_address" gorm:"not null"`
	EventName       string `json:"event_name" gorm:"not null;index"`
	TxHash          string `json:"tx_hash" gorm:"not null;index"`
	BlockNum        int64  `json:"block_num" gorm:"not null;index"`
	LogIndex        int64  `json:"log_index"`
	Data            string `json:"data" gorm:"type:text"`
	Processed       bool   `json:"processed" gorm:"default:false"`
}

// TableName 自定义表名
func (ChainEventModel) TableName() string {
	return "chain_events"
}
