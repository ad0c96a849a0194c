package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetModel RWA投资标的
type AssetModel struct {
	Id        int64     `json:"asset_id" gorm:"column:asset_id;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	OnchainAssetId string `json:"onchain_asset_id" gorm:"not null;uniqueIndex"`
	Name           string `json:"name" gorm:"not null"`
	Description    string `json:"description" gorm:"type:text"`
	AssetType      string `json:"asset_type" gorm:"not null"`
	Issuer         string `json:"issuer"`

	// 债券信息
	BondIsin         string     `json:"bond_isin"`
	BondMaturityDate *time.Time `json:"bond_maturity_date"`

	// 关联
	Terms []AssetTermModel `json:"terms,omitempty" gorm:"foreignKey:AssetId;references:Id"`
}

// AssetType 标的类型
const (
	AssetTypeTreasuryBond  = "us_treasury_bond"
	AssetTypeCorporateBond = "corporate_bond"
)

// TableName 自定义表名
func (AssetModel) TableName() string {
	return "assets"
}

// AssetTermModel 标的投资期限
type AssetTermModel struct {
	Id        int64     `json:"term_id" gorm:"column:term_id;primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	AssetId          int64           `json:"asset_id" gorm:"not null;index"`
	TermDurationDays int             `json:"term_duration_days" gorm:"not null"`
	TermLabel        string          `json:"term_label" gorm:"not null"`
	Apy              decimal.Decimal `json:"apy" gorm:"type:decimal(10,6);not null"` // 年化收益率，小数表示
	IsActive         bool            `json:"is_active" gorm:"not null"`
}

// TableName 自定义表名
func (AssetTermModel) TableName() string {
	return "asset_terms"
}

// RecognizedTermDays 平台支持的投资期限（天）
var RecognizedTermDays = []int{1, 7, 14, 30, 90, 180}

// IsRecognizedTermDuration 判断期限是否在支持范围内
func IsRecognizedTermDuration(days int) bool {
	for _, d := range RecognizedTermDays {
		if d == days {
			return true
		}
	}
	return false
}
