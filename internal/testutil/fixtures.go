package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ShamirSecret/invest/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter 保证同一测试进程内的工厂数据唯一
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestWallet 测试用钱包地址
const TestWallet = "0x1234567890123456789012345678901234567890"

// CreateTestAsset 创建一个国债标的，带一个30天4%的期限
func CreateTestAsset(t *testing.T, db *gorm.DB) *model.AssetModel {
	t.Helper()
	return CreateTestAssetWithTerm(t, db, 30, "1 Month", "0.04")
}

// CreateTestAssetWithTerm 创建标的并附带指定期限
func CreateTestAssetWithTerm(t *testing.T, db *gorm.DB, days int, label, apy string) *model.AssetModel {
	t.Helper()

	asset := &model.AssetModel{
		OnchainAssetId: fmt.Sprintf("USTB-TEST-%d", nextID()),
		Name:           fmt.Sprintf("Test Treasury Bond %d", nextID()),
		AssetType:      model.AssetTypeTreasuryBond,
		Issuer:         "US Treasury",
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}

	term := &model.AssetTermModel{
		AssetId:          asset.Id,
		TermDurationDays: days,
		TermLabel:        label,
		Apy:              mustDecimal(t, apy),
		IsActive:         true,
	}
	if err := db.Create(term).Error; err != nil {
		t.Fatalf("failed to create test term: %v", err)
	}

	asset.Terms = []model.AssetTermModel{*term}
	return asset
}

// CreateTestTerm 给已有标的追加期限
func CreateTestTerm(t *testing.T, db *gorm.DB, assetId int64, days int, label, apy string, active bool) *model.AssetTermModel {
	t.Helper()

	term := &model.AssetTermModel{
		AssetId:          assetId,
		TermDurationDays: days,
		TermLabel:        label,
		Apy:              mustDecimal(t, apy),
		IsActive:         active,
	}
	if err := db.Create(term).Error; err != nil {
		t.Fatalf("failed to create test term: %v", err)
	}
	return term
}

// CreateTestInvestment 直接落一条指定状态的投资记录
func CreateTestInvestment(t *testing.T, db *gorm.DB, asset *model.AssetModel, wallet string, status model.InvestmentStatus) *model.InvestmentModel {
	t.Helper()

	if len(asset.Terms) == 0 {
		t.Fatal("test asset has no terms")
	}
	term := asset.Terms[0]

	now := time.Now().UTC()
	investment := &model.InvestmentModel{
		UserWalletAddress:     wallet,
		AssetId:               asset.Id,
		TermId:                term.Id,
		InvestedAmountWeusd:   mustDecimal(t, "10000"),
		ExpectedProfitWeusd:   mustDecimal(t, "32.876712328767123288"),
		InvestmentDate:        now,
		MaturityDate:          now.AddDate(0, 0, term.TermDurationDays),
		Status:                status,
		TransactionHashInvest: fmt.Sprintf("0xtestInvestTx%d", nextID()),
	}
	if err := db.Create(investment).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return investment
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal literal %q: %v", s, err)
	}
	return d
}
