package logic

import (
	"testing"
	"time"

	"github.com/ShamirSecret/invest/internal/gateway"
	"github.com/ShamirSecret/invest/internal/model"
	"github.com/ShamirSecret/invest/internal/testutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newProfitLogic(db *gorm.DB, gw gateway.Gateway) *ProfitLogic {
	return NewProfitLogic(db, gw, 5*time.Second)
}

func TestDepositProfit(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gw := gateway.NewMockGateway()
		l := newProfitLogic(db, gw)
		asset := testutil.CreateTestAsset(t, db)

		txHash, err := l.DepositProfit(asset.OnchainAssetId, "500.25")
		testutil.AssertNoError(t, err)
		if txHash == "" {
			t.Fatal("expected transaction hash")
		}

		var deposit model.ProfitDepositModel
		if err := db.First(&deposit).Error; err != nil {
			t.Fatalf("expected persisted deposit: %v", err)
		}
		if deposit.AssetId != asset.Id {
			t.Errorf("expected asset id %d, got %d", asset.Id, deposit.AssetId)
		}
		if !deposit.AmountWeusd.Equal(decimal.RequireFromString("500.25")) {
			t.Errorf("expected amount 500.25, got %s", deposit.AmountWeusd)
		}
		if deposit.TransactionHash != txHash {
			t.Errorf("expected tx hash %s, got %s", txHash, deposit.TransactionHash)
		}

		calls := gw.Calls()
		if len(calls) != 1 || calls[0].Op != "deposit_profit" {
			t.Fatalf("expected a single deposit gateway call, got %+v", calls)
		}
		if calls[0].Amount.String() != "500250000000000000000" {
			t.Errorf("expected fixed point amount, got %s", calls[0].Amount)
		}
	})

	t.Run("unknown_asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gw := gateway.NewMockGateway()
		l := newProfitLogic(db, gw)

		_, err := l.DepositProfit("USTB-UNKNOWN", "500")
		testutil.AssertAppError(t, err, "INVALID_SELECTION")
		if len(gw.Calls()) != 0 {
			t.Errorf("expected no gateway calls, got %d", len(gw.Calls()))
		}
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gw := gateway.NewMockGateway()
		l := newProfitLogic(db, gw)
		asset := testutil.CreateTestAsset(t, db)

		for _, amount := range []string{"0", "-1", "nope"} {
			_, err := l.DepositProfit(asset.OnchainAssetId, amount)
			testutil.AssertAppError(t, err, "INVALID_AMOUNT")
		}
		if len(gw.Calls()) != 0 {
			t.Errorf("expected no gateway calls, got %d", len(gw.Calls()))
		}
	})

	t.Run("gateway_failure", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gw := gateway.NewMockGateway()
		gw.FailDeposit = true
		l := newProfitLogic(db, gw)
		asset := testutil.CreateTestAsset(t, db)

		_, err := l.DepositProfit(asset.OnchainAssetId, "500")
		testutil.AssertAppError(t, err, "SETTLEMENT_FAILED")

		var count int64
		db.Model(&model.ProfitDepositModel{}).Count(&count)
		if count != 0 {
			t.Errorf("expected no persisted deposits, got %d", count)
		}
	})
}

func TestPoolBalances(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	gw := gateway.NewMockGateway()
	l := newProfitLogic(db, gw)

	balances, err := l.PoolBalances()
	testutil.AssertNoError(t, err)

	// 模拟网关预置池子，余额换算回十进制字符串
	if got := balances["USTB-Q3-2025"]; got != "50000" {
		t.Errorf("expected 50000, got %q", got)
	}
	if got := balances["CORPB-XYZ-2026"]; got != "25000" {
		t.Errorf("expected 25000, got %q", got)
	}
}

func TestPoolBalancesReflectDeposits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	gw := gateway.NewMockGateway()
	l := newProfitLogic(db, gw)

	asset := testutil.CreateTestAsset(t, db)

	_, err := l.DepositProfit(asset.OnchainAssetId, "100")
	testutil.AssertNoError(t, err)

	balances, err := l.PoolBalances()
	testutil.AssertNoError(t, err)
	if got := balances[asset.OnchainAssetId]; got != "100" {
		t.Errorf("expected deposited pool balance 100, got %q", got)
	}
}
