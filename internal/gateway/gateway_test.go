package gateway

import (
	"context"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToFixedPoint(t *testing.T) {
	t.Run("whole_amount", func(t *testing.T) {
		d, _ := decimal.NewFromString("10000")
		wei, err := ToFixedPoint(d, 18)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if wei.String() != "10000000000000000000000" {
			t.Errorf("expected 10000000000000000000000, got %s", wei.String())
		}
	})

	t.Run("fractional_amount", func(t *testing.T) {
		d, _ := decimal.NewFromString("1.5")
		wei, err := ToFixedPoint(d, 18)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if wei.String() != "1500000000000000000" {
			t.Errorf("expected 1500000000000000000, got %s", wei.String())
		}
	})

	t.Run("full_precision", func(t *testing.T) {
		d, _ := decimal.NewFromString("32.876712328767123288")
		wei, err := ToFixedPoint(d, 18)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if wei.String() != "32876712328767123288" {
			t.Errorf("expected 32876712328767123288, got %s", wei.String())
		}
	})

	t.Run("excess_precision_rejected", func(t *testing.T) {
		d, _ := decimal.NewFromString("0.0000000000000000001") // 19位小数
		if _, err := ToFixedPoint(d, 18); err == nil {
			t.Error("expected error for amount exceeding precision")
		}
	})
}

func TestFromFixedPoint(t *testing.T) {
	wei, _ := new(big.Int).SetString("32876712328767123288", 10)
	d := FromFixedPoint(wei, 18)
	if d.String() != "32.876712328767123288" {
		t.Errorf("expected 32.876712328767123288, got %s", d.String())
	}
}

func TestFixedPointRoundTrip(t *testing.T) {
	for _, s := range []string{"0.000000000000000001", "1", "10000.25", "999999999.123456789012345678"} {
		d, _ := decimal.NewFromString(s)
		wei, err := ToFixedPoint(d, 18)
		if err != nil {
			t.Fatalf("ToFixedPoint(%s): %v", s, err)
		}
		back := FromFixedPoint(wei, 18)
		if !back.Equal(d) {
			t.Errorf("round trip of %s gave %s", s, back.String())
		}
	}
}

func TestMockGateway(t *testing.T) {
	ctx := context.Background()

	t.Run("invest_success", func(t *testing.T) {
		gw := NewMockGateway()
		res, err := gw.Invest(ctx, "USTB-Q3-2025", 30, big.NewInt(1000))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Success || res.TxHash == "" {
			t.Errorf("expected successful invest with tx hash, got %+v", res)
		}
		if len(gw.Calls()) != 1 {
			t.Errorf("expected 1 recorded call, got %d", len(gw.Calls()))
		}
	})

	t.Run("invest_failure_switch", func(t *testing.T) {
		gw := NewMockGateway()
		gw.FailInvest = true
		res, err := gw.Invest(ctx, "USTB-Q3-2025", 30, big.NewInt(1000))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Success {
			t.Error("expected failed invest")
		}
	})

	t.Run("deposit_updates_pool", func(t *testing.T) {
		gw := NewMockGateway()
		before, err := gw.PoolBalances(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		amount := new(big.Int).Mul(big.NewInt(100), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
		res, err := gw.DepositProfit(ctx, "USTB-Q3-2025", amount)
		if err != nil || !res.Success {
			t.Fatalf("deposit failed: %v %+v", err, res)
		}

		after, err := gw.PoolBalances(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := new(big.Int).Add(before["USTB-Q3-2025"], amount)
		if after["USTB-Q3-2025"].Cmp(want) != 0 {
			t.Errorf("expected pool %s, got %s", want, after["USTB-Q3-2025"])
		}
	})

	t.Run("context_cancelled", func(t *testing.T) {
		gw := NewMockGateway()
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := gw.Invest(cancelled, "USTB-Q3-2025", 30, big.NewInt(1)); err == nil {
			t.Error("expected context error")
		}
	})
}
