package gateway

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ShamirSecret/invest/internal/logger"
)

// MockCall 模拟网关收到的一次调用
type MockCall struct {
	Op             string
	OnchainAssetId string
	TermDays       int
	Amount         *big.Int
	InvestmentRef  string
}

// MockGateway 模拟结算网关。
// 开发环境和测试使用，不产生真实资金划转，行为可通过开关控制。
type MockGateway struct {
	mu    sync.Mutex
	seq   int64
	calls []MockCall

	// 故障开关
	FailInvest  bool
	FailRedeem  bool
	FailDeposit bool
	// 返回成功但不带交易哈希
	OmitTxHash bool

	// 各标的收益池余额
	pools map[string]*big.Int
}

// NewMockGateway 创建模拟网关
func NewMockGateway() *MockGateway {
	return &MockGateway{
		pools: map[string]*big.Int{
			"USTB-Q3-2025":   mustBig("50000000000000000000000"),
			"CORPB-XYZ-2026": mustBig("25000000000000000000000"),
		},
	}
}

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid big int literal: " + s)
	}
	return v
}

// Invest 模拟投资
func (g *MockGateway) Invest(ctx context.Context, onchainAssetId string, termDurationDays int, amount *big.Int) (*InvestResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.record(MockCall{Op: "invest", OnchainAssetId: onchainAssetId, TermDays: termDurationDays, Amount: amount})

	if g.FailInvest {
		return &InvestResult{Success: false}, nil
	}
	if g.OmitTxHash {
		return &InvestResult{Success: true}, nil
	}

	logger.Debug("[MockGateway] invest %s in asset %s for %d days", amount.String(), onchainAssetId, termDurationDays)
	return &InvestResult{Success: true, TxHash: g.nextTxHash("invest")}, nil
}

// Redeem 模拟赎回
func (g *MockGateway) Redeem(ctx context.Context, investmentRef string) (*RedeemResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.record(MockCall{Op: "redeem", InvestmentRef: investmentRef})

	if g.FailRedeem {
		return &RedeemResult{Success: false}, nil
	}

	logger.Debug("[MockGateway] redeem investment %s", investmentRef)
	return &RedeemResult{
		Success:        true,
		TxHash:         g.nextTxHash("redeem"),
		RedeemedAmount: mustBig("1050000000000000000000"),
	}, nil
}

// DepositProfit 模拟收益充值
func (g *MockGateway) DepositProfit(ctx context.Context, onchainAssetId string, amount *big.Int) (*DepositResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.record(MockCall{Op: "deposit_profit", OnchainAssetId: onchainAssetId, Amount: amount})

	if g.FailDeposit {
		return &DepositResult{Success: false}, nil
	}

	g.mu.Lock()
	pool, ok := g.pools[onchainAssetId]
	if !ok {
		pool = new(big.Int)
	}
	g.pools[onchainAssetId] = new(big.Int).Add(pool, amount)
	g.mu.Unlock()

	logger.Debug("[MockGateway] deposit %s profit for asset %s", amount.String(), onchainAssetId)
	return &DepositResult{Success: true, TxHash: g.nextTxHash("deposit")}, nil
}

// PoolBalances 模拟收益池余额查询
func (g *MockGateway) PoolBalances(ctx context.Context) (map[string]*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	balances := make(map[string]*big.Int, len(g.pools))
	for id, b := range g.pools {
		balances[id] = new(big.Int).Set(b)
	}
	return balances, nil
}

// Calls 返回已记录的调用，测试用
func (g *MockGateway) Calls() []MockCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]MockCall, len(g.calls))
	copy(out, g.calls)
	return out
}

func (g *MockGateway) record(call MockCall) {
	g.mu.Lock()
	g.calls = append(g.calls, call)
	g.mu.Unlock()
}

func (g *MockGateway) nextTxHash(op string) string {
	g.mu.Lock()
	g.seq++
	seq := g.seq
	g.mu.Unlock()
	return fmt.Sprintf("0xmock%sTx%d%d", op, time.Now().UnixNano(), seq)
}
