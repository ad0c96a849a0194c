// Package gateway 封装结算网关边界。
// 资金的实际划转发生在链上合约，这里只定义核心业务调用的抽象接口，
// 以及十进制金额与定点整数之间的无损转换。
package gateway

import (
	"context"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// WeusdDecimals weUSD稳定币精度
const WeusdDecimals int32 = 18

// InvestResult 投资调用结果
type InvestResult struct {
	Success bool   `json:"success"`
	TxHash  string `json:"transaction_hash"`
}

// RedeemResult 赎回调用结果
type RedeemResult struct {
	Success        bool     `json:"success"`
	TxHash         string   `json:"transaction_hash"`
	RedeemedAmount *big.Int `json:"redeemed_amount"`
}

// DepositResult 收益充值调用结果
type DepositResult struct {
	Success bool   `json:"success"`
	TxHash  string `json:"transaction_hash"`
}

// Gateway 结算网关接口
type Gateway interface {
	// Invest 用户将weUSD投入指定标的的指定期限
	Invest(ctx context.Context, onchainAssetId string, termDurationDays int, amount *big.Int) (*InvestResult, error)
	// Redeem 赎回一笔已到期投资
	Redeem(ctx context.Context, investmentRef string) (*RedeemResult, error)
	// DepositProfit 运营方向标的收益池充值
	DepositProfit(ctx context.Context, onchainAssetId string, amount *big.Int) (*DepositResult, error)
	// PoolBalances 查询各标的收益池余额
	PoolBalances(ctx context.Context) (map[string]*big.Int, error)
}

// ToFixedPoint 将十进制金额转换为定点整数表示。
// 超过精度的小数位视为非法输入，不做静默截断。
func ToFixedPoint(amount decimal.Decimal, decimals int32) (*big.Int, error) {
	shifted := amount.Shift(decimals)
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("amount %s exceeds %d decimal precision", amount.String(), decimals)
	}
	return shifted.BigInt(), nil
}

// FromFixedPoint 将定点整数还原为十进制金额
func FromFixedPoint(amount *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(amount, -decimals)
}
