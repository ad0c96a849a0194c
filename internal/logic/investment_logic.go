package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ShamirSecret/invest/internal/apperr"
	"github.com/ShamirSecret/invest/internal/gateway"
	"github.com/ShamirSecret/invest/internal/logger"
	"github.com/ShamirSecret/invest/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// daysPerYear 年化收益按365天折算
var daysPerYear = decimal.NewFromInt(365)

// InvestmentLogic 投资台账业务逻辑。
// 状态机: active -> matured -> redeemed，cancelled 仅作为终态保留。
type InvestmentLogic struct {
	db          *gorm.DB
	assetLogic  *AssetLogic
	gw          gateway.Gateway
	callTimeout time.Duration
}

// NewInvestmentLogic 创建投资台账业务逻辑
func NewInvestmentLogic(db *gorm.DB, assetLogic *AssetLogic, gw gateway.Gateway, callTimeout time.Duration) *InvestmentLogic {
	if callTimeout <= 0 {
		callTimeout = 15 * time.Second
	}
	return &InvestmentLogic{
		db:          db,
		assetLogic:  assetLogic,
		gw:          gw,
		callTimeout: callTimeout,
	}
}

// OpenInvestment 开仓。
// 校验金额和期限后先调结算网关，网关成功才落库；到期日和预期收益
// 在此刻一次性固定，后续不随标的期限的修改变化。
func (l *InvestmentLogic) OpenInvestment(ownerWallet string, assetId, termId int64, amountStr string) (string, error) {
	if ownerWallet == "" {
		return "", apperr.WithMessage(apperr.ErrValidation, "Wallet address is required")
	}

	principal, err := decimal.NewFromString(strings.TrimSpace(amountStr))
	if err != nil || !principal.IsPositive() {
		return "", apperr.ErrInvalidAmount
	}

	term, asset, err := l.assetLogic.ResolveTerm(assetId, termId)
	if err != nil {
		return "", err
	}

	amountWei, err := gateway.ToFixedPoint(principal, gateway.WeusdDecimals)
	if err != nil {
		return "", apperr.WithMessage(apperr.ErrInvalidAmount, err.Error())
	}

	// 网关调用必须先于台账写入成功
	ctx, cancel := context.WithTimeout(context.Background(), l.callTimeout)
	defer cancel()
	res, err := l.gw.Invest(ctx, asset.OnchainAssetId, term.TermDurationDays, amountWei)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrSettlement, err)
	}
	if !res.Success || res.TxHash == "" {
		return "", apperr.WithMessage(apperr.ErrSettlement, "Settlement gateway rejected the investment")
	}

	now := time.Now().UTC()
	investment := model.InvestmentModel{
		UserWalletAddress:     ownerWallet,
		AssetId:               assetId,
		TermId:                termId,
		InvestedAmountWeusd:   principal,
		ExpectedProfitWeusd:   ExpectedProfit(principal, term.Apy, term.TermDurationDays),
		InvestmentDate:        now,
		MaturityDate:          now.AddDate(0, 0, term.TermDurationDays),
		Status:                model.InvestmentStatusActive,
		TransactionHashInvest: res.TxHash,
	}

	if err := l.db.Create(&investment).Error; err != nil {
		// 结算已经成功，台账写入失败必须作为对账事件留痕
		l.recordReconcile("invest", ownerWallet, asset.OnchainAssetId, principal.String(), res.TxHash, err)
		return "", apperr.Wrap(apperr.ErrPersistence, fmt.Errorf("failed to persist investment: %w", err))
	}

	return res.TxHash, nil
}

// ExpectedProfit 计算预期收益: principal × apy × days/365。
// 除法直接在weUSD的18位精度上做远离零的四舍五入（Div默认只保留
// 16位，精度不够），只在开仓时计算一次。
func ExpectedProfit(principal, apy decimal.Decimal, durationDays int) decimal.Decimal {
	return principal.
		Mul(apy).
		Mul(decimal.NewFromInt(int64(durationDays))).
		DivRound(daysPerYear, gateway.WeusdDecimals)
}

// PromoteMatured 将到期的active投资批量晋升为matured。
// 单条条件UPDATE，并发读取方不会在同一时刻看到不一致的状态。
func (l *InvestmentLogic) PromoteMatured() (int64, error) {
	res := l.db.Model(&model.InvestmentModel{}).
		Where("status = ? AND maturity_date <= ?", model.InvestmentStatusActive, time.Now().UTC()).
		Update("status", model.InvestmentStatusMatured)
	if res.Error != nil {
		return 0, apperr.Wrap(apperr.ErrPersistence, fmt.Errorf("failed to promote matured investments: %w", res.Error))
	}
	return res.RowsAffected, nil
}

// ListPortfolio 获取用户投资组合。
// 每次读取前先做一次全局的到期晋升，再按投资时间倒序返回。
func (l *InvestmentLogic) ListPortfolio(ownerWallet string) ([]model.PortfolioItem, error) {
	if ownerWallet == "" {
		return nil, apperr.WithMessage(apperr.ErrValidation, "Wallet address is required")
	}

	if _, err := l.PromoteMatured(); err != nil {
		return nil, err
	}

	var items []model.PortfolioItem
	err := l.db.Model(&model.InvestmentModel{}).
		Select("investments.*, assets.name AS asset_name, asset_terms.term_label AS term_label").
		Joins("JOIN assets ON assets.asset_id = investments.asset_id").
		Joins("JOIN asset_terms ON asset_terms.term_id = investments.term_id").
		Where("investments.user_wallet_address = ?", ownerWallet).
		Order("investments.investment_date DESC").
		Scan(&items).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrPersistence, fmt.Errorf("failed to list portfolio: %w", err))
	}

	return items, nil
}

// RedeemInvestment 记录赎回。
// 资金划转由调用方先在结算网关完成，这里只做台账落账；
// 状态检查与更新在同一条件UPDATE内完成，防止并发下重复赎回。
func (l *InvestmentLogic) RedeemInvestment(ownerWallet string, investmentId int64, txHash string) (int64, error) {
	if ownerWallet == "" || txHash == "" {
		return 0, apperr.WithMessage(apperr.ErrValidation, "Wallet address and transaction hash are required")
	}

	now := time.Now().UTC()
	res := l.db.Model(&model.InvestmentModel{}).
		Where("investment_id = ? AND user_wallet_address = ? AND status = ?",
			investmentId, ownerWallet, model.InvestmentStatusMatured).
		Updates(map[string]interface{}{
			"status":                  model.InvestmentStatusRedeemed,
			"transaction_hash_redeem": txHash,
			"redeemed_date":           now,
		})
	if res.Error != nil {
		// 赎回的资金划转已在网关完成，落账失败同样是对账事件
		l.recordReconcile("redeem", ownerWallet, "", "", txHash, res.Error)
		return 0, apperr.Wrap(apperr.ErrPersistence, fmt.Errorf("failed to record redemption: %w", res.Error))
	}

	if res.RowsAffected == 0 {
		// 区分"不存在/不属于该用户"和"状态不对"
		var investment model.InvestmentModel
		err := l.db.
			Where("investment_id = ? AND user_wallet_address = ?", investmentId, ownerWallet).
			First(&investment).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, apperr.WithMessage(apperr.ErrNotRedeemable,
					"Investment does not exist or does not belong to this wallet")
			}
			return 0, apperr.Wrap(apperr.ErrPersistence, fmt.Errorf("failed to check investment: %w", err))
		}
		return 0, apperr.WithMessage(apperr.ErrNotRedeemable,
			fmt.Sprintf("Investment not matured or already processed. Current status: %s", investment.Status))
	}

	return investmentId, nil
}

// recordReconcile 结算成功但本地写入失败时落对账记录。
// 对账记录本身写失败只能靠日志兜底。
func (l *InvestmentLogic) recordReconcile(operation, wallet, onchainAssetId, amount, txHash string, cause error) {
	logger.Error("Reconcile needed: %s settled on gateway (tx %s) but ledger write failed: %v",
		operation, txHash, cause)

	record := model.ReconcileRecordModel{
		Operation:         operation,
		UserWalletAddress: wallet,
		OnchainAssetId:    onchainAssetId,
		AmountWeusd:       amount,
		TxHash:            txHash,
		Detail:            cause.Error(),
		Status:            model.ReconcileStatusPending,
	}
	if err := l.db.Create(&record).Error; err != nil {
		logger.Error("Failed to persist reconcile record for tx %s: %v", txHash, err)
	}
}
