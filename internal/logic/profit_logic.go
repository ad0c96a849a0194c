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

// ProfitLogic 收益池业务逻辑
type ProfitLogic struct {
	db          *gorm.DB
	gw          gateway.Gateway
	callTimeout time.Duration
}

// NewProfitLogic 创建收益池业务逻辑
func NewProfitLogic(db *gorm.DB, gw gateway.Gateway, callTimeout time.Duration) *ProfitLogic {
	if callTimeout <= 0 {
		callTimeout = 15 * time.Second
	}
	return &ProfitLogic{db: db, gw: gw, callTimeout: callTimeout}
}

// DepositProfit 运营方向标的收益池充值。
// 网关划转成功后追加一条充值记录，该表只增不改。
func (p *ProfitLogic) DepositProfit(onchainAssetId, amountStr string) (string, error) {
	if onchainAssetId == "" {
		return "", apperr.WithMessage(apperr.ErrValidation, "Onchain asset id is required")
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(amountStr))
	if err != nil || !amount.IsPositive() {
		return "", apperr.ErrInvalidAmount
	}

	var asset model.AssetModel
	err = p.db.Where("onchain_asset_id = ?", onchainAssetId).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.WithMessage(apperr.ErrInvalidSelection, "Unknown onchain asset id")
		}
		return "", apperr.Wrap(apperr.ErrPersistence, fmt.Errorf("failed to load asset: %w", err))
	}

	amountWei, err := gateway.ToFixedPoint(amount, gateway.WeusdDecimals)
	if err != nil {
		return "", apperr.WithMessage(apperr.ErrInvalidAmount, err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.callTimeout)
	defer cancel()
	res, err := p.gw.DepositProfit(ctx, onchainAssetId, amountWei)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrSettlement, err)
	}
	if !res.Success || res.TxHash == "" {
		return "", apperr.WithMessage(apperr.ErrSettlement, "Settlement gateway rejected the profit deposit")
	}

	deposit := model.ProfitDepositModel{
		AssetId:         asset.Id,
		AmountWeusd:     amount,
		TransactionHash: res.TxHash,
		DepositedAt:     time.Now().UTC(),
	}
	if err := p.db.Create(&deposit).Error; err != nil {
		logger.Error("Reconcile needed: profit deposit settled on gateway (tx %s) but ledger write failed: %v",
			res.TxHash, err)
		record := model.ReconcileRecordModel{
			Operation:      "deposit_profit",
			OnchainAssetId: onchainAssetId,
			AmountWeusd:    amount.String(),
			TxHash:         res.TxHash,
			Detail:         err.Error(),
			Status:         model.ReconcileStatusPending,
		}
		if rerr := p.db.Create(&record).Error; rerr != nil {
			logger.Error("Failed to persist reconcile record for tx %s: %v", res.TxHash, rerr)
		}
		return "", apperr.Wrap(apperr.ErrPersistence, fmt.Errorf("failed to persist profit deposit: %w", err))
	}

	return res.TxHash, nil
}

// PoolBalances 查询各标的收益池余额，按weUSD精度换算回十进制字符串
func (p *ProfitLogic) PoolBalances() (map[string]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.callTimeout)
	defer cancel()

	balances, err := p.gw.PoolBalances(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrSettlement, err)
	}

	out := make(map[string]string, len(balances))
	for id, b := range balances {
		out[id] = gateway.FromFixedPoint(b, gateway.WeusdDecimals).String()
	}
	return out, nil
}
