package handler

import (
	"net/http"
	"strconv"

	"github.com/ShamirSecret/invest/internal/logic"
	"github.com/gin-gonic/gin"
)

// InvestmentHandler 投资台账处理器
type InvestmentHandler struct {
	investmentLogic *logic.InvestmentLogic
	defaultWallet   string
}

// NewInvestmentHandler 创建投资台账处理器
func NewInvestmentHandler(investmentLogic *logic.InvestmentLogic, defaultWallet string) *InvestmentHandler {
	return &InvestmentHandler{
		investmentLogic: investmentLogic,
		defaultWallet:   defaultWallet,
	}
}

// OpenInvestment 开仓
func (h *InvestmentHandler) OpenInvestment(c *gin.Context) {
	var req OpenInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	wallet := req.WalletAddress
	if wallet == "" {
		wallet = h.defaultWallet
	}

	txHash, err := h.investmentLogic.OpenInvestment(wallet, req.AssetId, req.TermId, req.AmountWeusd)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Investment successful", OpenInvestmentResponse{
		TransactionHash: txHash,
	})
}

// ListPortfolio 获取投资组合
func (h *InvestmentHandler) ListPortfolio(c *gin.Context) {
	wallet := c.Query("wallet_address")
	if wallet == "" {
		wallet = h.defaultWallet
	}

	items, err := h.investmentLogic.ListPortfolio(wallet)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Portfolio fetched", items)
}

// RedeemInvestment 记录赎回
func (h *InvestmentHandler) RedeemInvestment(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}

	var req RedeemInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	wallet := req.WalletAddress
	if wallet == "" {
		wallet = h.defaultWallet
	}

	investmentId, err := h.investmentLogic.RedeemInvestment(wallet, id, req.TransactionHash)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Redemption recorded", RedeemInvestmentResponse{
		InvestmentId: investmentId,
	})
}

// parseIdParam 解析路径里的数字ID
func parseIdParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}
