package handler

import (
	"net/http"

	"github.com/ShamirSecret/invest/internal/logic"
	"github.com/gin-gonic/gin"
)

// ProfitHandler 收益池处理器
type ProfitHandler struct {
	profitLogic *logic.ProfitLogic
}

// NewProfitHandler 创建收益池处理器
func NewProfitHandler(profitLogic *logic.ProfitLogic) *ProfitHandler {
	return &ProfitHandler{profitLogic: profitLogic}
}

// DepositProfit 向标的收益池充值
func (h *ProfitHandler) DepositProfit(c *gin.Context) {
	var req DepositProfitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	txHash, err := h.profitLogic.DepositProfit(req.OnchainAssetId, req.AmountWeusd)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Profit deposited", DepositProfitResponse{
		TransactionHash: txHash,
	})
}

// GetPoolBalances 查询收益池余额
func (h *ProfitHandler) GetPoolBalances(c *gin.Context) {
	balances, err := h.profitLogic.PoolBalances()
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Pool balances fetched", balances)
}
