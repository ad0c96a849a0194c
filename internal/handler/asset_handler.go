package handler

import (
	"net/http"
	"time"

	"github.com/ShamirSecret/invest/internal/apperr"
	"github.com/ShamirSecret/invest/internal/logic"
	"github.com/ShamirSecret/invest/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AssetHandler 标的目录处理器
type AssetHandler struct {
	assetLogic *logic.AssetLogic
}

// NewAssetHandler 创建标的目录处理器
func NewAssetHandler(db *gorm.DB) *AssetHandler {
	return &AssetHandler{
		assetLogic: logic.NewAssetLogic(db),
	}
}

// ListAssets 获取标的列表
func (h *AssetHandler) ListAssets(c *gin.Context) {
	assets, err := h.assetLogic.ListAssets()
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Assets fetched", assets)
}

// GetAsset 获取标的详情
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}

	asset, err := h.assetLogic.GetAsset(id)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Asset fetched", asset)
}

// CreateAsset 创建标的及期限
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	asset := model.AssetModel{
		OnchainAssetId: req.OnchainAssetId,
		Name:           req.Name,
		Description:    req.Description,
		AssetType:      req.AssetType,
		Issuer:         req.Issuer,
		BondIsin:       req.BondIsin,
	}
	if req.BondMaturityDate != "" {
		d, err := time.Parse("2006-01-02", req.BondMaturityDate)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "Invalid bond maturity date, expected YYYY-MM-DD")
			return
		}
		asset.BondMaturityDate = &d
	}

	terms := make([]model.AssetTermModel, 0, len(req.Terms))
	for _, t := range req.Terms {
		apy, err := decimal.NewFromString(t.Apy)
		if err != nil {
			AppErrorResponse(c, apperr.WithMessage(apperr.ErrValidation, "Invalid APY: "+t.Apy))
			return
		}
		terms = append(terms, model.AssetTermModel{
			TermDurationDays: t.TermDurationDays,
			TermLabel:        t.TermLabel,
			Apy:              apy,
		})
	}

	assetId, err := h.assetLogic.CreateAsset(&asset, terms)
	if err != nil {
		AppErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Asset created", CreateAssetResponse{AssetId: assetId})
}
