package handler

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data"`
}

// CreateAssetTermRequest 创建标的时的期限项
type CreateAssetTermRequest struct {
	TermDurationDays int    `json:"term_duration_days"`
	TermLabel        string `json:"term_label"`
	Apy              string `json:"apy"`
}

// CreateAssetRequest 创建标的请求
type CreateAssetRequest struct {
	OnchainAssetId   string                   `json:"onchain_asset_id"`
	Name             string                   `json:"name"`
	Description      string                   `json:"description"`
	AssetType        string                   `json:"asset_type"`
	Issuer           string                   `json:"issuer"`
	BondIsin         string                   `json:"bond_isin"`
	BondMaturityDate string                   `json:"bond_maturity_date"`
	Terms            []CreateAssetTermRequest `json:"terms"`
}

// CreateAssetResponse 创建标的响应
type CreateAssetResponse struct {
	AssetId int64 `json:"asset_id"`
}

// OpenInvestmentRequest 开仓请求
type OpenInvestmentRequest struct {
	WalletAddress string `json:"wallet_address"`
	AssetId       int64  `json:"asset_id"`
	TermId        int64  `json:"term_id"`
	AmountWeusd   string `json:"amount_weusd"`
}

// OpenInvestmentResponse 开仓响应
type OpenInvestmentResponse struct {
	TransactionHash string `json:"transaction_hash"`
}

// RedeemInvestmentRequest 赎回请求
type RedeemInvestmentRequest struct {
	WalletAddress   string `json:"wallet_address"`
	TransactionHash string `json:"transaction_hash"`
}

// RedeemInvestmentResponse 赎回响应
type RedeemInvestmentResponse struct {
	InvestmentId int64 `json:"investment_id"`
}

// DepositProfitRequest 收益充值请求
type DepositProfitRequest struct {
	OnchainAssetId string `json:"onchain_asset_id"`
	AmountWeusd    string `json:"amount_weusd"`
}

// DepositProfitResponse 收益充值响应
type DepositProfitResponse struct {
	TransactionHash string `json:"transaction_hash"`
}
