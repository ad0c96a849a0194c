package gateway

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ShamirSecret/invest/internal/config"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// RWA投资平台合约ABI定义（简化版）
const platformABI = `[
	{
		"inputs": [
			{"name": "assetId", "type": "string"},
			{"name": "termDays", "type": "uint256"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "invest",
		"outputs": [],
		"type": "function"
	},
	{
		"inputs": [{"name": "investmentRef", "type": "string"}],
		"name": "redeem",
		"outputs": [{"name": "redeemedAmount", "type": "uint256"}],
		"type": "function"
	},
	{
		"inputs": [
			{"name": "assetId", "type": "string"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "depositProfit",
		"outputs": [],
		"type": "function"
	},
	{
		"inputs": [],
		"name": "getPoolBalances",
		"outputs": [
			{"name": "assetIds", "type": "string[]"},
			{"name": "balances", "type": "uint256[]"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "investor", "type": "address"},
			{"indexed": false, "name": "assetId", "type": "string"},
			{"indexed": false, "name": "amount", "type": "uint256"}
		],
		"name": "InvestmentMade",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "investor", "type": "address"},
			{"indexed": false, "name": "investmentRef", "type": "string"},
			{"indexed": false, "name": "amount", "type": "uint256"}
		],
		"name": "InvestmentRedeemed",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": false, "name": "assetId", "type": "string"},
			{"indexed": false, "name": "amount", "type": "uint256"}
		],
		"name": "ProfitDeposited",
		"type": "event"
	}
]`

// ChainClient 以太坊结算网关客户端
type ChainClient struct {
	client        *ethclient.Client
	privateKey    *ecdsa.PrivateKey
	chainId       *big.Int
	PlatformAddr  common.Address
	startBlock    uint64
	confirmations int
	contractABI   abi.ABI
}

// NewChainClient 连接以太坊节点并初始化网关客户端
func NewChainClient(cfg config.ChainConfig) (*ChainClient, error) {
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum client: %w", err)
	}

	// 解析私钥
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	chainId, err := client.NetworkID(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}

	// 解析ABI
	parsedABI, err := abi.JSON(strings.NewReader(platformABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse platform ABI: %w", err)
	}

	return &ChainClient{
		client:        client,
		privateKey:    privateKey,
		chainId:       chainId,
		PlatformAddr:  common.HexToAddress(cfg.PlatformAddr),
		startBlock:    cfg.StartBlock,
		confirmations: cfg.Confirmations,
		contractABI:   parsedABI,
	}, nil
}

// Invest 调用平台合约的invest方法
func (c *ChainClient) Invest(ctx context.Context, onchainAssetId string, termDurationDays int, amount *big.Int) (*InvestResult, error) {
	data, err := c.contractABI.Pack("invest", onchainAssetId, big.NewInt(int64(termDurationDays)), amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack invest call: %w", err)
	}

	txHash, err := c.sendContractTx(ctx, data)
	if err != nil {
		return nil, err
	}

	return &InvestResult{Success: true, TxHash: txHash}, nil
}

// Redeem 调用平台合约的redeem方法
func (c *ChainClient) Redeem(ctx context.Context, investmentRef string) (*RedeemResult, error) {
	data, err := c.contractABI.Pack("redeem", investmentRef)
	if err != nil {
		return nil, fmt.Errorf("failed to pack redeem call: %w", err)
	}

	txHash, err := c.sendContractTx(ctx, data)
	if err != nil {
		return nil, err
	}

	// 实际赎回金额由链上事件回填，这里不阻塞等待回执
	return &RedeemResult{Success: true, TxHash: txHash}, nil
}

// DepositProfit 调用平台合约的depositProfit方法
func (c *ChainClient) DepositProfit(ctx context.Context, onchainAssetId string, amount *big.Int) (*DepositResult, error) {
	data, err := c.contractABI.Pack("depositProfit", onchainAssetId, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack depositProfit call: %w", err)
	}

	txHash, err := c.sendContractTx(ctx, data)
	if err != nil {
		return nil, err
	}

	return &DepositResult{Success: true, TxHash: txHash}, nil
}

// PoolBalances 查询各标的收益池余额
func (c *ChainClient) PoolBalances(ctx context.Context) (map[string]*big.Int, error) {
	data, err := c.contractABI.Pack("getPoolBalances")
	if err != nil {
		return nil, fmt.Errorf("failed to pack getPoolBalances call: %w", err)
	}

	output, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &c.PlatformAddr,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call getPoolBalances: %w", err)
	}

	values, err := c.contractABI.Unpack("getPoolBalances", output)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack getPoolBalances result: %w", err)
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected getPoolBalances result arity: %d", len(values))
	}

	assetIds, ok := values[0].([]string)
	if !ok {
		return nil, fmt.Errorf("unexpected asset id list type %T", values[0])
	}
	amounts, ok := values[1].([]*big.Int)
	if !ok || len(amounts) != len(assetIds) {
		return nil, fmt.Errorf("mismatched pool balance result")
	}

	balances := make(map[string]*big.Int, len(assetIds))
	for i, id := range assetIds {
		balances[id] = amounts[i]
	}
	return balances, nil
}

// sendContractTx 构造、签名并发送一笔合约交易，返回交易哈希
func (c *ChainClient) sendContractTx(ctx context.Context, data []byte) (string, error) {
	from := crypto.PubkeyToAddress(c.privateKey.PublicKey)

	nonce, err := c.client.PendingNonceAt(ctx, from)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
		From: from,
		To:   &c.PlatformAddr,
		Data: data,
	})
	if err != nil {
		return "", fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.PlatformAddr,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(c.chainId), c.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	return signedTx.Hash().Hex(), nil
}

// GetLatestBlock 获取最新区块号
func (c *ChainClient) GetLatestBlock(ctx context.Context) (uint64, error) {
	header, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, err
	}
	return header.Number.Uint64(), nil
}

// GetLogs 获取指定区块范围内平台合约的日志
func (c *ChainClient) GetLogs(ctx context.Context, fromBlock, toBlock uint64) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{c.PlatformAddr},
	}

	return c.client.FilterLogs(ctx, query)
}

// ParseEvent 解析事件日志
func (c *ChainClient) ParseEvent(log types.Log) (map[string]interface{}, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("log has no topics")
	}

	eventSignature := log.Topics[0].Hex()
	switch eventSignature {
	case c.contractABI.Events["InvestmentMade"].ID.Hex():
		return c.parseEvent("InvestmentMade", log, true)
	case c.contractABI.Events["InvestmentRedeemed"].ID.Hex():
		return c.parseEvent("InvestmentRedeemed", log, true)
	case c.contractABI.Events["ProfitDeposited"].ID.Hex():
		return c.parseEvent("ProfitDeposited", log, false)
	default:
		return nil, fmt.Errorf("unknown event signature: %s", eventSignature)
	}
}

// parseEvent 解析单个事件的索引参数与数据段
func (c *ChainClient) parseEvent(name string, log types.Log, hasInvestor bool) (map[string]interface{}, error) {
	event := make(map[string]interface{})
	event["eventName"] = name

	if hasInvestor {
		if len(log.Topics) < 2 {
			return nil, fmt.Errorf("invalid %s event: insufficient topics", name)
		}
		event["investor"] = common.BytesToAddress(log.Topics[1].Bytes()).Hex()
	}

	// 解析非索引参数
	if len(log.Data) > 0 {
		values, err := c.contractABI.Events[name].Inputs.NonIndexed().UnpackValues(log.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to unpack %s event data: %w", name, err)
		}
		for i, input := range c.contractABI.Events[name].Inputs.NonIndexed() {
			event[input.Name] = values[i]
		}
	}

	event["txHash"] = log.TxHash.Hex()
	event["blockNumber"] = log.BlockNumber
	event["logIndex"] = log.Index

	return event, nil
}

// GetStartBlock 获取监听起始区块
func (c *ChainClient) GetStartBlock() uint64 {
	return c.startBlock
}

// GetConfirmations 获取确认区块数
func (c *ChainClient) GetConfirmations() int {
	return c.confirmations
}

// GetAccountAddress 获取账户地址
func (c *ChainClient) GetAccountAddress() common.Address {
	return crypto.PubkeyToAddress(c.privateKey.PublicKey)
}
