package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ShamirSecret/invest/internal/config"
	"github.com/ShamirSecret/invest/internal/gateway"
	"github.com/ShamirSecret/invest/internal/logger"
	"github.com/ShamirSecret/invest/internal/model"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// EventMonitor 平台合约事件监控。
// 周期性拉取已确认区块的日志，落chain_events表，并用链上观察到的
// 交易哈希冲销挂起的对账记录。
type EventMonitor struct {
	client    *gateway.ChainClient
	db        *gorm.DB
	interval  time.Duration
	lastBlock uint64
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewEventMonitor 创建事件监控
func NewEventMonitor(client *gateway.ChainClient, db *gorm.DB, cfg config.ChainConfig) *EventMonitor {
	ctx, cancel := context.WithCancel(context.Background())

	interval := time.Duration(cfg.MonitorSec) * time.Second
	if interval <= 0 {
		interval = 60 * time.Second
	}

	return &EventMonitor{
		client:   client,
		db:       db,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start 开始监控链上事件
func (m *EventMonitor) Start() error {
	// 获取最后处理的区块号
	if err := m.loadLastBlock(); err != nil {
		logger.Warn("Failed to load last block, starting from config: %v", err)
		m.lastBlock = m.client.GetStartBlock()
	}

	logger.Info("Starting chain event monitor from block %d", m.lastBlock)

	go m.monitorLoop()
	return nil
}

// Stop 停止监控
func (m *EventMonitor) Stop() {
	m.cancel()
}

// loadLastBlock 从chain_events表恢复进度
func (m *EventMonitor) loadLastBlock() error {
	var lastBlock uint64
	err := m.db.Model(&model.ChainEventModel{}).
		Select("COALESCE(MAX(block_num), 0)").
		Scan(&lastBlock).Error
	if err != nil {
		return err
	}

	if lastBlock == 0 {
		m.lastBlock = m.client.GetStartBlock()
	} else {
		m.lastBlock = lastBlock
	}
	return nil
}

// monitorLoop 监控循环
func (m *EventMonitor) monitorLoop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			logger.Info("Chain event monitor stopped")
			return
		case <-ticker.C:
			if err := m.processNewBlocks(); err != nil {
				logger.Error("Error processing blocks: %v", err)
			}
		}
	}
}

// processNewBlocks 处理新确认的区块区间
func (m *EventMonitor) processNewBlocks() error {
	latest, err := m.client.GetLatestBlock(m.ctx)
	if err != nil {
		return fmt.Errorf("failed to get latest block: %w", err)
	}

	// 只处理已确认的区块
	confirmations := uint64(m.client.GetConfirmations())
	if latest < confirmations {
		return nil
	}
	confirmed := latest - confirmations
	if confirmed <= m.lastBlock {
		return nil
	}

	fromBlock := m.lastBlock + 1
	logs, err := m.client.GetLogs(m.ctx, fromBlock, confirmed)
	if err != nil {
		return fmt.Errorf("failed to get logs for blocks %d-%d: %w", fromBlock, confirmed, err)
	}

	if len(logs) == 0 {
		m.lastBlock = confirmed
		return nil
	}

	logger.Debug("Found %d logs for blocks %d-%d", len(logs), fromBlock, confirmed)

	// 按区块分组，用临时协程池并发处理
	logsByBlock := make(map[uint64][]types.Log)
	for _, l := range logs {
		logsByBlock[l.BlockNumber] = append(logsByBlock[l.BlockNumber], l)
	}

	pool, err := ants.NewPool(len(logsByBlock))
	if err != nil {
		return fmt.Errorf("failed to create pool for %d block groups: %w", len(logsByBlock), err)
	}
	defer pool.Release()

	for blockNum, blockLogs := range logsByBlock {
		blockLogs := blockLogs
		if err := pool.Submit(func() {
			m.processBlockLogs(blockLogs)
		}); err != nil {
			logger.Error("Failed to submit block %d to pool: %v", blockNum, err)
		}
	}

	m.lastBlock = confirmed
	return nil
}

// processBlockLogs 处理单个区块的全部日志
func (m *EventMonitor) processBlockLogs(logs []types.Log) {
	for _, l := range logs {
		eventData, err := m.client.ParseEvent(l)
		if err != nil {
			logger.Error("Error parsing event at block %d: %v", l.BlockNumber, err)
			continue
		}

		if err := m.storeEvent(l, eventData); err != nil {
			logger.Error("Error storing event %s: %v", l.TxHash.Hex(), err)
		}
	}
}

// storeEvent 落事件记录并冲销对账记录，按tx_hash+log_index去重
func (m *EventMonitor) storeEvent(l types.Log, eventData map[string]interface{}) error {
	var existing model.ChainEventModel
	err := m.db.
		Where("tx_hash = ? AND log_index = ?", l.TxHash.Hex(), int64(l.Index)).
		First(&existing).Error
	if err == nil {
		return nil // 已处理过
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	data, err := json.Marshal(eventData)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := model.ChainEventModel{
		ContractAddress: m.client.PlatformAddr.Hex(),
		EventName:       eventData["eventName"].(string),
		TxHash:          l.TxHash.Hex(),
		BlockNum:        int64(l.BlockNumber),
		LogIndex:        int64(l.Index),
		Data:            string(data),
		Processed:       true,
	}
	if err := m.db.Create(&event).Error; err != nil {
		return err
	}

	// 交易已在链上确认，挂起的对账记录可以冲销
	now := time.Now().UTC()
	res := m.db.Model(&model.ReconcileRecordModel{}).
		Where("tx_hash = ? AND status = ?", event.TxHash, model.ReconcileStatusPending).
		Updates(map[string]interface{}{
			"status":      model.ReconcileStatusResolved,
			"resolved_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		logger.Info("Resolved %d reconcile records via onchain tx %s", res.RowsAffected, event.TxHash)
	}

	return nil
}
