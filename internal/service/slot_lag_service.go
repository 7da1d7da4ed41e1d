package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"swap-monitor-sol/internal/config"
	"swap-monitor-sol/internal/logic/filter"
	"swap-monitor-sol/internal/stat"
	"swap-monitor-sol/pkg/logger"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
)

// SlotSource 查询链上最新 slot，*client.Client 实现该接口
type SlotSource interface {
	GetSlotWithConfig(ctx context.Context, cfg client.GetSlotConfig) (uint64, error)
}

// SlotLagService 定期比较订阅流最近的 slot 与 RPC 链头，落后过多时告警
type SlotLagService struct {
	source     SlotSource
	lastSlot   func() uint64
	commitment rpc.Commitment
	interval   time.Duration
	maxLag     uint64
	stopChan   chan struct{}
	ctx        context.Context
	cancel     func(err error)
}

func NewSlotLagService(cfg config.RpcConfig, source SlotSource, commitment filter.Commitment, lastSlot func() uint64) *SlotLagService {
	ctx, cancel := context.WithCancelCause(context.Background())
	return &SlotLagService{
		source:     source,
		lastSlot:   lastSlot,
		commitment: toRpcCommitment(commitment),
		interval:   time.Duration(cfg.CheckIntervalSec) * time.Second,
		maxLag:     cfg.MaxLagSlots,
		stopChan:   make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func toRpcCommitment(c filter.Commitment) rpc.Commitment {
	switch c {
	case filter.CommitmentProcessed:
		return rpc.CommitmentProcessed
	case filter.CommitmentFinalized:
		return rpc.CommitmentFinalized
	default:
		return rpc.CommitmentConfirmed
	}
}

func (s *SlotLagService) Start() {
	s.scheduleNext()
	<-s.stopChan
}

func (s *SlotLagService) scheduleNext() {
	time.AfterFunc(s.interval, func() {
		if _, err := s.check(); err != nil {
			logger.Warnf("[SlotLagService] 检测失败: %v", err)
		}
		select {
		case <-s.ctx.Done():
			return
		default:
			s.scheduleNext()
		}
	})
}

func (s *SlotLagService) Stop() {
	s.cancel(errors.New("SlotLagService stop"))
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
}

// check 返回当前落后的 slot 数，尚未收到任何交易时返回 0
func (s *SlotLagService) check() (lag uint64, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[SlotLagService] check panic: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("check panic: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	tip, err := s.source.GetSlotWithConfig(ctx, client.GetSlotConfig{Commitment: s.commitment})
	if err != nil {
		return 0, fmt.Errorf("GetSlot failed: %w", err)
	}
	stat.LastSlot.Set(float64(tip), "rpc")

	last := s.lastSlot()
	if last == 0 {
		logger.Debugf("[SlotLagService] rpc tip=%d, feed has not delivered any transaction yet", tip)
		return 0, nil
	}
	if tip > last {
		lag = tip - last
	}
	if lag > s.maxLag {
		logger.Warnf("[SlotLagService] feed is behind: feed=%d rpc=%d lag=%d (max %d)", last, tip, lag, s.maxLag)
	} else {
		logger.Debugf("[SlotLagService] feed=%d rpc=%d lag=%d, 耗时: %v", last, tip, lag, time.Since(start))
	}
	return lag, nil
}
