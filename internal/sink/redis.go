package sink

import (
	"context"
	"fmt"
	"time"

	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/jsonx"
)

const defaultDedupTTL = 24 * time.Hour

// swapMessage 是发布到 Redis channel 的 JSON 结构
type swapMessage struct {
	Direction string  `json:"direction"`
	Amount    float64 `json:"amount"`
	Mint      string  `json:"mint"`
	Program   string  `json:"program"`
	Slot      uint64  `json:"slot"`
	Signature string  `json:"signature"`
	Trader    string  `json:"trader"`
}

// RedisSink 发布事件到 pub/sub channel，并用 SETNX 对 (signature, program) 去重，
// 重连后重复推送的交易不会被二次发布。
type RedisSink struct {
	rdb       redis.Cmdable
	channel   string
	keyPrefix string
	ttl       time.Duration
}

func NewRedisSink(rdb redis.Cmdable, channel, keyPrefix string, ttl time.Duration) *RedisSink {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &RedisSink{rdb: rdb, channel: channel, keyPrefix: keyPrefix, ttl: ttl}
}

func (r *RedisSink) dedupKey(event *core.SwapEvent) string {
	return fmt.Sprintf("%s:swap:%s:%s", r.keyPrefix, event.Signature, event.Program)
}

func (r *RedisSink) lastSlotKey() string {
	return r.keyPrefix + ":last_slot"
}

func (r *RedisSink) Emit(ctx context.Context, event *core.SwapEvent) error {
	key := r.dedupKey(event)
	fresh, err := r.rdb.SetNX(ctx, key, event.Slot, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx error: %w", err)
	}
	if !fresh {
		return nil
	}

	payload, err := jsonx.Marshal(swapMessage{
		Direction: event.Direction.String(),
		Amount:    event.Amount,
		Mint:      event.Mint.String(),
		Program:   event.Program.String(),
		Slot:      event.Slot,
		Signature: event.Signature.String(),
		Trader:    event.Trader.String(),
	})
	if err != nil {
		r.releaseKey(ctx, key)
		return err
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Publish(ctx, r.channel, payload)
		pipe.Set(ctx, r.lastSlotKey(), event.Slot, 0)
		return nil
	})
	if err != nil {
		r.releaseKey(ctx, key)
		return fmt.Errorf("redis publish error: %w", err)
	}
	return nil
}

// releaseKey 发布失败时删除去重 key，重连后重复推送的同一笔交易仍可发布
func (r *RedisSink) releaseKey(ctx context.Context, key string) {
	delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if err := r.rdb.Del(delCtx, key).Err(); err != nil {
		logger.Warnf("[RedisSink] release dedup key %s failed: %v", key, err)
	}
}
