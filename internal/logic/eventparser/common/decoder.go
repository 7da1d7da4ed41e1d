package common

import (
	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/types"
)

// SwapDecoder 从单笔交易的余额快照推断 target 的买卖行为。
// 实现必须是纯函数：不做 I/O，不持有跨调用状态。
type SwapDecoder interface {
	Program() core.Program
	Decode(tx *core.Tx, target types.Pubkey) (*core.SwapEvent, error)
}

// DecoderOptions 构造解码器所需的配置数据（不使用硬编码常量，便于用合成数据测试）
type DecoderOptions struct {
	SentinelMint types.Pubkey
}

type DecoderFactory func(opts DecoderOptions) SwapDecoder

// NewSwapEvent 填充公共字段
func NewSwapEvent(tx *core.Tx, program core.Program, target types.Pubkey, mint types.Pubkey, dir core.Direction, amount float64) *core.SwapEvent {
	return &core.SwapEvent{
		Direction: dir,
		Amount:    amount,
		Mint:      mint,
		Program:   program,
		Slot:      tx.Slot,
		Signature: tx.Signature,
		Trader:    target,
	}
}
