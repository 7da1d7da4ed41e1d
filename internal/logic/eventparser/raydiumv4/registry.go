package raydiumv4

import (
	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/logic/eventparser/common"
)

// RegisterDecoders 注册 Raydium AMM V4 解码器，WSOL 腿由 SentinelMint 识别
func RegisterDecoders(m map[core.Program]common.DecoderFactory) {
	m[core.ProgramRaydium] = func(opts common.DecoderOptions) common.SwapDecoder {
		return NewDecoder(opts.SentinelMint)
	}
}
