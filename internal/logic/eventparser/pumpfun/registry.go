package pumpfun

import (
	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/logic/eventparser/common"
)

// RegisterDecoders 注册 Pump（bonding curve）解码器
func RegisterDecoders(m map[core.Program]common.DecoderFactory) {
	m[core.ProgramPump] = func(common.DecoderOptions) common.SwapDecoder {
		return Decoder{}
	}
}
