package eventparser

import (
	"fmt"
	"runtime/debug"

	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/logic/eventparser/common"
	"swap-monitor-sol/internal/logic/eventparser/pumpfun"
	"swap-monitor-sol/internal/logic/eventparser/raydiumv4"
	"swap-monitor-sol/internal/logic/filter"
	"swap-monitor-sol/internal/types"
)

// Registry 是 ProgramID → 解码器的路由表，由 filter.Spec 决定哪些 program 对应哪种解码器
type Registry struct {
	decoders map[types.Pubkey]common.SwapDecoder
}

func factories() map[core.Program]common.DecoderFactory {
	m := make(map[core.Program]common.DecoderFactory)
	pumpfun.RegisterDecoders(m)
	raydiumv4.RegisterDecoders(m)
	return m
}

func NewRegistry(spec *filter.Spec) (*Registry, error) {
	fs := factories()
	opts := common.DecoderOptions{SentinelMint: spec.SentinelMint()}

	r := &Registry{decoders: make(map[types.Pubkey]common.SwapDecoder)}
	for _, id := range spec.MonitoredPrograms() {
		program, _ := spec.ProgramFor(id)
		factory, ok := fs[program]
		if !ok {
			return nil, fmt.Errorf("no decoder registered for %s (program %s)", program, id)
		}
		r.decoders[id] = factory(opts)
	}
	return r, nil
}

func (r *Registry) Lookup(programID types.Pubkey) (common.SwapDecoder, bool) {
	d, ok := r.decoders[programID]
	return d, ok
}

// Decode 调用解码器；解码器 panic 会被转换为 error，不影响后续交易
func Decode(decoder common.SwapDecoder, tx *core.Tx, target types.Pubkey) (event *core.SwapEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			event = nil
			err = fmt.Errorf("%s decoder panic: %v\nstack: %s", decoder.Program(), r, debug.Stack())
		}
	}()
	return decoder.Decode(tx, target)
}
