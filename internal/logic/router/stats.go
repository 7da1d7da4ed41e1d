package router

import (
	"fmt"
	"sync/atomic"
)

// Stats 路由计数，Run 所在 goroutine 写，统计上报 goroutine 读
type Stats struct {
	envelopes       atomic.Uint64
	skippedSigner   atomic.Uint64
	invalidSigner   atomic.Uint64
	parseErrors     atomic.Uint64
	arithmeticError atomic.Uint64
	decodeErrors    atomic.Uint64
	swaps           atomic.Uint64
	sinkErrors      atomic.Uint64
	lastSlot        atomic.Uint64
}

type StatsSnapshot struct {
	Envelopes        uint64
	SkippedSigner    uint64
	InvalidSigner    uint64
	ParseErrors      uint64
	ArithmeticErrors uint64
	DecodeErrors     uint64
	Swaps            uint64
	SinkErrors       uint64
	LastSlot         uint64
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Envelopes:        s.envelopes.Load(),
		SkippedSigner:    s.skippedSigner.Load(),
		InvalidSigner:    s.invalidSigner.Load(),
		ParseErrors:      s.parseErrors.Load(),
		ArithmeticErrors: s.arithmeticError.Load(),
		DecodeErrors:     s.decodeErrors.Load(),
		Swaps:            s.swaps.Load(),
		SinkErrors:       s.sinkErrors.Load(),
		LastSlot:         s.lastSlot.Load(),
	}
}

func (s *Stats) countFailure(kind string) {
	switch kind {
	case "parse":
		s.parseErrors.Add(1)
	case "arithmetic":
		s.arithmeticError.Add(1)
	default:
		s.decodeErrors.Add(1)
	}
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf("envelopes=%d skipped_signer=%d invalid_signer=%d parse_err=%d arith_err=%d decode_err=%d swaps=%d sink_err=%d last_slot=%d",
		s.Envelopes, s.SkippedSigner, s.InvalidSigner, s.ParseErrors, s.ArithmeticErrors,
		s.DecodeErrors, s.Swaps, s.SinkErrors, s.LastSlot)
}
