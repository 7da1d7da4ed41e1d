package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"swap-monitor-sol/internal/config"
	"swap-monitor-sol/internal/logic/filter"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlotSource struct {
	tip        uint64
	err        error
	commitment rpc.Commitment
}

func (f *fakeSlotSource) GetSlotWithConfig(_ context.Context, cfg client.GetSlotConfig) (uint64, error) {
	f.commitment = cfg.Commitment
	return f.tip, f.err
}

func TestSlotLagCheck(t *testing.T) {
	var last atomic.Uint64
	source := &fakeSlotSource{tip: 1000}
	s := NewSlotLagService(config.RpcConfig{CheckIntervalSec: 30, MaxLagSlots: 50}, source, filter.CommitmentFinalized, last.Load)

	lag, err := s.check()
	require.NoError(t, err)
	assert.Zero(t, lag, "尚未收到交易")
	assert.Equal(t, rpc.CommitmentFinalized, source.commitment)

	last.Store(900)
	lag, err = s.check()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), lag)

	last.Store(1005)
	lag, err = s.check()
	require.NoError(t, err)
	assert.Zero(t, lag, "feed 领先 rpc 时不算落后")

	source.err = errors.New("429 too many requests")
	_, err = s.check()
	assert.ErrorContains(t, err, "429")
}

func TestSlotLagStartStop(t *testing.T) {
	s := NewSlotLagService(config.RpcConfig{CheckIntervalSec: 30}, &fakeSlotSource{}, filter.CommitmentConfirmed, func() uint64 { return 0 })

	done := make(chan struct{})
	go func() {
		s.Start()
		close(done)
	}()
	s.Stop()
	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestToRpcCommitment(t *testing.T) {
	assert.Equal(t, rpc.CommitmentProcessed, toRpcCommitment(filter.CommitmentProcessed))
	assert.Equal(t, rpc.CommitmentConfirmed, toRpcCommitment(filter.CommitmentConfirmed))
}
