package sink

import (
	"context"
	"errors"
	"sync"
	"testing"

	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(slot uint64) *core.SwapEvent {
	return &core.SwapEvent{
		Direction: core.DirectionBuy,
		Amount:    50_000_000,
		Mint:      types.Pubkey{0x11, 0x22},
		Program:   core.ProgramPump,
		Slot:      slot,
		Signature: types.Signature{0x33},
		Trader:    types.Pubkey{0x44},
	}
}

// collectSink 线程安全地记录收到的事件
type collectSink struct {
	mu     sync.Mutex
	events []*core.SwapEvent
	err    error
}

func (c *collectSink) Emit(_ context.Context, event *core.SwapEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return c.err
}

func (c *collectSink) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestFuncSink(t *testing.T) {
	var got *core.SwapEvent
	s := FuncSink(func(_ context.Context, e *core.SwapEvent) error {
		got = e
		return nil
	})
	event := testEvent(1)
	require.NoError(t, s.Emit(context.Background(), event))
	assert.Same(t, event, got)
}

func TestChanSink(t *testing.T) {
	ch := make(chan *core.SwapEvent, 1)
	s := ChanSink(ch)

	require.NoError(t, s.Emit(context.Background(), testEvent(1)))
	assert.Equal(t, uint64(1), (<-ch).Slot)

	// channel 已满时等待 ctx
	ch <- testEvent(2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Emit(ctx, testEvent(3)), context.Canceled)
}

func TestMultiSink(t *testing.T) {
	failing := &collectSink{err: errors.New("redis down")}
	ok := &collectSink{}
	s := MultiSink{failing, ok, LogSink{}}

	err := s.Emit(context.Background(), testEvent(7))
	assert.ErrorContains(t, err, "redis down")
	assert.Equal(t, 1, failing.Len())
	assert.Equal(t, 1, ok.Len(), "前一个 sink 失败不影响后续 sink")

	assert.NoError(t, MultiSink{ok}.Emit(context.Background(), testEvent(8)))
}
