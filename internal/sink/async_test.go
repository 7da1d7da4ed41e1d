package sink

import (
	"context"
	"testing"

	"swap-monitor-sol/internal/logic/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncSinkDeliversOnClose(t *testing.T) {
	next := &collectSink{}
	s := NewAsyncSink("test", next, 16)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Emit(context.Background(), testEvent(uint64(i))))
	}
	s.Close()

	require.Equal(t, 10, next.Len())
	for i, e := range next.events {
		assert.Equal(t, uint64(i), e.Slot, "保持入队顺序")
	}
	assert.ErrorIs(t, s.Emit(context.Background(), testEvent(99)), ErrSinkClosed)
	s.Close()
}

func TestAsyncSinkDropsWhenFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	blocking := FuncSink(func(context.Context, *core.SwapEvent) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	})
	s := NewAsyncSink("blocking", blocking, 1)

	require.NoError(t, s.Emit(context.Background(), testEvent(1)))
	<-started // 第一个事件已被 worker 取走并阻塞

	require.NoError(t, s.Emit(context.Background(), testEvent(2)))
	assert.ErrorIs(t, s.Emit(context.Background(), testEvent(3)), ErrSinkFull)

	close(release)
	s.Close()
}
