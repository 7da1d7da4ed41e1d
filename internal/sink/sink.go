package sink

import (
	"context"
	"errors"

	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/pkg/logger"
)

// EventSink 接收 router 解码出的 SwapEvent。Emit 在消费循环中同步调用，实现不应长时间阻塞。
type EventSink interface {
	Emit(ctx context.Context, event *core.SwapEvent) error
}

// LogSink 把事件写到日志，对应最初的诊断输出
type LogSink struct{}

func (LogSink) Emit(_ context.Context, event *core.SwapEvent) error {
	logger.Infof("[Swap] %s trader=%s", event, event.Trader)
	return nil
}

// FuncSink 回调形式的 sink
type FuncSink func(ctx context.Context, event *core.SwapEvent) error

func (f FuncSink) Emit(ctx context.Context, event *core.SwapEvent) error {
	return f(ctx, event)
}

// ChanSink 把事件写入调用方持有的 channel，channel 满时阻塞直到 ctx 取消
type ChanSink chan<- *core.SwapEvent

func (c ChanSink) Emit(ctx context.Context, event *core.SwapEvent) error {
	select {
	case c <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MultiSink 依次调用所有 sink，单个失败不影响其余 sink，错误合并返回
type MultiSink []EventSink

func (m MultiSink) Emit(ctx context.Context, event *core.SwapEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
