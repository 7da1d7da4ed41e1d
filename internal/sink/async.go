package sink

import (
	"context"
	"errors"
	"sync"

	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/stat"
	"swap-monitor-sol/pkg/logger"

	"github.com/zeromicro/go-zero/core/threading"
)

var (
	ErrSinkFull   = errors.New("sink: buffer full, event dropped")
	ErrSinkClosed = errors.New("sink: closed")
)

// AsyncSink 将慢速 sink（Kafka、Redis）与消费循环解耦：
// Emit 只入队，缓冲区满时丢弃事件并返回 ErrSinkFull。
type AsyncSink struct {
	name   string
	next   EventSink
	ch     chan *core.SwapEvent
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewAsyncSink(name string, next EventSink, bufferSize int) *AsyncSink {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &AsyncSink{
		name:   name,
		next:   next,
		ch:     make(chan *core.SwapEvent, bufferSize),
		ctx:    ctx,
		cancel: cancel,
	}
	s.wg.Add(1)
	threading.GoSafe(s.loop)
	return s
}

func (s *AsyncSink) Emit(_ context.Context, event *core.SwapEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSinkClosed
	}
	select {
	case s.ch <- event:
		return nil
	default:
		logger.Warnf("[AsyncSink:%s] buffer full, drop %s", s.name, event.Signature)
		return ErrSinkFull
	}
}

func (s *AsyncSink) loop() {
	defer s.wg.Done()
	for event := range s.ch {
		if err := s.next.Emit(s.ctx, event); err != nil {
			stat.SinkErrorsTotal.Inc(s.name)
			logger.Errorf("[AsyncSink:%s] emit failed: tx=%s, err=%v", s.name, event.Signature, err)
		}
	}
}

// Close 停止接收新事件并等待缓冲区排空
func (s *AsyncSink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.ch)
	s.mu.Unlock()

	s.wg.Wait()
	s.cancel()
}
