package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"swap-monitor-sol/internal/config"
	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/logic/filter"
	"swap-monitor-sol/internal/logic/router"
	"swap-monitor-sol/internal/stat"
	"swap-monitor-sol/pkg/logger"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errMonitorStopped = errors.New("MonitorService stop")

// healthyStreamDuration 流存活超过该时长即视为正常工作过，重置退避
const healthyStreamDuration = 30 * time.Second

// FeedSubscriber 每次调用创建一条新的订阅流，*grpc.GrpcSubscriber 实现该接口
type FeedSubscriber interface {
	Subscribe(ctx context.Context, spec *filter.Spec) (core.EnvelopeStream, error)
}

// MonitorService 驱动订阅流与路由循环，流断开后按退避策略重新订阅
type MonitorService struct {
	spec       *filter.Spec
	subscriber FeedSubscriber
	router     *router.Router
	reconnect  config.ReconnectConfig

	ctx    context.Context
	cancel context.CancelCauseFunc

	done     chan struct{}
	doneOnce sync.Once
	err      error
}

func NewMonitorService(spec *filter.Spec, subscriber FeedSubscriber, r *router.Router, cfg config.ReconnectConfig) *MonitorService {
	ctx, cancel := context.WithCancelCause(context.Background())
	return &MonitorService{
		spec:       spec,
		subscriber: subscriber,
		router:     r,
		reconnect:  cfg,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// Start 阻塞直到 Stop 或出现致命错误，致命错误可通过 Err 获取
func (s *MonitorService) Start() {
	defer s.doneOnce.Do(func() { close(s.done) })

	g, ctx := errgroup.WithContext(s.ctx)
	g.Go(func() error {
		return s.run(ctx)
	})
	if s.reconnect.StatsIntervalSec > 0 {
		g.Go(func() error {
			s.reportStats(ctx, time.Duration(s.reconnect.StatsIntervalSec)*time.Second)
			return nil
		})
	}

	s.err = g.Wait()
	if s.err != nil {
		logger.Errorf("[MonitorService] stopped with fatal error: %v", s.err)
	} else {
		logger.Infof("[MonitorService] stopped, %s", s.router.Stats())
	}
}

func (s *MonitorService) Stop() {
	s.cancel(errMonitorStopped)
}

// Done 在 Start 返回后关闭
func (s *MonitorService) Done() <-chan struct{} {
	return s.done
}

// Err 只在 Done 关闭后有意义，正常停止为 nil
func (s *MonitorService) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

func (s *MonitorService) run(ctx context.Context) error {
	// 首次订阅失败是致命的
	stream, err := s.subscriber.Subscribe(ctx, s.spec)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	logger.Infof("[MonitorService] monitoring %s", s.router)

	// 退避进度跨越多次重连保留，只有流正常工作过才重置
	policy := s.newBackOff()
	for {
		started := time.Now()
		delivered := s.router.Stats().Envelopes

		err := s.router.Run(ctx, stream)
		_ = stream.Close()
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			err = core.ErrEndOfStream
		}
		if isPermanent(err) {
			return fmt.Errorf("stream rejected by server: %w", err)
		}
		if s.router.Stats().Envelopes > delivered || time.Since(started) >= healthyStreamDuration {
			policy.Reset()
		}

		wait := policy.NextBackOff()
		logger.Warnf("[MonitorService] stream interrupted: %v, resubscribe in %v, %s", err, wait, s.router.Stats())
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}

		stream, err = s.resubscribe(ctx, policy)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("resubscribe failed: %w", err)
		}
	}
}

func (s *MonitorService) newBackOff() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = time.Duration(s.reconnect.InitialIntervalMs) * time.Millisecond
	expo.MaxInterval = time.Duration(s.reconnect.MaxIntervalMs) * time.Millisecond
	if s.reconnect.Multiplier > 1 {
		expo.Multiplier = s.reconnect.Multiplier
	}
	expo.Reset()
	return expo
}

// sharedBackOff 忽略 backoff.Retry 开始时的 Reset，由 run 决定何时重置
type sharedBackOff struct {
	*backoff.ExponentialBackOff
}

func (sharedBackOff) Reset() {}

func (s *MonitorService) resubscribe(ctx context.Context, policy *backoff.ExponentialBackOff) (core.EnvelopeStream, error) {
	attempt := 0
	operation := func() (core.EnvelopeStream, error) {
		attempt++
		stream, err := s.subscriber.Subscribe(ctx, s.spec)
		if err != nil {
			stat.ReconnectsTotal.Inc("error")
			if isPermanent(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		stat.ReconnectsTotal.Inc("ok")
		logger.Infof("[MonitorService] resubscribed after %d attempt(s)", attempt)
		return stream, nil
	}
	notify := func(err error, next time.Duration) {
		logger.Warnf("[MonitorService] resubscribe attempt %d failed: %v, retry in %v", attempt, err, next)
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(sharedBackOff{policy}),
		backoff.WithMaxTries(uint(s.reconnect.MaxTries)),
		backoff.WithMaxElapsedTime(time.Duration(s.reconnect.MaxElapsedSec)*time.Second),
		backoff.WithNotify(notify),
	)
}

func (s *MonitorService) reportStats(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.Infof("[MonitorService] stats: %s", s.router.Stats())
		}
	}
}

// isPermanent 认证或请求本身被拒绝时重连没有意义
func isPermanent(err error) bool {
	switch status.Code(err) {
	case codes.Unauthenticated, codes.PermissionDenied, codes.InvalidArgument:
		return true
	default:
		return false
	}
}
