package grpc

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"swap-monitor-sol/internal/config"
	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/logic/filter"
	"swap-monitor-sol/internal/logic/txadapter"
	"swap-monitor-sol/internal/stat"
	"swap-monitor-sol/pkg/logger"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/zeromicro/go-zero/core/threading"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/encoding/protojson"
)

// GrpcSubscriber 持有到 Yellowstone gRPC 的连接，每次 Subscribe 创建一条新的订阅流
type GrpcSubscriber struct {
	conn               *grpc.ClientConn
	client             pb.GeyserClient
	endpoint           string
	xToken             string
	streamPingInterval time.Duration
	sendTimeout        time.Duration
}

// splitEndpoint 去掉 URL scheme：http:// 视为明文，其余默认 TLS
func splitEndpoint(endpoint string, plaintext bool) (string, bool) {
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimPrefix(endpoint, "http://"), true
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimPrefix(endpoint, "https://"), plaintext
	default:
		return endpoint, plaintext
	}
}

// NewGrpcSubscriber 建立连接（阻塞直到成功或超时），失败返回 *core.ConnectError
func NewGrpcSubscriber(cfg config.GrpcConfig) (*GrpcSubscriber, error) {
	target, plaintext := splitEndpoint(cfg.Endpoint, cfg.Plaintext)

	creds := insecure.NewCredentials()
	if !plaintext {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ConnectTimeoutSec)*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(
		dialCtx,
		target,
		grpc.WithTransportCredentials(creds),
		grpc.WithInitialWindowSize(int32(cfg.InitialWindowSize)),
		grpc.WithInitialConnWindowSize(int32(cfg.InitialConnWindowSize)),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallSendMsgSize(cfg.MaxCallSendMsgSize),
			grpc.MaxCallRecvMsgSize(cfg.MaxCallRecvMsgSize),
		),
		grpc.WithBlock(),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                time.Duration(cfg.KeepalivePingIntervalSec) * time.Second,
			Timeout:             time.Duration(cfg.KeepalivePingTimeoutSec) * time.Second,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return nil, &core.ConnectError{Endpoint: cfg.Endpoint, Err: err}
	}
	logger.Infof("[GrpcSubscriber] connected to %s (tls=%v)", target, !plaintext)

	return &GrpcSubscriber{
		conn:               conn,
		client:             pb.NewGeyserClient(conn),
		endpoint:           cfg.Endpoint,
		xToken:             cfg.XToken,
		streamPingInterval: time.Duration(cfg.StreamPingIntervalSec) * time.Second,
		sendTimeout:        time.Duration(cfg.SendTimeoutSec) * time.Second,
	}, nil
}

func (s *GrpcSubscriber) Endpoint() string {
	return s.endpoint
}

func (s *GrpcSubscriber) Close() error {
	return s.conn.Close()
}

func (s *GrpcSubscriber) withToken(ctx context.Context) context.Context {
	if s.xToken == "" {
		return ctx
	}
	return metadata.NewOutgoingContext(ctx, metadata.New(map[string]string{"x-token": s.xToken}))
}

// Subscribe 发送一次订阅请求并返回惰性的交易流。ctx 取消或调用 Close 都会终止该流。
func (s *GrpcSubscriber) Subscribe(ctx context.Context, spec *filter.Spec) (core.EnvelopeStream, error) {
	streamCtx, cancel := context.WithCancel(ctx)

	stream, err := s.client.Subscribe(s.withToken(streamCtx))
	if err != nil {
		cancel()
		return nil, &core.ConnectError{Endpoint: s.endpoint, Err: err}
	}

	req := buildSubscribeRequest(spec)
	logger.Debugf("[GrpcSubscriber] subscribe request: %s", protojson.Format(req))
	if err := sendWithTimeout(streamCtx, stream.Send, req, s.sendTimeout); err != nil {
		cancel()
		return nil, &core.ConnectError{Endpoint: s.endpoint, Err: err}
	}
	logger.Infof("[GrpcSubscriber] subscribed: programs=%d, excluded=%d, commitment=%s",
		len(spec.MonitoredPrograms()), len(spec.Excluded()), spec.Commitment())

	es := &envelopeStream{
		stream:        stream,
		cancel:        cancel,
		includeFailed: spec.IncludeFailed(),
	}
	if s.streamPingInterval > 0 {
		threading.GoSafe(func() {
			es.pingLoop(streamCtx, s.streamPingInterval, s.sendTimeout)
		})
	}
	return es, nil
}

// subscribeStream 是 pb.Geyser_SubscribeClient 中用到的部分
type subscribeStream interface {
	Send(*pb.SubscribeRequest) error
	Recv() (*pb.SubscribeUpdate, error)
}

type envelopeStream struct {
	stream        subscribeStream
	cancel        context.CancelFunc
	includeFailed bool
	closeOnce     sync.Once
}

// Recv 跳过 ping/pong 以及校验失败的交易，直到拿到下一笔可路由的交易
func (e *envelopeStream) Recv() (*core.Envelope, error) {
	for {
		update, err := e.stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.Infof("[GrpcSubscriber] stream closed by server (EOF)")
				return nil, core.ErrEndOfStream
			}
			return nil, &core.StreamError{Err: err}
		}

		u, ok := update.GetUpdateOneof().(*pb.SubscribeUpdate_Transaction)
		if !ok {
			continue
		}
		env, err := txadapter.AdaptGrpcTx(u.Transaction, e.includeFailed)
		if err != nil {
			switch {
			case errors.Is(err, txadapter.ErrVoteTx):
				stat.FeedSkippedTotal.Inc("vote")
			case errors.Is(err, txadapter.ErrFailedTx):
				stat.FeedSkippedTotal.Inc("failed")
			default:
				stat.FeedSkippedTotal.Inc("invalid")
				logger.Warnf("[GrpcSubscriber] skip transaction at slot %d: %v", u.Transaction.GetSlot(), err)
			}
			continue
		}
		return env, nil
	}
}

func (e *envelopeStream) Close() error {
	e.closeOnce.Do(e.cancel)
	return nil
}

// pingLoop 定期发送应用层 ping，防止负载均衡器回收空闲的订阅流。
// 上一次 Send 超时后仍未返回时跳过本次 ping，同一条流上不能并发 Send。
func (e *envelopeStream) pingLoop(ctx context.Context, interval, sendTimeout time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		id       int32
		inFlight atomic.Bool
	)
	send := func(req *pb.SubscribeRequest) error {
		defer inFlight.Store(false)
		return e.stream.Send(req)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !inFlight.CompareAndSwap(false, true) {
				logger.Warnf("[GrpcSubscriber] previous ping still in flight, skip")
				continue
			}
			id++
			pingReq := &pb.SubscribeRequest{Ping: &pb.SubscribeRequestPing{Id: id}}
			if err := sendWithTimeout(ctx, send, pingReq, sendTimeout); err != nil {
				// 只记录日志，由 Recv 侧感知流断开
				logger.Warnf("[GrpcSubscriber] ping failed: %v", err)
			}
		}
	}
}

// 带超时的 Send
func sendWithTimeout[T any](ctx context.Context, sendFunc func(T) error, req T, timeout time.Duration) error {
	if timeout <= 0 {
		return sendFunc(req)
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sendFunc(req)
	}()

	select {
	case <-timeoutCtx.Done():
		return timeoutCtx.Err()
	case err := <-done:
		return err
	}
}
