package svc

import (
	"context"
	"strings"
	"time"

	"swap-monitor-sol/internal/config"
	"swap-monitor-sol/internal/logic/eventparser"
	"swap-monitor-sol/internal/logic/filter"
	"swap-monitor-sol/internal/logic/grpc"
	"swap-monitor-sol/internal/logic/router"
	"swap-monitor-sol/internal/sink"
	"swap-monitor-sol/pkg/logger"
	"swap-monitor-sol/pkg/mq"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/redis/go-redis/v9"
)

// ServiceContext 包含监控服务运行所需的全部资源
type ServiceContext struct {
	Config     config.MonitorConfig
	Spec       *filter.Spec
	Registry   *eventparser.Registry
	Router     *router.Router
	Subscriber *grpc.GrpcSubscriber
	RpcClient  *client.Client // rpc.endpoint 为空时为 nil

	producer    *kafka.Producer
	redisClient *redis.Client
	asyncSinks  []*sink.AsyncSink
}

// NewServiceContext 按依赖顺序构造：过滤条件 → 解码器 → sink → router → gRPC 连接
func NewServiceContext(c config.MonitorConfig) (*ServiceContext, error) {
	ctx := &ServiceContext{Config: c}

	// 1. 过滤条件与解码器
	spec, err := filter.NewFromConfig(c.Filter)
	if err != nil {
		return nil, err
	}
	ctx.Spec = spec

	registry, err := eventparser.NewRegistry(spec)
	if err != nil {
		return nil, err
	}
	ctx.Registry = registry

	// 2. 事件输出，Kafka / Redis 按配置启用，均经 AsyncSink 与消费循环解耦
	sinks := sink.MultiSink{sink.LogSink{}}
	if strings.TrimSpace(c.Kafka.Brokers) != "" {
		producer, err := mq.NewKafkaProducer(c.Kafka.ToKafkaOption())
		if err != nil {
			logger.Errorf("[ServiceContext] Kafka producer 初始化失败: %v", err)
			ctx.Close()
			return nil, err
		}
		ctx.producer = producer
		kafkaSink := sink.NewKafkaSink(producer, c.Kafka.Topic, c.Kafka.Partitions, time.Duration(c.Kafka.SendTimeoutMs)*time.Millisecond)
		sinks = append(sinks, ctx.addAsync("kafka", kafkaSink))
	}
	if strings.TrimSpace(c.Redis.Addr) != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Errorf("[ServiceContext] Redis 连接失败: %v", err)
			_ = rdb.Close()
			ctx.Close()
			return nil, err
		}
		ctx.redisClient = rdb
		redisSink := sink.NewRedisSink(rdb, c.Redis.Channel, c.Redis.KeyPrefix, time.Duration(c.Redis.DedupTTL)*time.Second)
		sinks = append(sinks, ctx.addAsync("redis", redisSink))
	}

	// 3. 路由
	ctx.Router = router.NewRouter(spec, registry, sinks)

	// 4. gRPC 连接
	subscriber, err := grpc.NewGrpcSubscriber(c.Grpc)
	if err != nil {
		ctx.Close()
		return nil, err
	}
	ctx.Subscriber = subscriber

	// 5. 可选的 RPC 客户端（slot 延迟检测）
	if c.Rpc.Endpoint != "" {
		ctx.RpcClient = client.NewClient(c.Rpc.Endpoint)
	}

	logger.Infof("[ServiceContext] 初始化完成: %s, sinks=%d", ctx.Router, len(sinks))
	return ctx, nil
}

func (ctx *ServiceContext) addAsync(name string, next sink.EventSink) *sink.AsyncSink {
	s := sink.NewAsyncSink(name, next, ctx.Config.Sink.BufferSize)
	ctx.asyncSinks = append(ctx.asyncSinks, s)
	return s
}

// Close 先排空异步 sink，再关闭外部连接
func (ctx *ServiceContext) Close() {
	for _, s := range ctx.asyncSinks {
		s.Close()
	}
	if ctx.producer != nil {
		ctx.producer.Flush(3000)
		ctx.producer.Close()
	}
	if ctx.redisClient != nil {
		_ = ctx.redisClient.Close()
	}
	if ctx.Subscriber != nil {
		_ = ctx.Subscriber.Close()
	}
}
