package config

import (
	"swap-monitor-sol/pkg/logger"
	"swap-monitor-sol/pkg/mq"

	"github.com/zeromicro/go-zero/core/prometheus"
)

type LogConfig struct {
	Format   string `json:"format,default=console,options=console|json"` // 日志格式，支持 "console" 或 "json"
	LogDir   string `json:"log_dir,optional"`                            // 日志目录，为空则只输出到 stdout
	Level    string `json:"level,default=info,options=debug|info|warn|error"`
	Compress bool   `json:"compress,optional"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// GrpcConfig Yellowstone gRPC 客户端连接相关配置
type GrpcConfig struct {
	Endpoint  string `json:"endpoint"`           // gRPC 服务端地址 host:port
	XToken    string `json:"x_token,optional"`   // x-token 认证
	Plaintext bool   `json:"plaintext,optional"` // 不使用 TLS（本地调试用）

	// 应用级逻辑心跳（ping）配置
	StreamPingIntervalSec int `json:"stream_ping_interval_sec,default=10"`

	// gRPC Keepalive 底层连接检测配置
	KeepalivePingIntervalSec int `json:"keepalive_ping_interval_sec,default=15"`
	KeepalivePingTimeoutSec  int `json:"keepalive_ping_timeout_sec,default=5"`

	// gRPC 窗口大小调优（用于大数据流推送）
	InitialWindowSize     int `json:"initial_window_size,default=16777216"`       // 单流窗口大小（字节）
	InitialConnWindowSize int `json:"initial_conn_window_size,default=134217728"` // 整体连接窗口大小（字节）

	// 消息体大小限制
	MaxCallSendMsgSize int `json:"max_call_send_msg_size,default=67108864"`
	MaxCallRecvMsgSize int `json:"max_call_recv_msg_size,default=67108864"`

	ConnectTimeoutSec int `json:"connect_timeout_sec,default=10"` // 连接建立超时（秒）
	SendTimeoutSec    int `json:"send_timeout_sec,default=5"`     // 发送超时（秒）
}

// ProgramConfig 一个被监控的程序：链上 id + 对应的解码器种类
type ProgramConfig struct {
	Kind string `json:"kind,options=pump|raydium"`
	ID   string `json:"id"`
}

// FilterConfig 订阅过滤与目标账户
type FilterConfig struct {
	Programs         []ProgramConfig `json:"programs"`
	ExcludedAccounts []string        `json:"excluded_accounts,optional"`
	Target           string          `json:"target"`
	Commitment       string          `json:"commitment,default=confirmed,options=processed|confirmed|finalized"`
	SentinelMint     string          `json:"sentinel_mint,default=So11111111111111111111111111111111111111112"`
	IncludeFailed    bool            `json:"include_failed,optional"` // 是否订阅执行失败的交易
}

// ReconnectConfig 流中断后的重连策略（指数退避）
type ReconnectConfig struct {
	InitialIntervalMs int     `json:"initial_interval_ms,default=500"`
	MaxIntervalMs     int     `json:"max_interval_ms,default=30000"`
	Multiplier        float64 `json:"multiplier,default=2"`
	MaxTries          int     `json:"max_tries,default=0"`           // 0 表示不限次数
	MaxElapsedSec     int     `json:"max_elapsed_sec,default=0"`     // 0 表示不限时长
	StatsIntervalSec  int     `json:"stats_interval_sec,default=60"` // 路由统计日志间隔，0 关闭
}

// SinkConfig 事件输出配置
type SinkConfig struct {
	BufferSize int `json:"buffer_size,default=1024"` // 异步 sink 缓冲大小
}

// KafkaProducerConfig 表示 Kafka 生产者相关配置，Brokers 为空则不启用
type KafkaProducerConfig struct {
	Brokers       string `json:"brokers,optional"`         // Kafka broker 地址，多个用英文逗号分隔
	BatchSize     int    `json:"batch_size,default=32768"` // 批处理大小（单位字节）
	LingerMs      int    `json:"linger_ms,default=5"`      // 批处理最大延迟（毫秒）
	Topic         string `json:"topic,default=swap_monitor_sol_event"`
	Partitions    int    `json:"partitions,default=4"`
	Replication   int    `json:"replication_factor,default=1"` // 仅在自动创建 topic 时使用
	SendTimeoutMs int    `json:"send_timeout_ms,default=3000"` // 单条事件发送到 Kafka 并等待 ack 的超时时间
}

func (c *KafkaProducerConfig) ToKafkaOption() mq.KafkaProducerOption {
	return mq.KafkaProducerOption{
		Brokers:   c.Brokers,
		BatchSize: c.BatchSize,
		LingerMs:  c.LingerMs,
		Topics: []mq.TopicOption{
			{Topic: c.Topic, Partitions: c.Partitions, ReplicationFactor: c.Replication},
		},
	}
}

// RedisConfig Addr 为空则不启用
type RedisConfig struct {
	Addr      string `json:"addr,optional"`
	Password  string `json:"password,optional"`
	DB        int    `json:"db,optional"`
	Channel   string `json:"channel,default=swap_monitor_sol:swaps"`
	KeyPrefix string `json:"key_prefix,default=swap_monitor_sol"`
	DedupTTL  int    `json:"dedup_ttl_sec,default=86400"`
}

// RpcConfig 用于 slot 延迟检测，Endpoint 为空则不启用
type RpcConfig struct {
	Endpoint         string `json:"endpoint,optional"`
	CheckIntervalSec int    `json:"check_interval_sec,default=30"`
	MaxLagSlots      uint64 `json:"max_lag_slots,default=150"`
}

// MonitorConfig 是主配置结构体
type MonitorConfig struct {
	LogConf    LogConfig           `json:"logger"`
	Grpc       GrpcConfig          `json:"grpc"`
	Filter     FilterConfig        `json:"filter"`
	Reconnect  ReconnectConfig     `json:"reconnect"`
	Sink       SinkConfig          `json:"sink"`
	Kafka      KafkaProducerConfig `json:"kafka"`
	Redis      RedisConfig         `json:"redis"`
	Rpc        RpcConfig           `json:"rpc"`
	Prometheus prometheus.Config   `json:"prometheus,optional"`
}
