package mq

import (
	"context"
	"fmt"
	"time"

	"swap-monitor-sol/pkg/logger"
	"swap-monitor-sol/pkg/utils"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const adminTimeout = 10 * time.Second

type TopicOption struct {
	Topic             string
	Partitions        int
	ReplicationFactor int // 只在创建 topic 时使用
}

type KafkaProducerOption struct {
	Brokers   string // 多个用英文逗号分隔
	BatchSize int    // 字节
	LingerMs  int
	Topics    []TopicOption
}

// missingTopics 返回 metadata 中尚不存在的 topic
func missingTopics(existing map[string]kafka.TopicMetadata, topics []TopicOption) []kafka.TopicSpecification {
	var specs []kafka.TopicSpecification
	for _, t := range topics {
		if _, ok := existing[t.Topic]; ok {
			continue
		}
		rf := t.ReplicationFactor
		if rf <= 0 {
			rf = 1
		}
		specs = append(specs, kafka.TopicSpecification{
			Topic:             t.Topic,
			NumPartitions:     t.Partitions,
			ReplicationFactor: rf,
		})
	}
	return specs
}

func ensureTopics(brokers string, topics []TopicOption) error {
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{"bootstrap.servers": brokers})
	if err != nil {
		return fmt.Errorf("create admin client: %w", err)
	}
	defer admin.Close()

	meta, err := admin.GetMetadata(nil, true, int(adminTimeout.Milliseconds()))
	if err != nil {
		return fmt.Errorf("get metadata: %w", err)
	}
	specs := missingTopics(meta.Topics, topics)
	if len(specs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), adminTimeout)
	defer cancel()
	results, err := admin.CreateTopics(ctx, specs)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	for _, r := range results {
		switch r.Error.Code() {
		case kafka.ErrNoError:
			logger.Infof("[mq] topic %s created", r.Topic)
		case kafka.ErrTopicAlreadyExists:
		default:
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Error)
		}
	}
	return nil
}

// NewKafkaProducer 确保 topic 存在后创建幂等生产者
func NewKafkaProducer(cfg KafkaProducerOption) (*kafka.Producer, error) {
	if err := ensureTopics(cfg.Brokers, cfg.Topics); err != nil {
		return nil, err
	}

	localIP, _ := utils.GetLocalIP()
	if localIP == "" {
		localIP = "unknown"
	}
	conf := &kafka.ConfigMap{
		"bootstrap.servers":  cfg.Brokers,
		"client.id":          "swap-monitor-sol-" + localIP,
		"acks":               "all",
		"enable.idempotence": true,
		"linger.ms":          cfg.LingerMs,
	}
	if cfg.BatchSize > 0 {
		_ = conf.SetKey("batch.size", cfg.BatchSize)
	}

	producer, err := kafka.NewProducer(conf)
	if err != nil {
		return nil, fmt.Errorf("create producer: %w", err)
	}
	return producer, nil
}
