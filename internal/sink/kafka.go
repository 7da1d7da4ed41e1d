package sink

import (
	"context"
	"time"

	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/pkg/mq"
	"swap-monitor-sol/pkg/utils"
)

// KafkaSink 按 mint 分区写入 Kafka，同一 token 的事件落在同一分区以保持顺序
type KafkaSink struct {
	producer   mq.Producer
	topic      string
	partitions uint32
	timeout    time.Duration
}

func NewKafkaSink(producer mq.Producer, topic string, partitions int, timeout time.Duration) *KafkaSink {
	if partitions <= 0 {
		partitions = 1
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &KafkaSink{
		producer:   producer,
		topic:      topic,
		partitions: uint32(partitions),
		timeout:    timeout,
	}
}

func (k *KafkaSink) Emit(ctx context.Context, event *core.SwapEvent) error {
	value, err := EncodeSwapEvent(event)
	if err != nil {
		return err
	}
	job := &mq.KafkaJob{
		Topic:     k.topic,
		Partition: int32(utils.PartitionHashBytes(event.Mint[:], k.partitions)),
		Key:       event.Mint[:],
		Value:     value,
	}
	_, failed := mq.SendKafkaJobs(ctx, k.producer, []*mq.KafkaJob{job}, k.timeout)
	if len(failed) > 0 {
		return failed[0].Err
	}
	return nil
}
