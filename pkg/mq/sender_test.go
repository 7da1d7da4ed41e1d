package mq

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "swap-monitor-test"

// fakeProducer 按 topic 决定回执：失败、超时或成功
type fakeProducer struct {
	mu       sync.Mutex
	produced []*kafka.Message
	fail     map[string]error
	silent   map[string]bool // 不回执，用于模拟超时
}

func (p *fakeProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	p.mu.Lock()
	p.produced = append(p.produced, msg)
	p.mu.Unlock()

	topic := *msg.TopicPartition.Topic
	if p.silent[topic] {
		return nil
	}
	reply := *msg
	reply.TopicPartition.Error = p.fail[topic]
	deliveryChan <- &reply
	return nil
}

func TestSendKafkaJobs_Fake(t *testing.T) {
	producer := &fakeProducer{
		fail: map[string]error{"bad": errors.New("broker down")},
	}
	jobs := []*KafkaJob{
		{Topic: testTopic, Value: []byte("a")},
		{Topic: testTopic, Key: []byte("k"), Value: []byte("b")},
		{Topic: "bad", Value: []byte("c")},
	}

	ok, failed := SendKafkaJobs(context.Background(), producer, jobs, time.Second)

	assert.Len(t, ok, 2)
	require.Len(t, failed, 1)
	assert.Equal(t, "bad", failed[0].Job.Topic)
	assert.EqualError(t, failed[0].Err, "broker down")
	assert.Len(t, producer.produced, 3)
}

func TestSendKafkaJobs_Timeout(t *testing.T) {
	producer := &fakeProducer{silent: map[string]bool{testTopic: true}}
	jobs := []*KafkaJob{{Topic: testTopic, Value: []byte("x")}}

	ok, failed := SendKafkaJobs(context.Background(), producer, jobs, 10*time.Millisecond)

	assert.Empty(t, ok)
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].Err.Error(), "delivery timeout")
}

func TestSendKafkaJobs_Cancelled(t *testing.T) {
	producer := &fakeProducer{silent: map[string]bool{testTopic: true}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, failed := SendKafkaJobs(ctx, producer, []*KafkaJob{{Topic: testTopic}}, time.Second)

	require.Len(t, failed, 1)
	assert.ErrorIs(t, failed[0].Err, context.Canceled)
}

func TestSendKafkaJobs_Empty(t *testing.T) {
	ok, failed := SendKafkaJobs(context.Background(), &fakeProducer{}, nil, time.Second)
	assert.Empty(t, ok)
	assert.Empty(t, failed)
}

// 需要本地 Kafka：KAFKA_BROKERS=127.0.0.1:9092 go test ./pkg/mq/...
func TestSendKafkaJobs_RealKafka(t *testing.T) {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		t.Skip("KAFKA_BROKERS not set")
	}

	producer, err := NewKafkaProducer(KafkaProducerOption{
		Brokers:   brokers,
		BatchSize: 32 * 1024,
		LingerMs:  5,
		Topics:    []TopicOption{{Topic: testTopic, Partitions: 1}},
	})
	require.NoError(t, err)
	defer producer.Close()

	jobs := []*KafkaJob{
		{Topic: testTopic, Value: []byte("test message 1")},
		{Topic: testTopic, Value: []byte("test message 2")},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ok, failed := SendKafkaJobs(ctx, producer, jobs, 5*time.Second)
	assert.Len(t, ok, 2)
	assert.Empty(t, failed)
	producer.Flush(1000)
}
