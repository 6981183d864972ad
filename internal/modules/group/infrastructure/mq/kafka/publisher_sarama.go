package kafka

import (
	"context"
	"errors"
	"strings"
	"time"

	"GroupLink/internal/modules/group/infrastructure/mq"

	"github.com/IBM/sarama"
)

type PublisherConfig struct {
	Brokers  []string
	ClientID string
}

type saramaPublisher struct {
	p sarama.SyncProducer
}

// NewSaramaPublisher 同一个群的事件使用相同 key，哈希分区保证群内有序
func NewSaramaPublisher(cfg PublisherConfig) (mq.Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers is empty")
	}

	p, err := sarama.NewSyncProducer(cfg.Brokers, newProducerConfig(cfg.ClientID))
	if err != nil {
		return nil, err
	}
	return &saramaPublisher{p: p}, nil
}

func newProducerConfig(clientID string) *sarama.Config {
	sc := sarama.NewConfig()
	sc.Version = sarama.V2_8_0_0
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 10
	sc.Producer.Retry.Backoff = 100 * time.Millisecond
	sc.Producer.Idempotent = true
	sc.Net.MaxOpenRequests = 1
	sc.Producer.Partitioner = sarama.NewHashPartitioner
	sc.ClientID = strings.TrimSpace(clientID)
	return sc
}

func toProducerMessage(msg mq.Message) *sarama.ProducerMessage {
	m := &sarama.ProducerMessage{
		Topic: msg.Topic,
		Key:   sarama.ByteEncoder(msg.Key),
		Value: sarama.ByteEncoder(msg.Value),
	}
	for k, v := range msg.Headers {
		kk := strings.TrimSpace(k)
		if kk == "" {
			continue
		}
		m.Headers = append(m.Headers, sarama.RecordHeader{Key: []byte(kk), Value: []byte(v)})
	}
	return m
}

func (s *saramaPublisher) Publish(ctx context.Context, msg mq.Message) (mq.PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return mq.PublishResult{}, err
	}
	if strings.TrimSpace(msg.Topic) == "" {
		return mq.PublishResult{}, errors.New("kafka topic is empty")
	}

	partition, offset, err := s.p.SendMessage(toProducerMessage(msg))
	if err != nil {
		return mq.PublishResult{}, err
	}
	return mq.PublishResult{Partition: partition, Offset: offset}, nil
}

func (s *saramaPublisher) Close() error {
	if s == nil || s.p == nil {
		return nil
	}
	return s.p.Close()
}
