package initial

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"GroupLink/internal/config"
	"GroupLink/internal/modules/group/infrastructure/mq"
	"GroupLink/internal/modules/group/infrastructure/mq/kafka"
	natsPublisher "GroupLink/internal/modules/group/infrastructure/mq/nats"
	redisPublisher "GroupLink/internal/modules/group/infrastructure/mq/redis"
	"GroupLink/internal/modules/group/infrastructure/notify"
	"GroupLink/pkg/redis"
	"GroupLink/pkg/zlog"

	"go.uber.org/zap"
)

// NewEventPublisher 按 notifyConfig.transport 选择消息通道，none 返回 nil
func NewEventPublisher(conf *config.Config) (mq.Publisher, error) {
	transport := strings.ToLower(strings.TrimSpace(conf.NotifyConfig.Transport))
	zlog.Info("group event transport", zap.String("transport", transport), zap.String("topic", conf.NotifyConfig.Topic))

	switch transport {
	case "", "none":
		return nil, nil
	case "kafka":
		err := kafka.EnsureTopic(kafka.TopicConfig{
			Brokers:     conf.KafkaConfig.Brokers,
			ClientID:    conf.KafkaConfig.ClientID,
			Topic:       conf.NotifyConfig.Topic,
			Partitions:  conf.KafkaConfig.Partitions,
			Replication: conf.KafkaConfig.Replication,
		})
		if err != nil {
			return nil, fmt.Errorf("ensure kafka topic: %w", err)
		}
		return kafka.NewSaramaPublisher(kafka.PublisherConfig{
			Brokers:  conf.KafkaConfig.Brokers,
			ClientID: conf.KafkaConfig.ClientID,
		})
	case "redis":
		if !redis.IsConnected() {
			return nil, errors.New("redis transport selected but redis is not connected")
		}
		return redisPublisher.NewPublisher(redis.GetClient())
	case "nats":
		conn, err := natsPublisher.Connect(natsPublisher.Config{
			URL:  conf.NatsConfig.URL,
			Name: conf.NatsConfig.Name,
		})
		if err != nil {
			return nil, err
		}
		return natsPublisher.NewPublisher(conn)
	default:
		return nil, fmt.Errorf("unknown notify transport: %s", transport)
	}
}

// NewRelayConfig 出箱投递参数
func NewRelayConfig(conf config.NotifyConfig) notify.Config {
	return notify.Config{
		Topic:        conf.Topic,
		BatchSize:    conf.BatchSize,
		PollInterval: time.Duration(conf.PollIntervalMs) * time.Millisecond,
		Lease:        time.Duration(conf.LeaseSeconds) * time.Second,
		RetryBackoff: time.Duration(conf.RetryBackoffMs) * time.Millisecond,
		MaxBackoff:   time.Duration(conf.MaxBackoffSeconds) * time.Second,
	}
}
