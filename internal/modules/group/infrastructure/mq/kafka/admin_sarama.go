package kafka

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/IBM/sarama"
)

type TopicConfig struct {
	Brokers     []string
	ClientID    string
	Topic       string
	Partitions  int32
	Replication int16
	Retention   time.Duration
}

// EnsureTopic 主题不存在时创建，已存在直接返回
func EnsureTopic(cfg TopicConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New("kafka brokers is empty")
	}
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		return errors.New("kafka topic is empty")
	}

	sc := sarama.NewConfig()
	sc.Version = sarama.V2_8_0_0
	sc.ClientID = strings.TrimSpace(cfg.ClientID)

	admin, err := sarama.NewClusterAdmin(cfg.Brokers, sc)
	if err != nil {
		return err
	}
	defer admin.Close()

	topics, err := admin.ListTopics()
	if err != nil {
		return err
	}
	if _, ok := topics[topic]; ok {
		return nil
	}

	if err := admin.CreateTopic(topic, topicDetail(cfg), false); err != nil {
		if errors.Is(err, sarama.ErrTopicAlreadyExists) {
			return nil
		}
		return err
	}
	return nil
}

func topicDetail(cfg TopicConfig) *sarama.TopicDetail {
	partitions := cfg.Partitions
	if partitions <= 0 {
		partitions = 1
	}
	replication := cfg.Replication
	if replication <= 0 {
		replication = 1
	}
	retention := cfg.Retention
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	ms := strconv.FormatInt(retention.Milliseconds(), 10)
	return &sarama.TopicDetail{
		NumPartitions:     partitions,
		ReplicationFactor: replication,
		ConfigEntries: map[string]*string{
			"retention.ms": &ms,
		},
	}
}
