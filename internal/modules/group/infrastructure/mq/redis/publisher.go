package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"GroupLink/internal/modules/group/infrastructure/mq"

	"github.com/redis/go-redis/v9"
)

type pubClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type redisPublisher struct {
	cli pubClient
}

// NewPublisher 基于 Redis Pub/Sub 的发布者，Topic 即频道名
func NewPublisher(cli *redis.Client) (mq.Publisher, error) {
	if cli == nil {
		return nil, errors.New("redis client is nil")
	}
	return &redisPublisher{cli: cli}, nil
}

// envelope Pub/Sub 没有 key 和 header，一并放进消息体
type envelope struct {
	Key     string            `json:"key,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Value   json.RawMessage   `json:"value"`
}

func (p *redisPublisher) Publish(ctx context.Context, msg mq.Message) (mq.PublishResult, error) {
	channel := strings.TrimSpace(msg.Topic)
	if channel == "" {
		return mq.PublishResult{}, errors.New("redis channel is empty")
	}

	body, err := json.Marshal(envelope{Key: string(msg.Key), Headers: msg.Headers, Value: msg.Value})
	if err != nil {
		return mq.PublishResult{}, err
	}
	// 返回值是收到消息的订阅者数量，没有订阅者不算失败
	if err := p.cli.Publish(ctx, channel, body).Err(); err != nil {
		return mq.PublishResult{}, err
	}
	return mq.PublishResult{}, nil
}

// Close 连接由 pkg/redis 统一管理
func (p *redisPublisher) Close() error {
	return nil
}
