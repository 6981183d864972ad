package mq

import "context"

// Message 与具体消息中间件无关的投递单元，Key 决定分区/顺序
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

type PublishResult struct {
	Partition int32
	Offset    int64
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) (PublishResult, error)
	Close() error
}
