package nats

import (
	"context"
	"errors"
	"strings"
	"time"

	"GroupLink/internal/modules/group/infrastructure/mq"

	"github.com/nats-io/nats.go"
)

type Config struct {
	URL           string
	Name          string
	MaxReconnects int
	ReconnectWait time.Duration
}

type msgConn interface {
	PublishMsg(m *nats.Msg) error
	Drain() error
}

type natsPublisher struct {
	conn msgConn
}

// Connect 建立 NATS 连接，断线自动重连
func Connect(cfg Config) (*nats.Conn, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("nats url is empty")
	}
	if cfg.MaxReconnects == 0 {
		cfg.MaxReconnects = -1
	}
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = 2 * time.Second
	}
	return nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
	)
}

func NewPublisher(conn *nats.Conn) (mq.Publisher, error) {
	if conn == nil {
		return nil, errors.New("nats conn is nil")
	}
	return &natsPublisher{conn: conn}, nil
}

// Publish Topic 作为 subject，Key 放在 Nats-Msg-Id 头里便于 JetStream 去重
func (p *natsPublisher) Publish(ctx context.Context, msg mq.Message) (mq.PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return mq.PublishResult{}, err
	}
	subject := strings.TrimSpace(msg.Topic)
	if subject == "" {
		return mq.PublishResult{}, errors.New("nats subject is empty")
	}

	m := nats.NewMsg(subject)
	m.Data = msg.Value
	for k, v := range msg.Headers {
		if k = strings.TrimSpace(k); k != "" {
			m.Header.Set(k, v)
		}
	}
	if len(msg.Key) > 0 {
		m.Header.Set("Group-Key", string(msg.Key))
	}
	if id := msg.Headers["event_id"]; id != "" {
		m.Header.Set(nats.MsgIdHdr, id)
	}
	return mq.PublishResult{}, p.conn.PublishMsg(m)
}

func (p *natsPublisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
