package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	groupEntity "GroupLink/internal/modules/group/domain/entity"
	"GroupLink/internal/modules/group/domain/event"
	groupRepository "GroupLink/internal/modules/group/domain/repository"
	"GroupLink/internal/modules/group/infrastructure/mq"
	"GroupLink/pkg/zlog"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Pusher 在线推送，*ws.Hub 实现了该接口
type Pusher interface {
	SendJSON(userID int64, v interface{}) error
}

// MemberLister 推送时查询群内在线成员
type MemberLister interface {
	ListActiveMemberIDs(ctx context.Context, groupID int64) ([]int64, error)
}

type Config struct {
	Topic        string
	BatchSize    int
	PollInterval time.Duration
	// Lease 领取后超过该时长仍未确认，事件会被重新领取
	Lease time.Duration
	// RetryBackoff 首次重试间隔，之后逐次翻倍直到 MaxBackoff
	RetryBackoff time.Duration
	MaxBackoff   time.Duration
}

// PushMessage websocket 下发格式
type PushMessage struct {
	Type string           `json:"type"`
	Data event.GroupEvent `json:"data"`
}

// Relay 从出箱表领取事件投递到消息通道，成功后再推送给在线成员。
// 投递失败的事件留在表中按退避重试，下游依据 event_id 去重。
type Relay struct {
	repo    groupRepository.GroupEventOutboxRepository
	pub     mq.Publisher
	pusher  Pusher
	members MemberLister

	topic        string
	batchSize    int
	pollInterval time.Duration
	lease        time.Duration
	retryBackoff time.Duration
	maxBackoff   time.Duration

	wake chan struct{}
	now  func() time.Time
}

// NewRelay pub 与 pusher 都允许为 nil，对应通道直接跳过
func NewRelay(cfg Config, repo groupRepository.GroupEventOutboxRepository, pub mq.Publisher, pusher Pusher, members MemberLister) *Relay {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.Lease <= 0 {
		cfg.Lease = 30 * time.Second
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.MaxBackoff < cfg.RetryBackoff {
		cfg.MaxBackoff = 5 * time.Minute
	}
	return &Relay{
		repo:         repo,
		pub:          pub,
		pusher:       pusher,
		members:      members,
		topic:        strings.TrimSpace(cfg.Topic),
		batchSize:    cfg.BatchSize,
		pollInterval: cfg.PollInterval,
		lease:        cfg.Lease,
		retryBackoff: cfg.RetryBackoff,
		maxBackoff:   cfg.MaxBackoff,
		wake:         make(chan struct{}, 1),
		now:          time.Now,
	}
}

// Notify 非阻塞，已有待处理的唤醒时直接合并
func (r *Relay) Notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run 阻塞直到 ctx 结束；未投递的事件保留在出箱表，下次启动继续
func (r *Relay) Run(ctx context.Context) error {
	if r.repo == nil {
		return errors.New("group outbox repo is nil")
	}

	backoff := r.pollInterval
	for {
		wait := r.pollInterval
		n, err := r.RunOnce(ctx)
		switch {
		case err != nil:
			wait = backoff
			backoff *= 2
			if backoff > 30*time.Second {
				backoff = 30 * time.Second
			}
		case n >= r.batchSize:
			// 还有积压，不等待
			backoff = r.pollInterval
			wait = 0
		default:
			backoff = r.pollInterval
		}

		if wait == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				continue
			}
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-r.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// RunOnce 处理一批到期事件，返回领取到的数量
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	now := r.now()
	events, err := r.repo.ClaimForPublish(ctx, now, r.lease, r.batchSize)
	if err != nil {
		zlog.Warn("group outbox claim failed", zap.Error(err))
		return 0, err
	}
	for i := range events {
		r.deliver(ctx, events[i], now)
	}
	return len(events), nil
}

func (r *Relay) deliver(ctx context.Context, row groupEntity.GroupEventOutbox, now time.Time) {
	var ev event.GroupEvent
	if err := json.Unmarshal(row.PayloadJson, &ev); err != nil {
		r.fail(ctx, row, now.Add(r.maxBackoff), err)
		return
	}

	if r.pub != nil && r.topic != "" {
		if _, err := r.pub.Publish(ctx, r.message(row)); err != nil {
			r.fail(ctx, row, r.nextRetry(now, row.RetryCount), err)
			return
		}
	}

	if err := r.repo.MarkPublished(ctx, row.Id, r.now()); err != nil {
		// 租约到期后会重新投递
		zlog.Warn("group outbox mark published failed", zap.Int64("id", row.Id), zap.Error(err))
		return
	}
	if r.pusher != nil {
		r.push(ctx, ev)
	}
}

func (r *Relay) message(row groupEntity.GroupEventOutbox) mq.Message {
	return mq.Message{
		Topic: r.topic,
		Key:   []byte(strconv.FormatInt(row.GroupId, 10)),
		Value: row.PayloadJson,
		Headers: map[string]string{
			"event":    row.Event,
			"event_id": row.EventId,
		},
	}
}

func (r *Relay) fail(ctx context.Context, row groupEntity.GroupEventOutbox, next time.Time, cause error) {
	zlog.Warn("group event publish failed",
		zap.String("event_id", row.EventId),
		zap.String("event", row.Event),
		zap.Int("retry_count", row.RetryCount),
		zap.Time("next_retry_at", next),
		zap.Error(cause))
	if err := r.repo.MarkPublishFailed(ctx, row.Id, next, cause.Error()); err != nil {
		zlog.Warn("group outbox mark failed failed", zap.Int64("id", row.Id), zap.Error(err))
	}
}

func (r *Relay) nextRetry(now time.Time, retryCount int) time.Time {
	d := r.retryBackoff
	for i := 0; i < retryCount && d < r.maxBackoff; i++ {
		d *= 2
	}
	if d > r.maxBackoff {
		d = r.maxBackoff
	}
	return now.Add(d)
}

// push 接收方是当前成员加上本次被移出/退出的用户
func (r *Relay) push(ctx context.Context, ev event.GroupEvent) {
	recipients := ev.UserIds
	if r.members != nil {
		ids, err := r.members.ListActiveMemberIDs(ctx, ev.GroupId)
		if err != nil {
			zlog.Warn("group event push lookup failed", zap.Int64("group_id", ev.GroupId), zap.Error(err))
		}
		recipients = append(ids, ev.UserIds...)
	}

	msg := PushMessage{Type: "group_event", Data: ev}
	for _, uid := range lo.Uniq(recipients) {
		if err := r.pusher.SendJSON(uid, msg); err != nil {
			zlog.Warn("group event push failed", zap.Int64("user_id", uid), zap.Error(err))
		}
	}
}
