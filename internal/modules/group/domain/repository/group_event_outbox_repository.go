package repository

import (
	"context"
	"time"

	"GroupLink/internal/modules/group/domain/entity"
)

type GroupEventOutboxRepository interface {
	Create(ctx context.Context, ev *entity.GroupEventOutbox) error
	// ClaimForPublish 取出到期的待投递事件并置为投递中，lease 到期未确认的会被再次领取
	ClaimForPublish(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]entity.GroupEventOutbox, error)
	MarkPublished(ctx context.Context, id int64, publishedAt time.Time) error
	MarkPublishFailed(ctx context.Context, id int64, nextRetryAt time.Time, errMsg string) error
}
