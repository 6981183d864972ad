package persistence

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"GroupLink/internal/modules/group/domain/entity"
	"GroupLink/internal/modules/group/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type groupEventOutboxRepositoryImpl struct {
	db *gorm.DB
}

func NewGroupEventOutboxRepository(db *gorm.DB) repository.GroupEventOutboxRepository {
	return &groupEventOutboxRepositoryImpl{db: db}
}

func (r *groupEventOutboxRepositoryImpl) Create(ctx context.Context, ev *entity.GroupEventOutbox) error {
	if ev == nil {
		return nil
	}
	return errors.Wrap(r.db.WithContext(ctx).Create(ev).Error, "CreateGroupEventOutbox")
}

func (r *groupEventOutboxRepositoryImpl) ClaimForPublish(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]entity.GroupEventOutbox, error) {
	if limit <= 0 {
		limit = 100
	}

	var out []entity.GroupEventOutbox
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var events []entity.GroupEventOutbox
		q := tx.Model(&entity.GroupEventOutbox{}).
			Where("publish_status <> ?", entity.OutboxPublished).
			Where("(next_retry_at IS NULL OR next_retry_at <= ?)", now).
			Order("id ASC").
			Limit(limit).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		if err := q.Find(&events).Error; err != nil {
			return err
		}
		if len(events) == 0 {
			out = []entity.GroupEventOutbox{}
			return nil
		}

		ids := make([]int64, 0, len(events))
		for i := range events {
			ids = append(ids, events[i].Id)
		}
		// 投递中的行带租约，进程崩溃后到期会被重新领取
		if err := tx.Model(&entity.GroupEventOutbox{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"publish_status": entity.OutboxPublishing,
				"next_retry_at":  now.Add(lease),
				"updated_at":     now,
			}).Error; err != nil {
			return err
		}

		out = events
		return nil
	})
	return out, errors.Wrap(err, "ClaimForPublish")
}

func (r *groupEventOutboxRepositoryImpl) MarkPublished(ctx context.Context, id int64, publishedAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&entity.GroupEventOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"publish_status": entity.OutboxPublished,
			"published_at":   sql.NullTime{Time: publishedAt, Valid: true},
			"last_error":     "",
			"updated_at":     publishedAt,
		}).Error
	return errors.Wrap(err, "MarkPublished")
}

func (r *groupEventOutboxRepositoryImpl) MarkPublishFailed(ctx context.Context, id int64, nextRetryAt time.Time, errMsg string) error {
	errMsg = strings.TrimSpace(errMsg)
	if len(errMsg) > 255 {
		errMsg = errMsg[:255]
	}
	err := r.db.WithContext(ctx).Model(&entity.GroupEventOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"publish_status": entity.OutboxFailed,
			"retry_count":    gorm.Expr("retry_count + 1"),
			"next_retry_at":  nextRetryAt,
			"last_error":     errMsg,
			"updated_at":     time.Now(),
		}).Error
	return errors.Wrap(err, "MarkPublishFailed")
}
