package entity

import (
	"database/sql"
	"time"
)

// 出箱投递状态
const (
	OutboxPending    int8 = 0
	OutboxPublishing int8 = 1
	OutboxPublished  int8 = 2
	OutboxFailed     int8 = 3
)

// GroupEventOutbox 与业务变更同事务写入，由投递协程读出后发往消息通道
type GroupEventOutbox struct {
	Id            int64        `gorm:"column:id;primaryKey;autoIncrement:false"`
	EventId       string       `gorm:"column:event_id;type:char(36);not null;uniqueIndex:uniq_group_outbox_event"`
	Event         string       `gorm:"column:event;type:varchar(40);not null"`
	GroupId       int64        `gorm:"column:group_id;not null;index"`
	PayloadJson   []byte       `gorm:"column:payload_json;type:json"`
	PublishStatus int8         `gorm:"column:publish_status;type:tinyint;not null;default:0;index:idx_group_outbox_status"`
	RetryCount    int          `gorm:"column:retry_count;type:int;not null;default:0"`
	NextRetryAt   sql.NullTime `gorm:"column:next_retry_at;index:idx_group_outbox_next_retry"`
	LastError     string       `gorm:"column:last_error;type:varchar(255)"`
	PublishedAt   sql.NullTime `gorm:"column:published_at"`
	CreatedAt     time.Time    `gorm:"column:created_at;not null"`
	UpdatedAt     time.Time    `gorm:"column:updated_at;not null"`
}

func (GroupEventOutbox) TableName() string {
	return "group_event_outbox"
}
