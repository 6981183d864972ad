package event

import (
	"time"

	"GroupLink/pkg/util"
)

const (
	GroupCreated         = "group.created"
	GroupDismissed       = "group.dismissed"
	GroupMembersInvited  = "group.members_invited"
	GroupMemberQuit      = "group.member_quit"
	GroupMembersRemoved  = "group.members_removed"
	GroupProfileUpdated  = "group.profile_updated"
	GroupNoticePublished = "group.notice_published"
	GroupNoticeDeleted   = "group.notice_deleted"
)

// Payload 事件附带的业务数据
type Payload struct {
	OperatorId int64   `json:"operator_id"`
	UserIds    []int64 `json:"user_ids,omitempty"`
	RecordId   int64   `json:"record_id,omitempty"`
	NoticeId   int64   `json:"notice_id,omitempty"`
}

// GroupEvent 投递到消息通道的完整事件
type GroupEvent struct {
	EventId    string    `json:"event_id"`
	Event      string    `json:"event"`
	GroupId    int64     `json:"group_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload
}

// New 生成带唯一 event_id 的事件，event_id 同时用作下游去重键
func New(name string, groupID int64, payload Payload) GroupEvent {
	return GroupEvent{
		EventId:    util.GenerateUUID(),
		Event:      name,
		GroupId:    groupID,
		OccurredAt: time.Now(),
		Payload:    payload,
	}
}

// Notifier 事务提交后唤醒投递协程；不唤醒时事件也会在下一次轮询被投递
type Notifier interface {
	Notify()
}

type nopNotifier struct{}

func NopNotifier() Notifier {
	return nopNotifier{}
}

func (nopNotifier) Notify() {}
