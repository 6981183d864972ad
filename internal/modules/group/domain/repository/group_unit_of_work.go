package repository

import "context"

// GroupUnitOfWork fn 返回错误时整体回滚；outboxRepo 写入的事件与业务数据一起提交
type GroupUnitOfWork interface {
	Transaction(ctx context.Context, fn func(groupRepo GroupInfoRepository, memberRepo GroupMemberRepository, noticeRepo GroupNoticeRepository, recordRepo GroupRecordRepository, outboxRepo GroupEventOutboxRepository) error) error
}
