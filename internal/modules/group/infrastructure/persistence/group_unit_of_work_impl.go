package persistence

import (
	"context"

	"GroupLink/internal/modules/group/domain/repository"

	"gorm.io/gorm"
)

type groupUnitOfWorkImpl struct {
	db *gorm.DB
}

func NewGroupUnitOfWork(db *gorm.DB) repository.GroupUnitOfWork {
	return &groupUnitOfWorkImpl{db: db}
}

func (u *groupUnitOfWorkImpl) Transaction(ctx context.Context, fn func(groupRepo repository.GroupInfoRepository, memberRepo repository.GroupMemberRepository, noticeRepo repository.GroupNoticeRepository, recordRepo repository.GroupRecordRepository, outboxRepo repository.GroupEventOutboxRepository) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(
			NewGroupInfoRepository(tx),
			NewGroupMemberRepository(tx),
			NewGroupNoticeRepository(tx),
			NewGroupRecordRepository(tx),
			NewGroupEventOutboxRepository(tx),
		)
	})
}
