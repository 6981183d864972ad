package repository

import (
	"context"
	"time"

	"GroupLink/internal/modules/group/domain/entity"
)

type GroupNoticeRepository interface {
	CreateGroupNotice(ctx context.Context, notice *entity.GroupNotice) error
	GetGroupNotice(ctx context.Context, groupID, noticeID int64) (*entity.GroupNotice, error)
	UpdateGroupNotice(ctx context.Context, groupID, noticeID int64, title, content string, at time.Time) (int64, error)
	SoftDeleteGroupNotice(ctx context.Context, groupID, noticeID int64, at time.Time) (int64, error)
	// GetLatestNotice 最新一条未删除公告（按 id 倒序）
	GetLatestNotice(ctx context.Context, groupID int64) (*entity.GroupNotice, error)
	ListNoticesWithAuthor(ctx context.Context, groupID int64) ([]entity.GroupNoticeWithAuthor, error)
}
