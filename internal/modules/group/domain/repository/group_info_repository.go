package repository

import (
	"context"
	"time"

	"GroupLink/internal/modules/group/domain/entity"
)

// GroupInfoRepository 查不到记录时返回 gorm.ErrRecordNotFound
type GroupInfoRepository interface {
	CreateGroupInfo(ctx context.Context, group *entity.GroupInfo) error
	GetGroupInfoByID(ctx context.Context, id int64) (*entity.GroupInfo, error)
	// UpdateGroupProfile 仅更新正常状态的群，返回受影响行数
	UpdateGroupProfile(ctx context.Context, id int64, name, profile, avatar string, at time.Time) (int64, error)
	// MarkDismissed 条件更新 status 0 -> 1，并发解散只有一个调用返回 1
	MarkDismissed(ctx context.Context, id int64, at time.Time) (int64, error)
}
