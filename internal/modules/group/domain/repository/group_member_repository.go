package repository

import (
	"context"
	"time"

	"GroupLink/internal/modules/group/domain/entity"
)

type GroupMemberRepository interface {
	CreateGroupMembers(ctx context.Context, members []*entity.GroupMember) error
	// GetGroupMember 不区分状态
	GetGroupMember(ctx context.Context, groupID, userID int64) (*entity.GroupMember, error)
	ListMembersByUserIDs(ctx context.Context, groupID int64, userIDs []int64) ([]entity.GroupMember, error)
	ListActiveMemberIDs(ctx context.Context, groupID int64) ([]int64, error)
	// ListActiveMembersWithUser 群主排在最前
	ListActiveMembersWithUser(ctx context.Context, groupID int64) ([]entity.GroupMemberWithUser, error)
	CountActiveMembers(ctx context.Context, groupID int64) (int64, error)
	ReactivateMembers(ctx context.Context, groupID int64, userIDs []int64, at time.Time) (int64, error)
	// RemoveMembers 只作用于 status=0 且非群主的成员
	RemoveMembers(ctx context.Context, groupID int64, userIDs []int64, at time.Time) (int64, error)
	RemoveAllMembers(ctx context.Context, groupID int64, at time.Time) (int64, error)
	UpdateVisitCard(ctx context.Context, groupID, userID int64, card string, at time.Time) (int64, error)
}
