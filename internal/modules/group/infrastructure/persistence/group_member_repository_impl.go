package persistence

import (
	"context"
	"time"

	"GroupLink/internal/modules/group/domain/entity"
	"GroupLink/internal/modules/group/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type groupMemberRepositoryImpl struct {
	db *gorm.DB
}

func NewGroupMemberRepository(db *gorm.DB) repository.GroupMemberRepository {
	return &groupMemberRepositoryImpl{db: db}
}

func (r *groupMemberRepositoryImpl) CreateGroupMembers(ctx context.Context, members []*entity.GroupMember) error {
	if len(members) == 0 {
		return nil
	}
	return errors.Wrap(r.db.WithContext(ctx).Create(&members).Error, "CreateGroupMembers")
}

func (r *groupMemberRepositoryImpl) GetGroupMember(ctx context.Context, groupID, userID int64) (*entity.GroupMember, error) {
	var m entity.GroupMember
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&m).Error
	if err != nil {
		return nil, errors.Wrap(err, "GetGroupMember")
	}
	return &m, nil
}

func (r *groupMemberRepositoryImpl) ListMembersByUserIDs(ctx context.Context, groupID int64, userIDs []int64) ([]entity.GroupMember, error) {
	if len(userIDs) == 0 {
		return []entity.GroupMember{}, nil
	}
	var members []entity.GroupMember
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id IN ?", groupID, userIDs).
		Find(&members).Error
	if err != nil {
		return nil, errors.Wrap(err, "ListMembersByUserIDs")
	}
	return members, nil
}

func (r *groupMemberRepositoryImpl) ListActiveMemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&entity.GroupMember{}).
		Where("group_id = ? AND status = ?", groupID, entity.MemberActive).
		Order("id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "ListActiveMemberIDs")
	}
	return ids, nil
}

func (r *groupMemberRepositoryImpl) ListActiveMembersWithUser(ctx context.Context, groupID int64) ([]entity.GroupMemberWithUser, error) {
	var members []entity.GroupMemberWithUser
	err := r.db.WithContext(ctx).Table("group_member").
		Select("group_member.*, user_info.nickname, user_info.avatar, user_info.gender, user_info.motto").
		Joins("LEFT JOIN user_info ON user_info.id = group_member.user_id").
		Where("group_member.group_id = ? AND group_member.status = ?", groupID, entity.MemberActive).
		Order("group_member.is_owner DESC, group_member.id ASC").
		Find(&members).Error
	if err != nil {
		return nil, errors.Wrap(err, "ListActiveMembersWithUser")
	}
	return members, nil
}

func (r *groupMemberRepositoryImpl) CountActiveMembers(ctx context.Context, groupID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.GroupMember{}).
		Where("group_id = ? AND status = ?", groupID, entity.MemberActive).
		Count(&n).Error
	return n, errors.Wrap(err, "CountActiveMembers")
}

func (r *groupMemberRepositoryImpl) ReactivateMembers(ctx context.Context, groupID int64, userIDs []int64, at time.Time) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&entity.GroupMember{}).
		Where("group_id = ? AND user_id IN ? AND status = ?", groupID, userIDs, entity.MemberRemoved).
		Updates(map[string]interface{}{
			"status":     entity.MemberActive,
			"visit_card": "",
			"updated_at": at,
		})
	return res.RowsAffected, errors.Wrap(res.Error, "ReactivateMembers")
}

func (r *groupMemberRepositoryImpl) RemoveMembers(ctx context.Context, groupID int64, userIDs []int64, at time.Time) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&entity.GroupMember{}).
		Where("group_id = ? AND user_id IN ? AND status = ? AND is_owner = ?", groupID, userIDs, entity.MemberActive, false).
		Updates(map[string]interface{}{
			"status":     entity.MemberRemoved,
			"updated_at": at,
		})
	return res.RowsAffected, errors.Wrap(res.Error, "RemoveMembers")
}

func (r *groupMemberRepositoryImpl) RemoveAllMembers(ctx context.Context, groupID int64, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.GroupMember{}).
		Where("group_id = ? AND status = ?", groupID, entity.MemberActive).
		Updates(map[string]interface{}{
			"status":     entity.MemberRemoved,
			"updated_at": at,
		})
	return res.RowsAffected, errors.Wrap(res.Error, "RemoveAllMembers")
}

func (r *groupMemberRepositoryImpl) UpdateVisitCard(ctx context.Context, groupID, userID int64, card string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.GroupMember{}).
		Where("group_id = ? AND user_id = ? AND status = ?", groupID, userID, entity.MemberActive).
		Updates(map[string]interface{}{
			"visit_card": card,
			"updated_at": at,
		})
	return res.RowsAffected, errors.Wrap(res.Error, "UpdateVisitCard")
}
