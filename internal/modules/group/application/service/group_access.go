package service

import (
	"context"
	"errors"

	"GroupLink/internal/modules/group/domain/entity"
	"GroupLink/internal/modules/group/domain/repository"
	"GroupLink/pkg/xerr"

	"gorm.io/gorm"
)

type role int

const (
	// roleAny 群存在且未解散即可
	roleAny role = iota
	roleMember
	roleOwner
)

func loadGroup(ctx context.Context, groupRepo repository.GroupInfoRepository, groupID int64) (*entity.GroupInfo, error) {
	group, err := groupRepo.GetGroupInfoByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.ErrGroupNotExists
		}
		return nil, err
	}
	return group, nil
}

// authorize 所有需要权限的操作共用的校验入口。
// 成员级校验失败（含群不存在、已解散）统一返回 ErrNotGroupMember。
func authorize(ctx context.Context, groupRepo repository.GroupInfoRepository, memberRepo repository.GroupMemberRepository, groupID, userID int64, need role) (*entity.GroupInfo, error) {
	group, err := loadGroup(ctx, groupRepo, groupID)
	if err != nil {
		if need == roleMember && errors.Is(err, xerr.ErrGroupNotExists) {
			return nil, xerr.ErrNotGroupMember
		}
		return nil, err
	}

	if !group.IsActive() {
		if need == roleMember {
			return nil, xerr.ErrNotGroupMember
		}
		return nil, xerr.ErrGroupDismissed
	}

	switch need {
	case roleOwner:
		if group.OwnerId != userID {
			return nil, xerr.ErrGroupOwnerOnly
		}
	case roleMember:
		member, err := memberRepo.GetGroupMember(ctx, groupID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, xerr.ErrNotGroupMember
			}
			return nil, err
		}
		if !member.IsActive() {
			return nil, xerr.ErrNotGroupMember
		}
	}
	return group, nil
}
