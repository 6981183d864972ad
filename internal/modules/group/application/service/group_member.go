package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	groupRequest "GroupLink/internal/modules/group/application/dto/request"
	groupRespond "GroupLink/internal/modules/group/application/dto/respond"
	groupEntity "GroupLink/internal/modules/group/domain/entity"
	"GroupLink/internal/modules/group/domain/event"
	groupRepository "GroupLink/internal/modules/group/domain/repository"
	userEntity "GroupLink/internal/modules/user/domain/entity"
	"GroupLink/pkg/util"
	"GroupLink/pkg/xerr"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// InviteMembers 重复 ID 与已在群内的 ID 直接忽略；没有新成员加入时 record_id 为 0
func (s *groupServiceImpl) InviteMembers(ctx context.Context, req groupRequest.InviteGroupMembersRequest) (*groupRespond.RecordRespond, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	ids := lo.Uniq(req.MemberIds)
	if err := s.checkUsers(ctx, ids); err != nil {
		return nil, err
	}

	var record *groupEntity.GroupRecord
	now := time.Now()
	err := s.uow.Transaction(ctx, func(groupRepo groupRepository.GroupInfoRepository, memberRepo groupRepository.GroupMemberRepository, _ groupRepository.GroupNoticeRepository, recordRepo groupRepository.GroupRecordRepository, outboxRepo groupRepository.GroupEventOutboxRepository) error {
		if _, err := authorize(ctx, groupRepo, memberRepo, req.GroupId, req.UserId, roleOwner); err != nil {
			return err
		}

		existing, err := memberRepo.ListMembersByUserIDs(ctx, req.GroupId, ids)
		if err != nil {
			return err
		}
		states := lo.SliceToMap(existing, func(m groupEntity.GroupMember) (int64, groupEntity.MemberStatus) {
			return m.UserId, m.Status
		})

		var fresh, revive []int64
		for _, uid := range ids {
			st, ok := states[uid]
			switch {
			case !ok:
				fresh = append(fresh, uid)
			case st.CanTransitionTo(groupEntity.MemberActive):
				revive = append(revive, uid)
			}
		}
		if len(fresh) == 0 && len(revive) == 0 {
			return nil
		}

		rows := lo.Map(fresh, func(uid int64, _ int) *groupEntity.GroupMember {
			return &groupEntity.GroupMember{
				Id:        util.GenerateID(),
				GroupId:   req.GroupId,
				UserId:    uid,
				Status:    groupEntity.MemberActive,
				CreatedAt: now,
				UpdatedAt: now,
			}
		})
		if err := memberRepo.CreateGroupMembers(ctx, rows); err != nil {
			return err
		}
		if _, err := memberRepo.ReactivateMembers(ctx, req.GroupId, revive, now); err != nil {
			return err
		}

		joined := append(fresh, revive...)
		record, err = newRecord(req.GroupId, req.UserId, groupEntity.RecordInvite, joined)
		if err != nil {
			return err
		}
		if err := recordRepo.CreateGroupRecord(ctx, record); err != nil {
			return err
		}
		return appendEvent(ctx, outboxRepo, event.GroupMembersInvited, req.GroupId, event.Payload{
			OperatorId: req.UserId,
			UserIds:    joined,
			RecordId:   record.Id,
		})
	})
	if err != nil {
		return nil, s.gatewayErr("InviteMembers", err)
	}
	if record == nil {
		return &groupRespond.RecordRespond{}, nil
	}

	s.notifier.Notify()
	return &groupRespond.RecordRespond{RecordId: record.Id}, nil
}

// QuitGroup 群主只能解散群，不能退群
func (s *groupServiceImpl) QuitGroup(ctx context.Context, req groupRequest.GroupIdRequest) (*groupRespond.RecordRespond, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var record *groupEntity.GroupRecord
	now := time.Now()
	err := s.uow.Transaction(ctx, func(groupRepo groupRepository.GroupInfoRepository, memberRepo groupRepository.GroupMemberRepository, _ groupRepository.GroupNoticeRepository, recordRepo groupRepository.GroupRecordRepository, outboxRepo groupRepository.GroupEventOutboxRepository) error {
		group, err := loadGroup(ctx, groupRepo, req.GroupId)
		if err != nil {
			return err
		}
		if group.OwnerId == req.UserId {
			return xerr.ErrOwnerCannotQuit
		}
		if !group.IsActive() {
			return xerr.ErrGroupDismissed
		}

		member, err := memberRepo.GetGroupMember(ctx, req.GroupId, req.UserId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return xerr.ErrNotGroupMember
			}
			return err
		}
		if !member.Status.CanTransitionTo(groupEntity.MemberRemoved) {
			return xerr.ErrNotGroupMember
		}

		n, err := memberRepo.RemoveMembers(ctx, req.GroupId, []int64{req.UserId}, now)
		if err != nil {
			return err
		}
		if n == 0 {
			// 并发退群或被移除
			return xerr.ErrNotGroupMember
		}

		record, err = newRecord(req.GroupId, req.UserId, groupEntity.RecordQuit, []int64{req.UserId})
		if err != nil {
			return err
		}
		if err := recordRepo.CreateGroupRecord(ctx, record); err != nil {
			return err
		}
		return appendEvent(ctx, outboxRepo, event.GroupMemberQuit, req.GroupId, event.Payload{
			OperatorId: req.UserId,
			UserIds:    []int64{req.UserId},
			RecordId:   record.Id,
		})
	})
	if err != nil {
		return nil, s.gatewayErr("QuitGroup", err)
	}

	s.notifier.Notify()
	return &groupRespond.RecordRespond{RecordId: record.Id}, nil
}

// RemoveMembers 已移除的成员视为成功；列表中包含群主时拒绝
func (s *groupServiceImpl) RemoveMembers(ctx context.Context, req groupRequest.RemoveGroupMembersRequest) (*groupRespond.RecordRespond, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	ids := lo.Uniq(req.MemberIds)
	var record *groupEntity.GroupRecord
	now := time.Now()
	err := s.uow.Transaction(ctx, func(groupRepo groupRepository.GroupInfoRepository, memberRepo groupRepository.GroupMemberRepository, _ groupRepository.GroupNoticeRepository, recordRepo groupRepository.GroupRecordRepository, outboxRepo groupRepository.GroupEventOutboxRepository) error {
		group, err := authorize(ctx, groupRepo, memberRepo, req.GroupId, req.UserId, roleOwner)
		if err != nil {
			return err
		}
		if lo.Contains(ids, group.OwnerId) {
			return xerr.ErrOwnerCannotLeave
		}

		existing, err := memberRepo.ListMembersByUserIDs(ctx, req.GroupId, ids)
		if err != nil {
			return err
		}
		removed := lo.FilterMap(existing, func(m groupEntity.GroupMember, _ int) (int64, bool) {
			return m.UserId, m.Status.CanTransitionTo(groupEntity.MemberRemoved)
		})
		if len(removed) == 0 {
			return nil
		}

		if _, err := memberRepo.RemoveMembers(ctx, req.GroupId, removed, now); err != nil {
			return err
		}

		record, err = newRecord(req.GroupId, req.UserId, groupEntity.RecordKick, removed)
		if err != nil {
			return err
		}
		if err := recordRepo.CreateGroupRecord(ctx, record); err != nil {
			return err
		}
		return appendEvent(ctx, outboxRepo, event.GroupMembersRemoved, req.GroupId, event.Payload{
			OperatorId: req.UserId,
			UserIds:    removed,
			RecordId:   record.Id,
		})
	})
	if err != nil {
		return nil, s.gatewayErr("RemoveMembers", err)
	}
	if record == nil {
		return &groupRespond.RecordRespond{}, nil
	}

	s.notifier.Notify()
	return &groupRespond.RecordRespond{RecordId: record.Id}, nil
}

func (s *groupServiceImpl) SetVisitCard(ctx context.Context, req groupRequest.SetVisitCardRequest) error {
	req.VisitCard = strings.TrimSpace(req.VisitCard)
	if err := validateRequest(req); err != nil {
		return err
	}

	if _, err := authorize(ctx, s.groupRepo, s.memberRepo, req.GroupId, req.UserId, roleMember); err != nil {
		return s.gatewayErr("SetVisitCard", err)
	}

	if _, err := s.memberRepo.UpdateVisitCard(ctx, req.GroupId, req.UserId, req.VisitCard, time.Now()); err != nil {
		return s.gatewayErr("SetVisitCard", err)
	}
	return nil
}

func (s *groupServiceImpl) ListMembers(ctx context.Context, req groupRequest.GroupIdRequest) ([]groupRespond.GroupMemberRespond, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if _, err := authorize(ctx, s.groupRepo, s.memberRepo, req.GroupId, req.UserId, roleMember); err != nil {
		return nil, s.gatewayErr("ListMembers", err)
	}

	rows, err := s.memberRepo.ListActiveMembersWithUser(ctx, req.GroupId)
	if err != nil {
		return nil, s.gatewayErr("ListMembers", err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].IsOwner && !rows[j].IsOwner
	})

	return lo.Map(rows, func(m groupEntity.GroupMemberWithUser, _ int) groupRespond.GroupMemberRespond {
		return groupRespond.GroupMemberRespond{
			Id:        m.Id,
			UserId:    m.UserId,
			IsManager: m.IsOwner,
			VisitCard: m.VisitCard,
			Nickname:  m.Nickname,
			Avatar:    m.Avatar,
			Gender:    m.Gender,
			Motto:     m.Motto,
		}
	}), nil
}

// ListInvitableFriends 好友列表去掉已在群内的成员；group_id 为 0 时返回全部好友，否则调用方必须是群成员
func (s *groupServiceImpl) ListInvitableFriends(ctx context.Context, req groupRequest.InvitableFriendsRequest) ([]groupRespond.FriendRespond, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.GroupId > 0 {
		if _, err := authorize(ctx, s.groupRepo, s.memberRepo, req.GroupId, req.UserId, roleMember); err != nil {
			return nil, s.gatewayErr("ListInvitableFriends", err)
		}
	}

	friends, err := s.friendRepo.ListFriendsWithUser(ctx, req.UserId)
	if err != nil {
		return nil, s.gatewayErr("ListInvitableFriends", err)
	}

	if req.GroupId > 0 && len(friends) > 0 {
		memberIDs, err := s.memberRepo.ListActiveMemberIDs(ctx, req.GroupId)
		if err != nil {
			return nil, s.gatewayErr("ListInvitableFriends", err)
		}
		joined := lo.Keyify(memberIDs)
		friends = lo.Reject(friends, func(f userEntity.FriendWithUser, _ int) bool {
			_, ok := joined[f.Id]
			return ok
		})
	}

	return lo.Map(friends, func(f userEntity.FriendWithUser, _ int) groupRespond.FriendRespond {
		return groupRespond.FriendRespond{
			Id:           f.Id,
			Nickname:     f.Nickname,
			Avatar:       f.Avatar,
			Gender:       f.Gender,
			Motto:        f.Motto,
			FriendRemark: f.Remark,
		}
	}), nil
}
