package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	chatRepository "GroupLink/internal/modules/chat/domain/repository"
	groupRequest "GroupLink/internal/modules/group/application/dto/request"
	groupRespond "GroupLink/internal/modules/group/application/dto/respond"
	groupEntity "GroupLink/internal/modules/group/domain/entity"
	"GroupLink/internal/modules/group/domain/event"
	groupRepository "GroupLink/internal/modules/group/domain/repository"
	userEntity "GroupLink/internal/modules/user/domain/entity"
	userRepository "GroupLink/internal/modules/user/domain/repository"
	"GroupLink/pkg/util"
	"GroupLink/pkg/xerr"
	"GroupLink/pkg/zlog"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultGroupAvatar = "https://cube.elemecdn.com/0/88/03b0d39583f48206768a7534e55bcpng.png"

// GroupService 群组生命周期、成员与公告的全部状态变更入口
type GroupService interface {
	CreateGroup(ctx context.Context, req groupRequest.CreateGroupRequest) (*groupRespond.CreateGroupRespond, error)
	DismissGroup(ctx context.Context, req groupRequest.GroupIdRequest) error
	InviteMembers(ctx context.Context, req groupRequest.InviteGroupMembersRequest) (*groupRespond.RecordRespond, error)
	QuitGroup(ctx context.Context, req groupRequest.GroupIdRequest) (*groupRespond.RecordRespond, error)
	RemoveMembers(ctx context.Context, req groupRequest.RemoveGroupMembersRequest) (*groupRespond.RecordRespond, error)
	EditGroupDetail(ctx context.Context, req groupRequest.EditGroupRequest) error
	SetVisitCard(ctx context.Context, req groupRequest.SetVisitCardRequest) error
	GetGroupDetail(ctx context.Context, req groupRequest.GroupIdRequest) (*groupRespond.GroupDetailRespond, error)
	ListMembers(ctx context.Context, req groupRequest.GroupIdRequest) ([]groupRespond.GroupMemberRespond, error)
	ListInvitableFriends(ctx context.Context, req groupRequest.InvitableFriendsRequest) ([]groupRespond.FriendRespond, error)
	ListNotices(ctx context.Context, req groupRequest.GroupIdRequest) ([]groupRespond.GroupNoticeRespond, error)
	CreateOrUpdateNotice(ctx context.Context, req groupRequest.EditNoticeRequest) (*groupRespond.EditNoticeRespond, error)
	DeleteNotice(ctx context.Context, req groupRequest.DeleteNoticeRequest) error
}

type groupServiceImpl struct {
	groupRepo   groupRepository.GroupInfoRepository
	memberRepo  groupRepository.GroupMemberRepository
	noticeRepo  groupRepository.GroupNoticeRepository
	uow         groupRepository.GroupUnitOfWork
	userRepo    userRepository.UserInfoRepository
	friendRepo  userRepository.UserFriendRepository
	sessionRepo chatRepository.SessionRepository
	notifier    event.Notifier
}

func NewGroupService(
	groupRepo groupRepository.GroupInfoRepository,
	memberRepo groupRepository.GroupMemberRepository,
	noticeRepo groupRepository.GroupNoticeRepository,
	uow groupRepository.GroupUnitOfWork,
	userRepo userRepository.UserInfoRepository,
	friendRepo userRepository.UserFriendRepository,
	sessionRepo chatRepository.SessionRepository,
	notifier event.Notifier,
) GroupService {
	if notifier == nil {
		notifier = event.NopNotifier()
	}
	return &groupServiceImpl{
		groupRepo:   groupRepo,
		memberRepo:  memberRepo,
		noticeRepo:  noticeRepo,
		uow:         uow,
		userRepo:    userRepo,
		friendRepo:  friendRepo,
		sessionRepo: sessionRepo,
		notifier:    notifier,
	}
}

func (s *groupServiceImpl) CreateGroup(ctx context.Context, req groupRequest.CreateGroupRequest) (*groupRespond.CreateGroupRespond, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Profile = strings.TrimSpace(req.Profile)
	req.Avatar = strings.TrimSpace(req.Avatar)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	memberIDs := lo.Uniq(append([]int64{req.UserId}, req.MemberIds...))
	if err := s.checkUsers(ctx, memberIDs); err != nil {
		return nil, err
	}

	avatar := req.Avatar
	if avatar == "" {
		avatar = defaultGroupAvatar
	}

	now := time.Now()
	group := &groupEntity.GroupInfo{
		Id:        util.GenerateID(),
		OwnerId:   req.UserId,
		Name:      req.Name,
		Profile:   req.Profile,
		Avatar:    avatar,
		Status:    groupEntity.GroupActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	members := lo.Map(memberIDs, func(uid int64, _ int) *groupEntity.GroupMember {
		return &groupEntity.GroupMember{
			Id:        util.GenerateID(),
			GroupId:   group.Id,
			UserId:    uid,
			IsOwner:   uid == req.UserId,
			Status:    groupEntity.MemberActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
	})

	err := s.uow.Transaction(ctx, func(groupRepo groupRepository.GroupInfoRepository, memberRepo groupRepository.GroupMemberRepository, _ groupRepository.GroupNoticeRepository, _ groupRepository.GroupRecordRepository, outboxRepo groupRepository.GroupEventOutboxRepository) error {
		if err := groupRepo.CreateGroupInfo(ctx, group); err != nil {
			return err
		}
		if err := memberRepo.CreateGroupMembers(ctx, members); err != nil {
			return err
		}
		return appendEvent(ctx, outboxRepo, event.GroupCreated, group.Id, event.Payload{OperatorId: req.UserId, UserIds: memberIDs})
	})
	if err != nil {
		return nil, s.gatewayErr("CreateGroup", err)
	}

	s.notifier.Notify()
	return &groupRespond.CreateGroupRespond{GroupId: group.Id}, nil
}

func (s *groupServiceImpl) DismissGroup(ctx context.Context, req groupRequest.GroupIdRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	now := time.Now()
	err := s.uow.Transaction(ctx, func(groupRepo groupRepository.GroupInfoRepository, memberRepo groupRepository.GroupMemberRepository, _ groupRepository.GroupNoticeRepository, _ groupRepository.GroupRecordRepository, outboxRepo groupRepository.GroupEventOutboxRepository) error {
		group, err := authorize(ctx, groupRepo, memberRepo, req.GroupId, req.UserId, roleOwner)
		if err != nil {
			return err
		}
		if !group.Status.CanTransitionTo(groupEntity.GroupDismissed) {
			return xerr.ErrGroupDismissed
		}

		members, err := memberRepo.ListActiveMemberIDs(ctx, req.GroupId)
		if err != nil {
			return err
		}

		n, err := groupRepo.MarkDismissed(ctx, req.GroupId, now)
		if err != nil {
			return err
		}
		if n == 0 {
			// 并发解散，另一个请求已经完成
			return xerr.ErrGroupDismissed
		}

		if _, err := memberRepo.RemoveAllMembers(ctx, req.GroupId, now); err != nil {
			return err
		}
		// 解散后成员已不在群内，推送对象由事件携带
		return appendEvent(ctx, outboxRepo, event.GroupDismissed, req.GroupId, event.Payload{OperatorId: req.UserId, UserIds: members})
	})
	if err != nil {
		return s.gatewayErr("DismissGroup", err)
	}

	s.notifier.Notify()
	return nil
}

func (s *groupServiceImpl) EditGroupDetail(ctx context.Context, req groupRequest.EditGroupRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Profile = strings.TrimSpace(req.Profile)
	req.Avatar = strings.TrimSpace(req.Avatar)
	if err := validateRequest(req); err != nil {
		return err
	}

	err := s.uow.Transaction(ctx, func(groupRepo groupRepository.GroupInfoRepository, memberRepo groupRepository.GroupMemberRepository, _ groupRepository.GroupNoticeRepository, _ groupRepository.GroupRecordRepository, outboxRepo groupRepository.GroupEventOutboxRepository) error {
		if _, err := authorize(ctx, groupRepo, memberRepo, req.GroupId, req.UserId, roleOwner); err != nil {
			return err
		}
		if _, err := groupRepo.UpdateGroupProfile(ctx, req.GroupId, req.Name, req.Profile, req.Avatar, time.Now()); err != nil {
			return err
		}
		return appendEvent(ctx, outboxRepo, event.GroupProfileUpdated, req.GroupId, event.Payload{OperatorId: req.UserId})
	})
	if err != nil {
		return s.gatewayErr("EditGroupDetail", err)
	}

	s.notifier.Notify()
	return nil
}

// GetGroupDetail 群不存在或已解散时返回 nil, nil
func (s *groupServiceImpl) GetGroupDetail(ctx context.Context, req groupRequest.GroupIdRequest) (*groupRespond.GroupDetailRespond, error) {
	if err := validateRequest(req, "GroupId"); err != nil {
		return nil, err
	}
	if req.GroupId <= 0 {
		return nil, nil
	}

	group, err := s.groupRepo.GetGroupInfoByID(ctx, req.GroupId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, s.gatewayErr("GetGroupDetail", err)
	}
	if !group.IsActive() {
		return nil, nil
	}

	out := &groupRespond.GroupDetailRespond{
		GroupId:      group.Id,
		GroupName:    group.Name,
		GroupProfile: group.Profile,
		Avatar:       group.Avatar,
		CreatedAt:    group.CreatedAt.Format(time.RFC3339),
		IsManager:    group.OwnerId == req.UserId,
	}

	owners, err := s.userRepo.GetUserBriefByIDs(ctx, []int64{group.OwnerId})
	if err != nil {
		return nil, s.gatewayErr("GetGroupDetail", err)
	}
	if len(owners) > 0 {
		out.ManagerNickname = owners[0].Nickname
	}

	member, err := s.memberRepo.GetGroupMember(ctx, req.GroupId, req.UserId)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.gatewayErr("GetGroupDetail", err)
	}
	if member.IsActive() {
		out.VisitCard = member.VisitCard
	}

	notDisturb, err := s.sessionRepo.GetGroupNotDisturb(ctx, req.UserId, req.GroupId)
	if err != nil {
		return nil, s.gatewayErr("GetGroupDetail", err)
	}
	if notDisturb {
		out.NotDisturb = 1
	}

	if out.MemberCount, err = s.memberRepo.CountActiveMembers(ctx, req.GroupId); err != nil {
		return nil, s.gatewayErr("GetGroupDetail", err)
	}

	notice, err := s.noticeRepo.GetLatestNotice(ctx, req.GroupId)
	switch {
	case err == nil:
		out.Notice = &groupRespond.NoticeBrief{Title: notice.Title, Content: notice.Content}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, s.gatewayErr("GetGroupDetail", err)
	}

	return out, nil
}

// checkUsers 所有用户必须存在且状态正常
func (s *groupServiceImpl) checkUsers(ctx context.Context, ids []int64) error {
	briefs, err := s.userRepo.GetUserBriefByIDs(ctx, ids)
	if err != nil {
		return s.gatewayErr("checkUsers", err)
	}
	valid := lo.FilterMap(briefs, func(b userEntity.UserBrief, _ int) (int64, bool) {
		return b.Id, b.Status == 0
	})
	if missing := lo.Without(ids, valid...); len(missing) > 0 {
		return xerr.ErrUserNotExists
	}
	return nil
}

// appendEvent 事件写入出箱表，随调用方事务一起提交或回滚
func appendEvent(ctx context.Context, outboxRepo groupRepository.GroupEventOutboxRepository, name string, groupID int64, payload event.Payload) error {
	ev := event.New(name, groupID, payload)
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return outboxRepo.Create(ctx, &groupEntity.GroupEventOutbox{
		Id:            util.GenerateID(),
		EventId:       ev.EventId,
		Event:         ev.Event,
		GroupId:       groupID,
		PayloadJson:   body,
		PublishStatus: groupEntity.OutboxPending,
		CreatedAt:     ev.OccurredAt,
		UpdatedAt:     ev.OccurredAt,
	})
}

// gatewayErr 业务错误原样返回；存储层错误记录日志后同样原样返回
func (s *groupServiceImpl) gatewayErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *xerr.CodeError
	if !errors.As(err, &ce) {
		zlog.Error("group gateway failed", zap.String("op", op), zap.Error(err))
	}
	return err
}

func newRecord(groupID, operatorID int64, typ groupEntity.RecordType, userIDs []int64) (*groupEntity.GroupRecord, error) {
	raw, err := json.Marshal(userIDs)
	if err != nil {
		return nil, err
	}
	return &groupEntity.GroupRecord{
		Id:         util.GenerateID(),
		GroupId:    groupID,
		OperatorId: operatorID,
		Type:       typ,
		UserIds:    raw,
		CreatedAt:  time.Now(),
	}, nil
}
