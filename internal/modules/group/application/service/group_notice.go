package service

import (
	"context"
	"errors"
	"strings"
	"time"

	groupRequest "GroupLink/internal/modules/group/application/dto/request"
	groupRespond "GroupLink/internal/modules/group/application/dto/respond"
	groupEntity "GroupLink/internal/modules/group/domain/entity"
	"GroupLink/internal/modules/group/domain/event"
	groupRepository "GroupLink/internal/modules/group/domain/repository"
	"GroupLink/pkg/util"
	"GroupLink/pkg/xerr"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

func (s *groupServiceImpl) ListNotices(ctx context.Context, req groupRequest.GroupIdRequest) ([]groupRespond.GroupNoticeRespond, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if _, err := authorize(ctx, s.groupRepo, s.memberRepo, req.GroupId, req.UserId, roleMember); err != nil {
		return nil, s.gatewayErr("ListNotices", err)
	}

	rows, err := s.noticeRepo.ListNoticesWithAuthor(ctx, req.GroupId)
	if err != nil {
		return nil, s.gatewayErr("ListNotices", err)
	}

	return lo.Map(rows, func(n groupEntity.GroupNoticeWithAuthor, _ int) groupRespond.GroupNoticeRespond {
		return groupRespond.GroupNoticeRespond{
			Id:        n.Id,
			UserId:    n.AuthorId,
			Title:     n.Title,
			Content:   n.Content,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
			UpdatedAt: n.UpdatedAt.Format(time.RFC3339),
			Avatar:    n.Avatar,
			Nickname:  n.Nickname,
		}
	}), nil
}

// CreateOrUpdateNotice notice_id 为 0 时新建，否则原地修改标题和内容
func (s *groupServiceImpl) CreateOrUpdateNotice(ctx context.Context, req groupRequest.EditNoticeRequest) (*groupRespond.EditNoticeRespond, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var noticeID int64
	created := false
	now := time.Now()
	err := s.uow.Transaction(ctx, func(groupRepo groupRepository.GroupInfoRepository, memberRepo groupRepository.GroupMemberRepository, noticeRepo groupRepository.GroupNoticeRepository, _ groupRepository.GroupRecordRepository, outboxRepo groupRepository.GroupEventOutboxRepository) error {
		if _, err := authorize(ctx, groupRepo, memberRepo, req.GroupId, req.UserId, roleOwner); err != nil {
			return err
		}

		if req.NoticeId == 0 {
			notice := &groupEntity.GroupNotice{
				Id:        util.GenerateID(),
				GroupId:   req.GroupId,
				AuthorId:  req.UserId,
				Title:     req.Title,
				Content:   req.Content,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := noticeRepo.CreateGroupNotice(ctx, notice); err != nil {
				return err
			}
			noticeID, created = notice.Id, true
			return appendEvent(ctx, outboxRepo, event.GroupNoticePublished, req.GroupId, event.Payload{OperatorId: req.UserId, NoticeId: noticeID})
		}

		notice, err := noticeRepo.GetGroupNotice(ctx, req.GroupId, req.NoticeId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return xerr.ErrNoticeNotExists
			}
			return err
		}
		if notice.IsDeleted {
			return xerr.ErrNoticeNotExists
		}

		if _, err := noticeRepo.UpdateGroupNotice(ctx, req.GroupId, req.NoticeId, req.Title, req.Content, now); err != nil {
			return err
		}
		noticeID = notice.Id
		return nil
	})
	if err != nil {
		return nil, s.gatewayErr("CreateOrUpdateNotice", err)
	}

	if created {
		s.notifier.Notify()
	}
	return &groupRespond.EditNoticeRespond{NoticeId: noticeID}, nil
}

// DeleteNotice 软删除，重复删除直接返回成功
func (s *groupServiceImpl) DeleteNotice(ctx context.Context, req groupRequest.DeleteNoticeRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	deleted := false
	err := s.uow.Transaction(ctx, func(groupRepo groupRepository.GroupInfoRepository, memberRepo groupRepository.GroupMemberRepository, noticeRepo groupRepository.GroupNoticeRepository, _ groupRepository.GroupRecordRepository, outboxRepo groupRepository.GroupEventOutboxRepository) error {
		if _, err := authorize(ctx, groupRepo, memberRepo, req.GroupId, req.UserId, roleOwner); err != nil {
			return err
		}

		notice, err := noticeRepo.GetGroupNotice(ctx, req.GroupId, req.NoticeId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return xerr.ErrNoticeNotExists
			}
			return err
		}
		if notice.IsDeleted {
			return nil
		}

		n, err := noticeRepo.SoftDeleteGroupNotice(ctx, req.GroupId, req.NoticeId, time.Now())
		if err != nil || n == 0 {
			return err
		}
		deleted = true
		return appendEvent(ctx, outboxRepo, event.GroupNoticeDeleted, req.GroupId, event.Payload{OperatorId: req.UserId, NoticeId: req.NoticeId})
	})
	if err != nil {
		return s.gatewayErr("DeleteNotice", err)
	}

	if deleted {
		s.notifier.Notify()
	}
	return nil
}
