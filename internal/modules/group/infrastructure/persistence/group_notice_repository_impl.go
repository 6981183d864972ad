package persistence

import (
	"context"
	"time"

	"GroupLink/internal/modules/group/domain/entity"
	"GroupLink/internal/modules/group/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type groupNoticeRepositoryImpl struct {
	db *gorm.DB
}

func NewGroupNoticeRepository(db *gorm.DB) repository.GroupNoticeRepository {
	return &groupNoticeRepositoryImpl{db: db}
}

func (r *groupNoticeRepositoryImpl) CreateGroupNotice(ctx context.Context, notice *entity.GroupNotice) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(notice).Error, "CreateGroupNotice")
}

func (r *groupNoticeRepositoryImpl) GetGroupNotice(ctx context.Context, groupID, noticeID int64) (*entity.GroupNotice, error) {
	var n entity.GroupNotice
	err := r.db.WithContext(ctx).
		Where("id = ? AND group_id = ?", noticeID, groupID).
		First(&n).Error
	if err != nil {
		return nil, errors.Wrap(err, "GetGroupNotice")
	}
	return &n, nil
}

func (r *groupNoticeRepositoryImpl) UpdateGroupNotice(ctx context.Context, groupID, noticeID int64, title, content string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.GroupNotice{}).
		Where("id = ? AND group_id = ? AND is_deleted = ?", noticeID, groupID, false).
		Updates(map[string]interface{}{
			"title":      title,
			"content":    content,
			"updated_at": at,
		})
	return res.RowsAffected, errors.Wrap(res.Error, "UpdateGroupNotice")
}

func (r *groupNoticeRepositoryImpl) SoftDeleteGroupNotice(ctx context.Context, groupID, noticeID int64, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.GroupNotice{}).
		Where("id = ? AND group_id = ? AND is_deleted = ?", noticeID, groupID, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"removed_at": at,
		})
	return res.RowsAffected, errors.Wrap(res.Error, "SoftDeleteGroupNotice")
}

func (r *groupNoticeRepositoryImpl) GetLatestNotice(ctx context.Context, groupID int64) (*entity.GroupNotice, error) {
	var n entity.GroupNotice
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND is_deleted = ?", groupID, false).
		Order("id DESC").
		First(&n).Error
	if err != nil {
		return nil, errors.Wrap(err, "GetLatestNotice")
	}
	return &n, nil
}

func (r *groupNoticeRepositoryImpl) ListNoticesWithAuthor(ctx context.Context, groupID int64) ([]entity.GroupNoticeWithAuthor, error) {
	var notices []entity.GroupNoticeWithAuthor
	err := r.db.WithContext(ctx).Table("group_notice").
		Select("group_notice.*, user_info.nickname, user_info.avatar").
		Joins("LEFT JOIN user_info ON user_info.id = group_notice.author_id").
		Where("group_notice.group_id = ? AND group_notice.is_deleted = ?", groupID, false).
		Order("group_notice.id DESC").
		Find(&notices).Error
	if err != nil {
		return nil, errors.Wrap(err, "ListNoticesWithAuthor")
	}
	return notices, nil
}
